package handler

import (
	"net/http"
	"strconv"

	"yatube/internal/repository/mysql"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	svc *service.GroupService
}

type groupCreateReq struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func NewGroupHandler() *GroupHandler {
	return &GroupHandler{
		svc: service.NewGroupService(mysql.DB),
	}
}

// Create 建分组（管理性接口）
func (h *GroupHandler) Create(c *gin.Context) {
	var req groupCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	group, err := h.svc.Create(req.Title, req.Slug, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    group.ID,
		"title": group.Title,
		"slug":  group.Slug,
	})
}

func (h *GroupHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
