package handler

import (
	"net/http"
	"strconv"

	"yatube/internal/middleware"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

type addCommentReq struct {
	Text string `json:"text"`
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		svc: service.NewCommentService(mysql.DB),
	}
}

// Add 给帖子加评论，返回新评论和更新后的评论列表
func (h *CommentHandler) Add(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, pkg.ErrNotFound)
		return
	}

	var req addCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	comment, err := h.svc.Add(postID, uid.(uint64), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := h.svc.ListByPost(postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment, "comments": comments})
}
