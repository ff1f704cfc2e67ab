package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(producer *pkg.KafkaProducer) *FollowHandler {
	return &FollowHandler{svc: service.NewFollowService(mysql.DB, producer)}
}

// Follow 关注作者，重复请求幂等
func (h *FollowHandler) Follow(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	changed, err := h.svc.Follow(c.Request.Context(), uid.(uint64), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Unfollow 取消关注，未关注时为 no-op
func (h *FollowHandler) Unfollow(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	changed, err := h.svc.Unfollow(c.Request.Context(), uid.(uint64), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Relation 当前用户是否关注了某作者
func (h *FollowHandler) Relation(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "username required"})
		return
	}
	following, err := h.svc.IsFollowing(c.Request.Context(), uid.(uint64), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}
