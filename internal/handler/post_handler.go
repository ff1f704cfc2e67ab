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

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler() *PostHandler {
	return &PostHandler{
		svc: service.NewPostService(mysql.DB),
	}
}

// pageFromQuery 页码缺省或非数字时回到第 1 页
func pageFromQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

// groupIDFromForm 可选的 group_id 表单字段
func groupIDFromForm(c *gin.Context) (*uint64, bool) {
	raw := c.PostForm("group_id")
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// imageFromForm 可选的图片上传，缺省时返回空路径
func imageFromForm(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return pkg.SaveUpload(c, fh)
}

// List 首页：全站帖子列表
func (h *PostHandler) List(c *gin.Context) {
	pg, err := h.svc.ListAll(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"list":        pg.Posts,
		"page":        pg.Page,
		"total_pages": pg.TotalPages,
		"total":       pg.Total,
	})
}

// GroupPosts 分组页
func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, pg, err := h.svc.ListByGroup(c.Param("slug"), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"group":       group,
		"list":        pg.Posts,
		"page":        pg.Page,
		"total_pages": pg.TotalPages,
		"total":       pg.Total,
	})
}

// Profile 作者主页
func (h *PostHandler) Profile(c *gin.Context) {
	author, pg, err := h.svc.ListByAuthor(c.Param("username"), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"author":      gin.H{"id": author.ID, "username": author.Username},
		"list":        pg.Posts,
		"page":        pg.Page,
		"total_pages": pg.TotalPages,
		"total":       pg.Total,
	})
}

// Detail 帖子详情，带评论列表
func (h *PostHandler) Detail(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, pkg.ErrNotFound)
		return
	}
	post, comments, err := h.svc.GetDetail(postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

// Feed 关注流，仅登录用户
func (h *PostHandler) Feed(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	pg, err := h.svc.ListFeed(uid.(uint64), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"list":        pg.Posts,
		"page":        pg.Page,
		"total_pages": pg.TotalPages,
		"total":       pg.Total,
	})
}

// Create 发帖（multipart：text、可选 group_id、可选 image）
func (h *PostHandler) Create(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)

	groupID, ok := groupIDFromForm(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid group_id"})
		return
	}
	image, err := imageFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "upload failed"})
		return
	}

	post, err := h.svc.Create(uid.(uint64), c.PostForm("text"), groupID, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

// Edit 编辑帖子，仅作者
func (h *PostHandler) Edit(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, pkg.ErrNotFound)
		return
	}

	groupID, ok := groupIDFromForm(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid group_id"})
		return
	}
	image, err := imageFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "upload failed"})
		return
	}

	post, err := h.svc.Edit(postID, uid.(uint64), c.PostForm("text"), groupID, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete 删除帖子，仅作者
func (h *PostHandler) Delete(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, pkg.ErrNotFound)
		return
	}
	if err := h.svc.Delete(postID, uid.(uint64)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
