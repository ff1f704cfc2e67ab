package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
	"yatube/internal/repository/redis"

	"gorm.io/gorm"
)

// PostsPerPage 列表页固定大小
const PostsPerPage = 10

// Page 一页帖子及分页元数据
type Page struct {
	Posts      []model.Post `json:"posts"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Total      int64        `json:"total"`
}

type PostService struct {
	repo        *mysql.PostRepository
	groupRepo   *mysql.GroupRepository
	userRepo    *mysql.UserRepository
	commentRepo *mysql.CommentRepository
	cache       *redis.FeedCacheRepository
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:        &mysql.PostRepository{DB: db},
		groupRepo:   &mysql.GroupRepository{DB: db},
		userRepo:    &mysql.UserRepository{DB: db},
		commentRepo: &mysql.CommentRepository{DB: db},
		cache:       redis.NewFeedCacheRepository(),
	}
}

// notFoundOr 把 gorm 的未命中翻译成业务错误
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotFound
	}
	return err
}

// clampPage 页码兜底：非法页回到第 1 页，超出末页夹到末页
func clampPage(page int, total int64) (int, int) {
	totalPages := int((total + PostsPerPage - 1) / PostsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

// Create 新建帖子，时间戳由服务端赋值
func (s *PostService) Create(authorID uint64, text string, groupID *uint64, image string) (*model.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, pkg.ErrTextRequired
	}
	if groupID != nil {
		if _, err := s.groupRepo.FindByID(*groupID); err != nil {
			return nil, notFoundOr(err)
		}
	}

	post := &model.Post{
		Text:     text,
		AuthorID: authorID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Edit 仅作者可编辑，text/group/image 原地更新，发布时间不变
func (s *PostService) Edit(postID, userID uint64, text string, groupID *uint64, image string) (*model.Post, error) {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if post.AuthorID != userID {
		return nil, pkg.ErrForbidden
	}
	if strings.TrimSpace(text) == "" {
		return nil, pkg.ErrTextRequired
	}
	if groupID != nil {
		if _, err := s.groupRepo.FindByID(*groupID); err != nil {
			return nil, notFoundOr(err)
		}
	}

	fields := map[string]any{
		"text":     text,
		"group_id": groupID,
	}
	// 没有新图片就保留旧的
	if image != "" {
		fields["image"] = image
	}
	if err := s.repo.UpdateFields(postID, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(postID)
}

// GetDetail 帖子详情和它的评论（新评论在前）
func (s *PostService) GetDetail(postID uint64) (*model.Post, []model.Comment, error) {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return nil, nil, notFoundOr(err)
	}
	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// ListAll 全站帖子列表，结果按页缓存 20 秒
func (s *PostService) ListAll(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	var cached Page
	if ok, _ := s.cache.GetIndexPage(ctx, page, &cached); ok {
		return &cached, nil
	}

	total, err := s.repo.Count()
	if err != nil {
		return nil, err
	}
	clamped, totalPages := clampPage(page, total)
	// 超界页码夹到末页后再查一次，读写用同一个键
	if clamped != page {
		if ok, _ := s.cache.GetIndexPage(ctx, clamped, &cached); ok {
			return &cached, nil
		}
	}
	posts, err := s.repo.List((clamped-1)*PostsPerPage, PostsPerPage)
	if err != nil {
		return nil, err
	}

	pg := &Page{Posts: posts, Page: clamped, TotalPages: totalPages, Total: total}
	_ = s.cache.SetIndexPage(ctx, clamped, pg)
	return pg, nil
}

// ListByGroup 某分组下的帖子，slug 不存在时报 not found
func (s *PostService) ListByGroup(slug string, page int) (*model.Group, *Page, error) {
	group, err := s.groupRepo.FindBySlug(slug)
	if err != nil {
		return nil, nil, notFoundOr(err)
	}

	total, err := s.repo.CountByGroup(group.ID)
	if err != nil {
		return nil, nil, err
	}
	page, totalPages := clampPage(page, total)
	posts, err := s.repo.ListByGroup(group.ID, (page-1)*PostsPerPage, PostsPerPage)
	if err != nil {
		return nil, nil, err
	}
	return group, &Page{Posts: posts, Page: page, TotalPages: totalPages, Total: total}, nil
}

// ListByAuthor 作者主页的帖子，用户名不存在时报 not found
func (s *PostService) ListByAuthor(username string, page int) (*model.User, *Page, error) {
	author, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, nil, notFoundOr(err)
	}

	total, err := s.repo.CountByAuthor(author.ID)
	if err != nil {
		return nil, nil, err
	}
	page, totalPages := clampPage(page, total)
	posts, err := s.repo.ListByAuthor(author.ID, (page-1)*PostsPerPage, PostsPerPage)
	if err != nil {
		return nil, nil, err
	}
	return author, &Page{Posts: posts, Page: page, TotalPages: totalPages, Total: total}, nil
}

// ListFeed 关注流：只含当前用户关注的作者的帖子，没关注任何人时为空页
func (s *PostService) ListFeed(userID uint64, page int) (*Page, error) {
	total, err := s.repo.CountFeed(userID)
	if err != nil {
		return nil, err
	}
	page, totalPages := clampPage(page, total)
	posts, err := s.repo.ListFeed(userID, (page-1)*PostsPerPage, PostsPerPage)
	if err != nil {
		return nil, err
	}
	return &Page{Posts: posts, Page: page, TotalPages: totalPages, Total: total}, nil
}

// Delete 仅作者可删除自己的帖子
func (s *PostService) Delete(postID, userID uint64) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return notFoundOr(err)
	}
	if post.AuthorID != userID {
		return pkg.ErrForbidden
	}
	return s.repo.Delete(postID)
}
