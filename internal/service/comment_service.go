package service

import (
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	repo     *mysql.CommentRepository
	postRepo *mysql.PostRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:     &mysql.CommentRepository{DB: db},
		postRepo: &mysql.PostRepository{DB: db},
	}
}

// Add 给帖子添加评论。评论不支持编辑和删除
func (s *CommentService) Add(postID, authorID uint64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, pkg.ErrTextRequired
	}
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, notFoundOr(err)
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost 帖子的评论列表，新的在前
func (s *CommentService) ListByPost(postID uint64) ([]model.Comment, error) {
	return s.repo.ListByPost(postID)
}
