package service

import (
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

type GroupService struct {
	repo *mysql.GroupRepository
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{repo: &mysql.GroupRepository{DB: db}}
}

// Create 管理性操作：建分组，slug 唯一
func (s *GroupService) Create(title, slug, description string) (*model.Group, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(slug) == "" {
		return nil, pkg.ErrTextRequired
	}
	group := &model.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	if err := s.repo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetBySlug(slug string) (*model.Group, error) {
	group, err := s.repo.FindBySlug(slug)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return group, nil
}

func (s *GroupService) List(page, size int) ([]model.Group, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.List(offset, size)
}
