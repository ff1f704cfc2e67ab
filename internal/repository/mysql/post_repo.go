package mysql

import (
	"yatube/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("Author").Preload("Group").First(&post, id).Error
	return &post, err
}

// UpdateFields 原地更新可编辑字段，created_at 不动
func (r *PostRepository) UpdateFields(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 硬删除，评论由外键级联清理
func (r *PostRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.Post{}, id).Error
}

func (r *PostRepository) List(offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Preload("Author").Preload("Group").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).Count(&n).Error
	return n, err
}

func (r *PostRepository) ListByGroup(groupID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Preload("Author").Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountByGroup(groupID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).Where("group_id = ?", groupID).Count(&n).Error
	return n, err
}

func (r *PostRepository) ListByAuthor(authorID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Preload("Author").Preload("Group").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountByAuthor(authorID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// followedAuthors 当前用户关注的作者集合，作为子查询使用
func (r *PostRepository) followedAuthors(userID uint64) *gorm.DB {
	return r.DB.Model(&model.Follow{}).Select("author_id").Where("user_id = ?", userID)
}

// ListFeed 关注流：按请求实时计算，不做物化
func (r *PostRepository) ListFeed(userID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Preload("Author").Preload("Group").
		Where("author_id IN (?)", r.followedAuthors(userID)).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountFeed(userID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).
		Where("author_id IN (?)", r.followedAuthors(userID)).
		Count(&n).Error
	return n, err
}
