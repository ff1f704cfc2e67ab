package model

import "time"

// Group 帖子分类，slug 唯一，由管理接口创建
type Group struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"uniqueIndex;size:200;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName sets table name for Group
func (Group) TableName() string {
	return "groups"
}
