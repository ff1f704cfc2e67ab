package model

import "time"

// Comment 帖子评论，随帖子或作者一起级联删除
type Comment struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"not null;index:idx_comment_post"`
	Post      *Post  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint64 `gorm:"not null;index"`
	Author    *User  `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets table name for Comment
func (Comment) TableName() string {
	return "comments"
}
