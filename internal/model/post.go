package model

import "time"

// Post 帖子主体。作者删号时帖子级联删除，分组删除时 group_id 置空
type Post struct {
	ID        uint64  `gorm:"primaryKey"`
	Text      string  `gorm:"type:text;not null"`
	AuthorID  uint64  `gorm:"not null;index:idx_post_author"`
	Author    *User   `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	GroupID   *uint64 `gorm:"index:idx_post_group"`
	Group     *Group  `gorm:"constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string  `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index:idx_post_created"`
	UpdatedAt time.Time
}
