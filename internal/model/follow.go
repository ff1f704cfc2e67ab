package model

import "time"

// Follow 关注关系（user 关注 author）
type Follow struct {
	ID       uint64 `gorm:"primaryKey"`
	UserID   uint64 `gorm:"not null;index:idx_follow_user;uniqueIndex:uk_follow_pair"`
	User     *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint64 `gorm:"not null;index:idx_follow_author;uniqueIndex:uk_follow_pair"`
	Author   *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	// 复合唯一键，避免重复关注
	// uk_follow_pair = (user_id, author_id)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follows"
}
