package service

import (
	"context"
	"log"

	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

type FollowService struct {
	repo     *mysql.FollowRepository
	userRepo *mysql.UserRepository
	producer *pkg.KafkaProducer // 可为 nil，未配置 kafka 时只写库
}

func NewFollowService(db *gorm.DB, producer *pkg.KafkaProducer) *FollowService {
	return &FollowService{
		repo:     &mysql.FollowRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
		producer: producer,
	}
}

// Follow 关注作者。重复关注幂等，自关注拒绝
func (s *FollowService) Follow(ctx context.Context, userID uint64, username string) (bool, error) {
	author, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, notFoundOr(err)
	}
	if author.ID == userID {
		return false, pkg.ErrSelfFollow
	}
	changed, err := s.repo.Create(ctx, userID, author.ID)
	if err != nil {
		return false, err
	}
	if changed {
		s.publish(ctx, "follow", userID, author.ID)
	}
	return changed, nil
}

// Unfollow 取消关注，边不存在时为 no-op
func (s *FollowService) Unfollow(ctx context.Context, userID uint64, username string) (bool, error) {
	author, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, notFoundOr(err)
	}
	changed, err := s.repo.Delete(ctx, userID, author.ID)
	if err != nil {
		return false, err
	}
	if changed {
		s.publish(ctx, "unfollow", userID, author.ID)
	}
	return changed, nil
}

// IsFollowing 个人主页的"已关注"标记
func (s *FollowService) IsFollowing(ctx context.Context, userID uint64, username string) (bool, error) {
	author, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, notFoundOr(err)
	}
	return s.repo.Exists(ctx, userID, author.ID)
}

// publish 尽力而为的事件通知，失败只记日志不影响写库结果
func (s *FollowService) publish(ctx context.Context, event string, userID, authorID uint64) {
	if err := s.producer.SendFollowEvent(ctx, pkg.FollowEvent{
		Event:    event,
		UserID:   userID,
		AuthorID: authorID,
	}); err != nil {
		log.Printf("follow event send err: %v", err)
	}
}
