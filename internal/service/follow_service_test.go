package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

func TestFollowIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	reader := seedUser(t, db, "reader")
	seedUser(t, db, "author")

	changed, err := svc.Follow(ctx, reader.ID, "author")
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if !changed {
		t.Fatal("first follow should create an edge")
	}

	// 重复关注：不报错，也不产生第二条边
	changed, err = svc.Follow(ctx, reader.ID, "author")
	if err != nil {
		t.Fatalf("second follow: %v", err)
	}
	if changed {
		t.Fatal("second follow should be a no-op")
	}

	var n int64
	if err := db.Model(&model.Follow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("edges = %d, want 1", n)
	}

	changed, err = svc.Unfollow(ctx, reader.ID, "author")
	if err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if !changed {
		t.Fatal("unfollow should remove the edge")
	}

	// 再次取关是 no-op
	changed, err = svc.Unfollow(ctx, reader.ID, "author")
	if err != nil {
		t.Fatalf("second unfollow: %v", err)
	}
	if changed {
		t.Fatal("second unfollow should be a no-op")
	}

	if err := db.Model(&model.Follow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("edges = %d, want 0", n)
	}
}

func TestSelfFollowRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	u := seedUser(t, db, "narcissus")

	if _, err := svc.Follow(ctx, u.ID, "narcissus"); !errors.Is(err, pkg.ErrSelfFollow) {
		t.Fatalf("err = %v, want ErrSelfFollow", err)
	}

	var n int64
	if err := db.Model(&model.Follow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("edges = %d, want 0", n)
	}
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	reader := seedUser(t, db, "reader")

	if _, err := svc.Follow(ctx, reader.ID, "ghost"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("follow err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Unfollow(ctx, reader.ID, "ghost"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("unfollow err = %v, want ErrNotFound", err)
	}
}

func TestIsFollowing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db, nil)
	ctx := context.Background()

	reader := seedUser(t, db, "reader")
	seedUser(t, db, "author")

	ok, err := svc.IsFollowing(ctx, reader.ID, "author")
	if err != nil {
		t.Fatalf("relation: %v", err)
	}
	if ok {
		t.Fatal("not following yet")
	}

	if _, err := svc.Follow(ctx, reader.ID, "author"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	ok, err = svc.IsFollowing(ctx, reader.ID, "author")
	if err != nil {
		t.Fatalf("relation: %v", err)
	}
	if !ok {
		t.Fatal("relation should report following")
	}
}
