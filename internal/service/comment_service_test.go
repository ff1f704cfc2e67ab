package service

import (
	"errors"
	"testing"
	"time"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

func TestAddComment(t *testing.T) {
	db := setupTestDB(t)
	postSvc := NewPostService(db)
	svc := NewCommentService(db)

	author := seedUser(t, db, "leo")
	reader := seedUser(t, db, "mila")
	post, err := postSvc.Create(author.ID, "обсуждаемый пост", nil, "")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	comment, err := svc.Add(post.ID, reader.ID, "первый!")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if comment.ID == 0 || comment.CreatedAt.IsZero() {
		t.Fatal("comment id/timestamp not assigned")
	}
	if comment.PostID != post.ID || comment.AuthorID != reader.ID {
		t.Fatalf("comment attached wrong: post=%d author=%d", comment.PostID, comment.AuthorID)
	}

	_, comments, err := postSvc.GetDetail(post.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(comments) != 1 || comments[0].Text != "первый!" {
		t.Fatalf("comments = %+v", comments)
	}
	if comments[0].Author == nil || comments[0].Author.Username != "mila" {
		t.Fatalf("comment author not loaded: %+v", comments[0].Author)
	}
}

func TestAddCommentValidation(t *testing.T) {
	db := setupTestDB(t)
	postSvc := NewPostService(db)
	svc := NewCommentService(db)

	author := seedUser(t, db, "leo")
	post, err := postSvc.Create(author.ID, "пост", nil, "")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := svc.Add(post.ID, author.ID, "  "); !errors.Is(err, pkg.ErrTextRequired) {
		t.Fatalf("err = %v, want ErrTextRequired", err)
	}
	if _, err := svc.Add(99999, author.ID, "text"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var n int64
	if err := db.Model(&model.Comment{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("comments = %d, want 0", n)
	}
}

func TestCommentsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	postSvc := NewPostService(db)

	author := seedUser(t, db, "leo")
	post, err := postSvc.Create(author.ID, "пост", nil, "")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"старый", "средний", "новый"} {
		c := &model.Comment{
			PostID:    post.ID,
			AuthorID:  author.ID,
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}

	_, comments, err := postSvc.GetDetail(post.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("comments = %d, want 3", len(comments))
	}
	if comments[0].Text != "новый" || comments[2].Text != "старый" {
		t.Fatalf("wrong order: %q ... %q", comments[0].Text, comments[2].Text)
	}
}
