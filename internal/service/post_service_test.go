package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// 内存库只允许单连接，避免每个连接各拿一份空库
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Group{}, &model.Post{}, &model.Comment{}, &model.Follow{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x", Email: name + "@example.com"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func seedGroup(t *testing.T, db *gorm.DB, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Title: "Группа " + slug, Slug: slug, Description: "test group"}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("seed group %s: %v", slug, err)
	}
	return g
}

func TestCreatePostAndDetail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")

	post, err := svc.Create(author.ID, "Тестовый текст", nil, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("post id not assigned")
	}
	if post.CreatedAt.IsZero() {
		t.Fatal("created_at not assigned")
	}

	got, comments, err := svc.GetDetail(post.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if got.Text != "Тестовый текст" {
		t.Fatalf("text = %q", got.Text)
	}
	if got.AuthorID != author.ID {
		t.Fatalf("author = %d, want %d", got.AuthorID, author.ID)
	}
	if got.Author == nil || got.Author.Username != "leo" {
		t.Fatalf("author not loaded: %+v", got.Author)
	}
	if got.GroupID != nil {
		t.Fatalf("group should be nil, got %v", *got.GroupID)
	}
	if len(comments) != 0 {
		t.Fatalf("comments = %d, want 0", len(comments))
	}
}

func TestCreatePostWithGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "cats")

	post, err := svc.Create(author.ID, "с группой", &group.ID, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.GroupID == nil || *post.GroupID != group.ID {
		t.Fatalf("group id = %v, want %d", post.GroupID, group.ID)
	}

	// 不存在的分组直接拒绝
	missing := group.ID + 100
	if _, err := svc.Create(author.ID, "text", &missing, ""); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreatePostEmptyText(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")

	if _, err := svc.Create(author.ID, "   ", nil, ""); !errors.Is(err, pkg.ErrTextRequired) {
		t.Fatalf("err = %v, want ErrTextRequired", err)
	}
	var count int64
	if err := db.Model(&model.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0 (no partial writes)", count)
	}
}

func TestEditPost(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "cats")

	post, err := svc.Create(author.ID, "before", nil, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := post.CreatedAt

	edited, err := svc.Edit(post.ID, author.ID, "after", &group.ID, "")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Text != "after" {
		t.Fatalf("text = %q", edited.Text)
	}
	if edited.GroupID == nil || *edited.GroupID != group.ID {
		t.Fatalf("group id = %v, want %d", edited.GroupID, group.ID)
	}
	if !edited.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed: %v -> %v", created, edited.CreatedAt)
	}

	// 清除分组：group_id 传 nil 表示摘掉
	edited, err = svc.Edit(post.ID, author.ID, "after", nil, "")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.GroupID != nil {
		t.Fatalf("group id = %v, want nil", *edited.GroupID)
	}
}

func TestEditPostKeepsImage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")

	post, err := svc.Create(author.ID, "с картинкой", nil, "uploads/posts/1_cat.jpg")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 编辑时没传新图片：旧图保留
	edited, err := svc.Edit(post.ID, author.ID, "текст поменяли", nil, "")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Image != "uploads/posts/1_cat.jpg" {
		t.Fatalf("image = %q, want kept", edited.Image)
	}
	if edited.Text != "текст поменяли" {
		t.Fatalf("text = %q", edited.Text)
	}

	// 传了新图片则替换
	edited, err = svc.Edit(post.ID, author.ID, "текст поменяли", nil, "uploads/posts/2_dog.jpg")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Image != "uploads/posts/2_dog.jpg" {
		t.Fatalf("image = %q, want replaced", edited.Image)
	}
}

func TestEditPostByNonAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")
	other := seedUser(t, db, "mila")

	post, err := svc.Create(author.ID, "original", nil, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Edit(post.ID, other.ID, "hacked", nil, ""); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	got, _, err := svc.GetDetail(post.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if got.Text != "original" {
		t.Fatalf("text changed to %q", got.Text)
	}
}

func TestEditPostNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	user := seedUser(t, db, "leo")

	if _, err := svc.Edit(12345, user.ID, "text", nil, ""); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func seedPosts(t *testing.T, db *gorm.DB, u *model.User, g *model.Group, n int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		var gid *uint64
		if g != nil {
			gid = &g.ID
		}
		post := &model.Post{
			Text:      fmt.Sprintf("post %d", i),
			AuthorID:  u.ID,
			GroupID:   gid,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(post).Error; err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
	}
}

func TestPaginationClamping(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "cats")
	seedPosts(t, db, author, group, 13)

	ctx := context.Background()

	pg, err := svc.ListAll(ctx, 1)
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(pg.Posts) != PostsPerPage {
		t.Fatalf("page 1 size = %d, want %d", len(pg.Posts), PostsPerPage)
	}
	if pg.TotalPages != 2 || pg.Total != 13 {
		t.Fatalf("total_pages = %d, total = %d", pg.TotalPages, pg.Total)
	}
	// 最新的在最前
	if pg.Posts[0].Text != "post 12" {
		t.Fatalf("first item = %q, want newest", pg.Posts[0].Text)
	}

	pg, err = svc.ListAll(ctx, 2)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(pg.Posts) != 3 {
		t.Fatalf("page 2 size = %d, want 3", len(pg.Posts))
	}

	// 超出末页：夹回最后一页而不是报错
	pg, err = svc.ListAll(ctx, 7)
	if err != nil {
		t.Fatalf("list page 7: %v", err)
	}
	if pg.Page != 2 || len(pg.Posts) != 3 {
		t.Fatalf("page = %d size = %d, want clamp to 2/3", pg.Page, len(pg.Posts))
	}

	// 非法页码回到第一页
	pg, err = svc.ListAll(ctx, -4)
	if err != nil {
		t.Fatalf("list page -4: %v", err)
	}
	if pg.Page != 1 {
		t.Fatalf("page = %d, want 1", pg.Page)
	}
}

func TestListByGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "cats")
	seedPosts(t, db, author, group, 13)
	// 别的分组的帖子不应混进来
	other := seedGroup(t, db, "dogs")
	post := &model.Post{Text: "other group", AuthorID: author.ID, GroupID: &other.ID}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	g, pg, err := svc.ListByGroup("cats", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if g.Slug != "cats" {
		t.Fatalf("slug = %q", g.Slug)
	}
	if pg.Total != 13 || len(pg.Posts) != 10 {
		t.Fatalf("total = %d size = %d", pg.Total, len(pg.Posts))
	}
	for _, p := range pg.Posts {
		if p.GroupID == nil || *p.GroupID != g.ID {
			t.Fatalf("post %d from wrong group", p.ID)
		}
	}

	if _, _, err := svc.ListByGroup("missing", 1); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListByAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	leo := seedUser(t, db, "leo")
	mila := seedUser(t, db, "mila")
	seedPosts(t, db, leo, nil, 3)
	seedPosts(t, db, mila, nil, 2)

	author, pg, err := svc.ListByAuthor("leo", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if author.ID != leo.ID {
		t.Fatalf("author = %d", author.ID)
	}
	if pg.Total != 3 {
		t.Fatalf("total = %d, want 3", pg.Total)
	}

	if _, _, err := svc.ListByAuthor("nobody", 1); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFeedOnlyFollowedAuthors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	followSvc := NewFollowService(db, nil)
	ctx := context.Background()

	reader := seedUser(t, db, "reader")
	a1 := seedUser(t, db, "a1")
	a2 := seedUser(t, db, "a2")
	a3 := seedUser(t, db, "a3")
	seedPosts(t, db, a1, nil, 2)
	seedPosts(t, db, a2, nil, 3)
	seedPosts(t, db, a3, nil, 4)

	// 没关注任何人：空页而不是错误
	pg, err := svc.ListFeed(reader.ID, 1)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(pg.Posts) != 0 || pg.Total != 0 {
		t.Fatalf("empty feed got %d posts", len(pg.Posts))
	}

	if _, err := followSvc.Follow(ctx, reader.ID, "a1"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := followSvc.Follow(ctx, reader.ID, "a2"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	pg, err = svc.ListFeed(reader.ID, 1)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if pg.Total != 5 {
		t.Fatalf("total = %d, want 5", pg.Total)
	}
	for _, p := range pg.Posts {
		if p.AuthorID != a1.ID && p.AuthorID != a2.ID {
			t.Fatalf("post by unfollowed author %d leaked into feed", p.AuthorID)
		}
	}

	// 取关后内容立刻消失（每次请求实时计算）
	if _, err := followSvc.Unfollow(ctx, reader.ID, "a2"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	pg, err = svc.ListFeed(reader.ID, 1)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if pg.Total != 2 {
		t.Fatalf("total = %d, want 2", pg.Total)
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	commentSvc := NewCommentService(db)
	author := seedUser(t, db, "leo")
	reader := seedUser(t, db, "mila")

	post, err := svc.Create(author.ID, "с комментариями", nil, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := commentSvc.Add(post.ID, reader.ID, fmt.Sprintf("комментарий %d", i)); err != nil {
			t.Fatalf("comment: %v", err)
		}
	}

	// 别人删不掉
	if err := svc.Delete(post.ID, reader.ID); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(post.ID, author.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var comments int64
	if err := db.Model(&model.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if comments != 0 {
		t.Fatalf("comments = %d, want 0 after cascade", comments)
	}
}

func TestDeleteGroupNullsPosts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "leo")
	group := seedGroup(t, db, "cats")

	post, err := svc.Create(author.ID, "в группе", &group.ID, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	groupRepo := &mysql.GroupRepository{DB: db}
	if err := groupRepo.DeleteByID(group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	got, _, err := svc.GetDetail(post.ID)
	if err != nil {
		t.Fatalf("detail: %v (post must survive group delete)", err)
	}
	if got.GroupID != nil {
		t.Fatalf("group id = %v, want nil after group delete", *got.GroupID)
	}
}
