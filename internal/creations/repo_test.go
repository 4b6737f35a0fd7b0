package creations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMemoryRepoAppendAndList(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ctx := context.Background()

	first, err := repo.Append(ctx, Creation{UserID: "user-1", Prompt: "p1", Content: "c1", Type: TypeArticle})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() || first.Publish {
		t.Fatalf("expected defaults, got %+v", first)
	}
	if _, err := repo.Append(ctx, Creation{UserID: "user-1", Prompt: "p2", Content: "c2", Type: TypeImage, Publish: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := repo.Append(ctx, Creation{UserID: "user-2", Prompt: "p3", Content: "c3", Type: TypeTitle}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	items, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 2 || items[0].Prompt != "p2" || items[1].Prompt != "p1" {
		t.Fatalf("expected newest first, got %+v", items)
	}
	if !items[0].Publish {
		t.Fatalf("expected publish flag to persist")
	}
}

func TestMemoryRepoRejectsUnknownType(t *testing.T) {
	repo := NewMemoryRepo()
	_, err := repo.Append(context.Background(), Creation{UserID: "user-1", Type: "poem"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPGRepoAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO creations").
		WithArgs(sqlmock.AnyArg(), "user-1", "Review the uploaded resume", "feedback", TypeReview, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, err := repo.Append(context.Background(), Creation{
		UserID:  "user-1",
		Prompt:  "Review the uploaded resume",
		Content: "feedback",
		Type:    TypeReview,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if c.ID == "" {
		t.Fatalf("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "prompt", "content", "type", "publish", "created_at"}).
		AddRow("c-2", "user-1", "fox", "https://img/fox.png", TypeImage, true, now).
		AddRow("c-1", "user-1", "go", "article", TypeArticle, false, now.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, user_id, prompt, content, type, publish, created_at FROM creations").
		WithArgs("user-1").
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 2 || items[0].ID != "c-2" || !items[0].Publish {
		t.Fatalf("unexpected items %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
