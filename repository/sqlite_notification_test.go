package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/pkg/testutil"
	"github.com/akinalp/realms/repository"
)

func TestNotificationLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")
	repo := repository.NewSQLiteNotificationRepo(db.X)
	ctx := context.Background()

	first := &models.Notification{
		UserID: dave.ID, ActorID: carol.ID,
		Type: models.NotificationFollow, SourceType: models.SourceUser,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == "" || first.IsRead || first.CreatedAt.IsZero() {
		t.Errorf("unexpected returned row: %+v", first)
	}

	second := &models.Notification{
		UserID: dave.ID, ActorID: carol.ID,
		Type: models.NotificationFollow, SourceType: models.SourceUser,
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	count, err := repo.CountUnread(ctx, dave.ID)
	if err != nil || count != 2 {
		t.Fatalf("CountUnread = %d, %v; want 2", count, err)
	}

	page, err := repo.ListByUser(ctx, dave.ID, 0, 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(page) != 1 || page[0].ID != second.ID {
		t.Errorf("expected newest first, got %+v", page)
	}

	if err := repo.MarkRead(ctx, first.ID, carol.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("marking someone else's notification: err = %v, want ErrNotFound", err)
	}
	if err := repo.MarkRead(ctx, first.ID, dave.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if count, _ := repo.CountUnread(ctx, dave.ID); count != 1 {
		t.Errorf("unread after MarkRead = %d, want 1", count)
	}

	n, err := repo.MarkAllRead(ctx, dave.ID)
	if err != nil || n != 1 {
		t.Errorf("MarkAllRead = %d, %v; want 1", n, err)
	}
	if n, err := repo.MarkAllRead(ctx, dave.ID); err != nil || n != 0 {
		t.Errorf("second MarkAllRead = %d, %v; want 0", n, err)
	}
}

func TestNotificationCreateUnknownRecipient(t *testing.T) {
	db := testutil.NewTestDB(t)
	carol := testutil.CreateUser(t, db, "carol")
	repo := repository.NewSQLiteNotificationRepo(db.X)

	err := repo.Create(context.Background(), &models.Notification{
		UserID: "ghost", ActorID: carol.ID,
		Type: models.NotificationFollow, SourceType: models.SourceUser,
	})
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
