package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/ws"
)

type published struct {
	channel string
	event   ws.Event
}

// fakePublisher, yayınlanan event'leri kaydeder. members Publish'in
// döneceği üye sayısıdır.
type fakePublisher struct {
	mu      sync.Mutex
	events  []published
	members int
}

func (p *fakePublisher) Publish(channel string, event ws.Event) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, published{channel: channel, event: event})
	return p.members
}

func (p *fakePublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]published(nil), p.events...)
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, id := range ids {
		r.users[id] = &models.User{ID: id, Username: id}
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = uuid.NewString()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", pkg.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user", pkg.ErrNotFound)
}

// fakeMessageRepo, release kapanana kadar Create'i bekletebilir.
type fakeMessageRepo struct {
	mu      sync.Mutex
	rows    []models.Message
	release chan struct{}
	err     error
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if r.err != nil {
		return r.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()
	r.rows = append(r.rows, *msg)
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == id {
			msg := r.rows[i]
			return &msg, nil
		}
	}
	return nil, fmt.Errorf("%w: message", pkg.ErrNotFound)
}

func (r *fakeMessageRepo) ListConversation(context.Context, string, string, string, int) ([]models.Message, error) {
	return nil, nil
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// failingNotificationRepo, her Create'te err döner.
type failingNotificationRepo struct {
	err error
}

func (r failingNotificationRepo) Create(context.Context, *models.Notification) error { return r.err }

func (r failingNotificationRepo) ListByUser(context.Context, string, int, int) ([]models.Notification, error) {
	return nil, r.err
}

func (r failingNotificationRepo) CountUnread(context.Context, string) (int, error) { return 0, r.err }

func (r failingNotificationRepo) MarkRead(context.Context, string, string) error { return r.err }

func (r failingNotificationRepo) MarkAllRead(context.Context, string) (int64, error) { return 0, r.err }
