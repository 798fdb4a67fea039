package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/repository"
	"github.com/akinalp/realms/ws"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

// NotificationService, bildirimleri kaydeder ve alıcının bildirim
// kanalına yayınlar.
//
// Kayıt zorunludur: hata çağırana döner. Yayın best-effort'tur; bağlı
// kimse yoksa bildirim sadece veritabanında kalır.
type NotificationService interface {
	Create(ctx context.Context, params models.CreateNotificationParams) (*models.Notification, error)

	NotifyUserFollow(ctx context.Context, userID, actorID string) (*models.Notification, error)
	NotifyPostLike(ctx context.Context, userID, actorID, postID string) (*models.Notification, error)
	NotifyPostComment(ctx context.Context, userID, actorID, postID string) (*models.Notification, error)
	NotifyCommentLike(ctx context.Context, userID, actorID, commentID string) (*models.Notification, error)
	NotifyCommentReply(ctx context.Context, userID, actorID, commentID string) (*models.Notification, error)
	NotifyRealmJoin(ctx context.Context, userID, actorID, realmID string) (*models.Notification, error)

	List(ctx context.Context, userID string, page, limit int) (*models.NotificationPage, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	hub              ws.EventPublisher
	log              *zap.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	hub ws.EventPublisher,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
		log:              log,
	}
}

func (s *notificationService) Create(ctx context.Context, params models.CreateNotificationParams) (*models.Notification, error) {
	source, err := params.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	n := params.ToNotification(source)
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to save %s notification: %w", params.Type, err)
	}

	queued := s.hub.Publish(ws.NotificationChannel(n.UserID), ws.Event{
		Op:   ws.OpReceiveNotification,
		Data: n,
	})
	s.log.Debug("notification delivered",
		zap.String("id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("recipient", n.UserID),
		zap.Int("connections", queued),
	)
	return n, nil
}

func (s *notificationService) NotifyUserFollow(ctx context.Context, userID, actorID string) (*models.Notification, error) {
	return s.Create(ctx, models.CreateNotificationParams{
		UserID: userID, ActorID: actorID, Type: models.NotificationFollow,
	})
}

func (s *notificationService) NotifyPostLike(ctx context.Context, userID, actorID, postID string) (*models.Notification, error) {
	return s.Create(ctx, models.CreateNotificationParams{
		UserID: userID, ActorID: actorID, Type: models.NotificationPostLike, PostID: postID,
	})
}

func (s *notificationService) NotifyPostComment(ctx context.Context, userID, actorID, postID string) (*models.Notification, error) {
	return s.Create(ctx, models.CreateNotificationParams{
		UserID: userID, ActorID: actorID, Type: models.NotificationPostComment, PostID: postID,
	})
}

func (s *notificationService) NotifyCommentLike(ctx context.Context, userID, actorID, commentID string) (*models.Notification, error) {
	return s.Create(ctx, models.CreateNotificationParams{
		UserID: userID, ActorID: actorID, Type: models.NotificationCommentLike, CommentID: commentID,
	})
}

func (s *notificationService) NotifyCommentReply(ctx context.Context, userID, actorID, commentID string) (*models.Notification, error) {
	return s.Create(ctx, models.CreateNotificationParams{
		UserID: userID, ActorID: actorID, Type: models.NotificationCommentReply, CommentID: commentID,
	})
}

func (s *notificationService) NotifyRealmJoin(ctx context.Context, userID, actorID, realmID string) (*models.Notification, error) {
	return s.Create(ctx, models.CreateNotificationParams{
		UserID: userID, ActorID: actorID, Type: models.NotificationRealmJoin, RealmID: realmID,
	})
}

// List, sayfa numaralı listeleme (page 1'den başlar, yeniden eskiye).
func (s *notificationService) List(ctx context.Context, userID string, page, limit int) (*models.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > maxNotificationLimit {
		limit = defaultNotificationLimit
	}

	items, err := s.notificationRepo.ListByUser(ctx, userID, (page-1)*limit, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	if items == nil {
		items = []models.Notification{}
	}

	return &models.NotificationPage{
		Notifications: items,
		Page:          page,
		Limit:         limit,
		HasMore:       hasMore,
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead, sadece kullanıcının kendi bildirimini işaretler; başkasınınki
// ErrNotFound döner.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
