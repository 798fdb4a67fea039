package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/pkg/cache"
	"github.com/akinalp/realms/repository"
	"github.com/akinalp/realms/ws"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 100
)

// MessageService, direkt mesaj gönderimi ve geçmişi.
type MessageService interface {
	// Send, mesajı kaydeder ve ardından alıcının delivery kanalına
	// receive_message olarak yayınlar. Kayıt başarısızsa hiçbir şey
	// yayınlanmaz.
	Send(ctx context.Context, req models.SendMessageRequest) (*models.Message, error)

	// GetConversation, iki kullanıcı arasındaki mesajları eskiden yeniye
	// döner. beforeID verilirse o mesajdan önceki sayfa gelir.
	GetConversation(ctx context.Context, userID, otherUserID, beforeID string, limit int) (*models.MessagePage, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	hub         ws.EventPublisher
	log         *zap.Logger

	// recent: (senderId, clientMessageId) → kaydedilmiş mesaj.
	// nil ise idempotency kapalıdır.
	recent   *cache.TTLCache[string, *models.Message]
	inflight singleflight.Group
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	hub ws.EventPublisher,
	recent *cache.TTLCache[string, *models.Message],
	log *zap.Logger,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		hub:         hub,
		recent:      recent,
		log:         log,
	}
}

func (s *messageService) Send(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	var (
		msg *models.Message
		err error
	)
	if req.ClientMessageID == "" || s.recent == nil {
		msg, err = s.persist(ctx, &req)
	} else {
		msg, err = s.persistOnce(ctx, &req)
	}
	if err != nil {
		return nil, err
	}

	queued := s.hub.Publish(ws.DeliveryChannel(msg.ReceiverID), ws.Event{
		Op:   ws.OpReceiveMessage,
		Data: msg,
	})
	s.log.Debug("message delivered",
		zap.String("id", msg.ID),
		zap.String("receiver", msg.ReceiverID),
		zap.Int("connections", queued),
	)
	return msg, nil
}

// persistOnce, aynı gönderen ve clientMessageId için dedup penceresi
// içinde tek satır yazar. Tekrar gelen istek ilk satırı döner; eşzamanlı
// tekrarlar aynı insert'i paylaşır. Paylaşılan insert ilk çağıranın
// iptalinden etkilenmez, aksi halde bekleyen tekrarlar da düşerdi.
//
// Aynı key farklı alıcı veya içerikle gelirse ErrAlreadyExists döner.
func (s *messageService) persistOnce(ctx context.Context, req *models.SendMessageRequest) (*models.Message, error) {
	key := req.SenderID + "\x00" + req.ClientMessageID
	detached := context.WithoutCancel(ctx)

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		if msg, ok := s.recent.Get(key); ok {
			return msg, nil
		}

		msg, err := s.persist(detached, req)
		if err != nil {
			return nil, err
		}
		s.recent.Set(key, msg)
		return msg, nil
	})
	if err != nil {
		return nil, err
	}

	msg := v.(*models.Message)
	if !req.Matches(msg) {
		return nil, fmt.Errorf("%w: clientMessageId reused with a different payload", pkg.ErrAlreadyExists)
	}
	s.log.Debug("message persisted once",
		zap.String("id", msg.ID),
		zap.String("client_message_id", req.ClientMessageID),
	)
	return msg, nil
}

func (s *messageService) persist(ctx context.Context, req *models.SendMessageRequest) (*models.Message, error) {
	if err := s.requireUser(ctx, req.SenderID, "sender"); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, req.ReceiverID, "receiver"); err != nil {
		return nil, err
	}

	msg := req.ToMessage()
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return msg, nil
}

func (s *messageService) requireUser(ctx context.Context, userID, role string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: %s not found", pkg.ErrNotFound, role)
		}
		return fmt.Errorf("failed to look up %s: %w", role, err)
	}
	return nil
}

func (s *messageService) GetConversation(ctx context.Context, userID, otherUserID, beforeID string, limit int) (*models.MessagePage, error) {
	otherUserID = strings.TrimSpace(otherUserID)
	if otherUserID == "" {
		return nil, fmt.Errorf("%w: user id is required", pkg.ErrBadRequest)
	}

	if limit <= 0 || limit > maxConversationLimit {
		limit = defaultConversationLimit
	}

	// Bir fazla çekilir: sonuç limit'i aşarsa daha eski mesaj vardır.
	messages, err := s.messageRepo.ListConversation(ctx, userID, otherUserID, beforeID, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	slices.Reverse(messages)

	if messages == nil {
		messages = []models.Message{}
	}
	return &models.MessagePage{Messages: messages, HasMore: hasMore}, nil
}
