package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/akinalp/realms/config"
	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg/cache"
	"github.com/akinalp/realms/pkg/ratelimit"
	"github.com/akinalp/realms/services"
	"github.com/akinalp/realms/ws"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 2 * time.Minute

	dedupSweepInterval = 30 * time.Second
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth         services.AuthService
	Message      services.MessageService
	Notification services.NotificationService
	Social       services.SocialService
}

// RateLimiters, process ömrü boyunca yaşayan limiter'lar.
type RateLimiters struct {
	Login   *ratelimit.LoginRateLimiter
	Message *ratelimit.MessageRateLimiter
}

func initRateLimiters(cfg config.RealtimeConfig) *RateLimiters {
	return &RateLimiters{
		Login:   ratelimit.NewLoginRateLimiter(loginMaxAttempts, loginWindow),
		Message: ratelimit.NewMessageRateLimiter(cfg.MessageRateMax, cfg.MessageRateWindow, cfg.MessageRateCooldown),
	}
}

func (rl *RateLimiters) Close() {
	rl.Login.Close()
	rl.Message.Close()
}

// newDedupCache, client_message_id tekrarlarını yakalayan cache'i oluşturur.
// Pencere 0 ise idempotency kapalıdır ve nil döner.
func newDedupCache(window time.Duration) *cache.TTLCache[string, *models.Message] {
	if window <= 0 {
		return nil
	}
	return cache.New[string, *models.Message](window, dedupSweepInterval)
}

// initServices, service katmanını kurar.
//
// Sıralama: notificationService → socialService'den ÖNCE (social producer
// bildirimleri onun üzerinden yazar).
func initServices(
	db *database.DB,
	repos *Repositories,
	hub *ws.Hub,
	recent *cache.TTLCache[string, *models.Message],
	cfg *config.Config,
	log *zap.Logger,
) *Services {
	authService := services.NewAuthService(
		repos.User,
		repos.Session,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	messageService := services.NewMessageService(
		repos.Message,
		repos.User,
		hub,
		recent,
		log.Named("messages"),
	)

	notificationService := services.NewNotificationService(
		repos.Notification,
		hub,
		log.Named("notifications"),
	)

	socialService := services.NewSocialService(
		db.Conn,
		repos.Follow,
		repos.Post,
		repos.Comment,
		repos.Realm,
		notificationService,
		log.Named("social"),
	)

	return &Services{
		Auth:         authService,
		Message:      messageService,
		Notification: notificationService,
		Social:       socialService,
	}
}
