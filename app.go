package main

import (
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/akinalp/realms/config"
	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/middleware"
	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg/cache"
	"github.com/akinalp/realms/ws"
)

// App, bir veritabanı üzerinde kurulmuş tüm katmanları bir arada tutar.
// serve komutu ve uçtan uca testler aynı wire-up'ı kullanır.
type App struct {
	hub      *ws.Hub
	limiters *RateLimiters
	recent   *cache.TTLCache[string, *models.Message]
	handler  http.Handler
}

// newApp, repository → service → handler → route zincirini kurar ve
// Hub'ı başlatır. Veritabanının sahibi çağırandır.
func newApp(cfg *config.Config, db *database.DB, log *zap.Logger) *App {
	repos := initRepositories(db)

	hub := ws.NewHub(log.Named("ws"))
	go hub.Run()

	limiters := initRateLimiters(cfg.Realtime)
	recent := newDedupCache(cfg.Realtime.DedupWindow)
	svcs := initServices(db, repos, hub, recent, cfg, log)

	registerHubCallbacks(hub, svcs.Message, limiters.Message)

	mux := http.NewServeMux()
	initRoutes(mux, initHandlers(svcs, limiters, hub, cfg), svcs.Auth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return &App{
		hub:      hub,
		limiters: limiters,
		recent:   recent,
		handler:  middleware.RequestLogger(log.Named("http"))(corsHandler.Handler(mux)),
	}
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Close, Hub'ı ve arka plan temizlik goroutine'lerini durdurur.
// Birden fazla çağrılabilir.
func (a *App) Close() {
	a.hub.Shutdown()
	a.limiters.Close()
	if a.recent != nil {
		a.recent.Close()
	}
}
