// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her biri tek bir concern.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Realtime RealtimeConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/realms.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// RealtimeConfig, WebSocket gateway ayarları.
type RealtimeConfig struct {
	// AllowAnonymous: true ise token'sız bağlantı kabul edilir ve
	// join/send payload'undaki kimlik olduğu gibi kullanılır.
	AllowAnonymous bool

	// SendBufferSize: client başına outbound buffer. Dolarsa client düşürülür.
	SendBufferSize int

	// DedupWindow: aynı (senderId, clientMessageId) çiftinin tekrar
	// yazılmayacağı süre.
	DedupWindow time.Duration

	MessageRateMax      int
	MessageRateWindow   time.Duration
	MessageRateCooldown time.Duration
}

// CORSConfig, izin verilen origin listesi. WS origin kontrolü de bunu kullanır.
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig, zap logger ayarları.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json | console
}

// Load, environment variable'lardan Config oluşturur.
//
// envFiles verilmezse varsa .env yüklenir (yoksa sessizce geçilir).
// Verilen dosyalar ise bulunmak zorundadır. Zaten tanımlı env variable'lar
// dosyadakileri ezer.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	allowAnonymous, err := strconv.ParseBool(getEnv("REALTIME_ALLOW_ANONYMOUS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid REALTIME_ALLOW_ANONYMOUS: %w", err)
	}

	sendBuffer, err := strconv.Atoi(getEnv("REALTIME_SEND_BUFFER", "256"))
	if err != nil || sendBuffer <= 0 {
		return nil, fmt.Errorf("invalid REALTIME_SEND_BUFFER: %q", getEnv("REALTIME_SEND_BUFFER", ""))
	}

	dedupWindow, err := time.ParseDuration(getEnv("REALTIME_DEDUP_WINDOW", "2m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REALTIME_DEDUP_WINDOW: %w", err)
	}

	rateMax, err := strconv.Atoi(getEnv("MESSAGE_RATE_MAX", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid MESSAGE_RATE_MAX: %w", err)
	}

	rateWindow, err := time.ParseDuration(getEnv("MESSAGE_RATE_WINDOW", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MESSAGE_RATE_WINDOW: %w", err)
	}

	rateCooldown, err := time.ParseDuration(getEnv("MESSAGE_RATE_COOLDOWN", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MESSAGE_RATE_COOLDOWN: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/realms.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Realtime: RealtimeConfig{
			AllowAnonymous:      allowAnonymous,
			SendBufferSize:      sendBuffer,
			DedupWindow:         dedupWindow,
			MessageRateMax:      rateMax,
			MessageRateWindow:   rateWindow,
			MessageRateCooldown: rateCooldown,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// splitList, virgülle ayrılmış listeyi parçalar; boş elemanlar atlanır.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
