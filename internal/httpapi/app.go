package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/sharesplit/internal/auth"
	"github.com/mmynk/sharesplit/internal/service"
	"github.com/mmynk/sharesplit/internal/storage"
)

// AppConfig configures NewApp.
type AppConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	RateLimitPerMin int

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	Logger *slog.Logger
}

// NewApp assembles services, metrics and the router over store.
func NewApp(store storage.Store, cfg AppConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(cost)
	metrics := NewMetrics()

	handler := NewHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger),
		service.NewGroupService(store, logger),
		service.NewExpenseService(store, logger),
		metrics,
		logger,
	)

	return NewRouter(handler, RouterConfig{
		JWTManager:      jwtManager,
		Metrics:         metrics,
		Logger:          logger,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
}
