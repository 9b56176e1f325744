package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/mmynk/sharesplit/internal/auth"
	"github.com/mmynk/sharesplit/internal/middleware"
)

// RouterConfig holds what the router needs beyond the handler.
type RouterConfig struct {
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Logger     *slog.Logger

	// RateLimitPerMin caps requests per client IP. Zero disables limiting.
	RateLimitPerMin int
}

// NewRouter mounts every endpoint of the sandbox API.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(cfg.Metrics.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)
	if cfg.RateLimitPerMin > 0 {
		r.Use(httprate.Limit(
			cfg.RateLimitPerMin,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				Detail(w, http.StatusTooManyRequests, "Request was throttled.")
			}),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		Detail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	requireAuth := middleware.RequireAuth(cfg.JWTManager, func(w http.ResponseWriter, r *http.Request, err error) {
		writeError(w, cfg.Logger, err)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register/", h.register)
		r.Post("/login/", h.login)
		r.With(requireAuth).Get("/list/", h.searchMembers)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/expenses", h.createExpense)
		r.Post("/expenses/", h.createExpense)

		r.Get("/expense/categories/", h.listCategories)

		r.Route("/expense/groups", func(r chi.Router) {
			r.Get("/", h.listGroups)
			r.Post("/", h.createGroup)
			r.Get("/{groupID}/", h.getGroup)
			r.Get("/{groupID}/balances/", h.groupBalances)
		})
	})

	return r
}
