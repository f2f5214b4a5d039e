package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/GustavoCaso/spendwatch/internal/config"
	"github.com/GustavoCaso/spendwatch/internal/ledger"
	"github.com/GustavoCaso/spendwatch/internal/logger"
)

const maxBodyBytes = 1 << 20

type router struct {
	service *ledger.Service
	logger  *logger.Logger
}

// New builds the JSON API on top of service.
func New(service *ledger.Service, conf config.ServerConfig, logger *logger.Logger) http.Handler {
	rt := &router{
		service: service,
		logger:  logger.With("component", "router"),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return loggingMiddleware(rt.logger, next)
	})
	r.Use(xFrameDenyHeaderMiddleware)
	if len(conf.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: conf.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	if conf.RateLimit > 0 {
		r.Use(NewRateLimiter(rate.Limit(conf.RateLimit), conf.Burst).Limit)
	}

	r.Get("/health", rt.health)

	r.Route("/expenses", func(r chi.Router) {
		r.Post("/", rt.createExpense)
		r.Get("/", rt.listExpenses)
		r.Get("/export", rt.exportExpenses)
	})

	r.Route("/budgets/{month}", func(r chi.Router) {
		r.Put("/", rt.setBudget)
		r.Get("/", rt.getBudget)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", rt.listNotifications)
		r.Post("/{id}/read", rt.markNotificationRead)
	})

	r.Get("/summary", rt.summary)
	r.Delete("/data", rt.resetData)

	return r
}

func (rt *router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
