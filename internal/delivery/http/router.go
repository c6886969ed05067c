package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/handler"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/middleware"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/response"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

const requestTimeout = 30 * time.Second

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Memorial   *handler.MemorialHandler
	Condolence *handler.CondolenceHandler
	Cart       *handler.CartHandler
	Stats      *handler.StatsHandler
}

// Router holds HTTP handlers and router configuration
type Router struct {
	handlers Handlers
	logger   *logger.Logger
	cfg      *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(handlers Handlers, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   log,
		cfg:      cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.SessionHeader},
		ExposedHeaders:   []string{middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", rt.handlers.Stats.Get)

		r.Route("/memorials", func(r chi.Router) {
			r.Post("/", rt.handlers.Memorial.Submit)
			r.Get("/", rt.handlers.Memorial.List)
			r.Get("/{id}", rt.handlers.Memorial.GetByID)
			r.Delete("/{id}", rt.handlers.Memorial.Delete)
			r.Get("/{id}/condolences", rt.handlers.Condolence.ListByMemorial)
		})

		r.Route("/condolences", func(r chi.Router) {
			r.Post("/", rt.handlers.Condolence.Create)
			r.Delete("/{id}", rt.handlers.Condolence.Delete)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(rt.cfg.IsProduction()))

			r.Get("/", rt.handlers.Cart.Get)
			r.Delete("/", rt.handlers.Cart.Clear)
			r.Post("/open", rt.handlers.Cart.Open)
			r.Post("/close", rt.handlers.Cart.Close)
			r.Post("/items", rt.handlers.Cart.AddItem)
			r.Put("/items/{id}", rt.handlers.Cart.UpdateQuantity)
			r.Delete("/items/{id}", rt.handlers.Cart.RemoveItem)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
