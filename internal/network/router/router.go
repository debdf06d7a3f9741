package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nhlong2701/takeAwayBill/internal/client"
	"github.com/nhlong2701/takeAwayBill/internal/config"
	"github.com/nhlong2701/takeAwayBill/internal/network/handlers"
	"github.com/nhlong2701/takeAwayBill/internal/network/middleware"
	"github.com/nhlong2701/takeAwayBill/internal/services"
)

type Router struct {
	Config   config.Config
	Sessions services.SessionsService
	Orders   services.OrdersService
	Board    *services.LiveBoard
	Tokens   handlers.PlatformTokens
}

func NewRouter(config config.Config, api client.OrdersAPI, tokens handlers.PlatformTokens, board *services.LiveBoard) *Router {
	return &Router{
		Config:   config,
		Sessions: services.NewSessions(config.Server),
		Orders:   services.NewOrders(config.Takeaway, api),
		Board:    board,
		Tokens:   tokens,
	}
}

func (router *Router) HandleRouter() chi.Router {
	ja := router.Sessions.GetTokenAuth()
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LogHandle)
		r.Use(middleware.MetricsHandle)
		r.Get("/health", handlers.HealthHandler())
		r.Route("/user", func(r chi.Router) {
			r.Post("/login", handlers.LoginHandler(router.Sessions))
		})
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(jwtauth.Authenticator(ja))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/history", handlers.HistoryHandler(router.Orders))
				r.Get("/history/export", handlers.ExportHandler(router.Orders))
				r.Get("/live", handlers.LiveHandler(router.Board))
				r.Post("/live/refresh", handlers.RefreshLiveHandler(router.Orders, router.Board))
			})
			r.Post("/token/refresh", handlers.RefreshTokenHandler(router.Tokens))
		})
	})
	return r
}
