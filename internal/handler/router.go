package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	turnhandler "github.com/Shianndri-Zanniko/Ai-tutor/internal/handler/turn"
	middlewarePkg "github.com/Shianndri-Zanniko/Ai-tutor/internal/middleware"
	"github.com/Shianndri-Zanniko/Ai-tutor/web"
)

// NewRouter wires HTTP routes to the turn orchestrator and mounts the
// embedded browser UI at the root.
func NewRouter(turnSvc turnhandler.TurnService) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	turnHandler := turnhandler.New(turnSvc)

	r.Route("/api", func(api chi.Router) {
		turnHandler.RegisterRoutes(api)
	})

	r.Handle("/*", web.Handler())

	return r
}
