package api

import (
	"net/http"

	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/maplink"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.TaskRepository,
	optimizer *services.Optimizer,
	routeCache ports.RouteCache,
	expander *maplink.Expander,
) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{Optimizer: optimizer, Repo: repo}
	linkHandler := &handlers.LinkHandler{Expander: expander}
	cacheHandler := &handlers.CacheHandler{Cache: routeCache}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/optimize", optimizeHandler.Optimize)
	mux.HandleFunc("/links/resolve", linkHandler.Resolve)
	mux.HandleFunc("/admin/cache/clear", cacheHandler.Clear)

	return requestIDMiddleware(loggingMiddleware(mux))
}
