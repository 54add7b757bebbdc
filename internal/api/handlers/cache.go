package handlers

import (
	"log"
	"net/http"

	"route-optimizer-service/internal/ports"
)

// CacheHandler exposes the explicit route-cache purge. The task-mutation
// workflow calls it after any coordinate change so stale distances are
// never served to the optimizer.
type CacheHandler struct {
	Cache ports.RouteCache
}

func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.Cache.Clear(r.Context()); err != nil {
		log.Printf("clear route cache failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "cleared"})
}
