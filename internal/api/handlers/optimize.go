package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/maplink"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

// OptimizeHandler runs the multi-vehicle optimizer for a set of task ids.
type OptimizeHandler struct {
	Optimizer *services.Optimizer
	Repo      ports.TaskRepository
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.TaskIDs) == 0 {
		writeError(w, r, http.StatusBadRequest, "task_ids is required")
		return
	}

	method := services.Method(req.Method)
	if req.Method == "" {
		method = services.MethodAngle
	}
	if method != services.MethodAngle && method != services.MethodTrip {
		writeError(w, r, http.StatusBadRequest, "method must be \"angle\" or \"trip\"")
		return
	}

	groups, err := h.Optimizer.Optimize(r.Context(), req.TaskIDs, req.VehicleCount, method)
	if err != nil {
		log.Printf("optimize failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.OptimizeResponse{Groups: make([]dto.VehicleGroupResponse, 0, len(groups))}
	for _, g := range groups {
		res.Groups = append(res.Groups, dto.VehicleGroupResponse{
			VehicleIndex:   g.VehicleIndex,
			OrderedTaskIDs: g.OrderedTaskIDs,
			MapLink:        h.groupLink(r, g.OrderedTaskIDs),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// groupLink builds the display-only deep link for a group's visiting order.
// Link building is best-effort: a lookup failure yields no link, not a
// failed response.
func (h *OptimizeHandler) groupLink(r *http.Request, ids []string) string {
	points := make([]domain.Coordinate, 0, len(ids))
	for _, id := range ids {
		tp, err := h.Repo.GetTaskPoint(r.Context(), id)
		if err != nil || !tp.Routable() {
			return ""
		}
		points = append(points, *tp.Start)
	}

	if len(points) == 1 {
		return maplink.BuildRouteLink(points[0], nil, "driving")
	}
	return maplink.BuildMultiStopLink(points, "driving")
}
