package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/faults"
	"route-optimizer-service/internal/maplink"
)

// LinkHandler resolves untrusted map share-links into coordinates.
type LinkHandler struct {
	Expander *maplink.Expander
}

func (h *LinkHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ResolveLinkRequest

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

	// Validation runs before any network call, unconditionally.
	safeURL, err := maplink.ValidateShareURL(req.URL)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "link is not an accepted map share URL")
		return
	}

	finalURL, err := h.Expander.ExpandShortLink(r.Context(), safeURL)
	if err != nil {
		log.Printf("expand share link failed: kind=%s err=%v", faults.KindOf(err), err)
		writeError(w, r, http.StatusBadGateway, "could not resolve share link")
		return
	}

	res := dto.ResolveLinkResponse{ResolvedURL: finalURL}
	if c := maplink.ExtractCoordinate(finalURL); c != nil {
		res.Coordinate = &dto.CoordinateResponse{Lat: c.Lat, Lng: c.Lng}
	}

	writeJSON(w, r, http.StatusOK, res)
}
