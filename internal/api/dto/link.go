package dto

type ResolveLinkRequest struct {
	URL string `json:"url"`
}

type CoordinateResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ResolveLinkResponse struct {
	ResolvedURL string `json:"resolved_url"`
	// Nil when the resolved link carries no recognizable coordinate.
	Coordinate *CoordinateResponse `json:"coordinate"`
}
