package dto

type OptimizeRequest struct {
	TaskIDs      []string `json:"task_ids"`
	VehicleCount int      `json:"vehicle_count"`
	Method       string   `json:"method"`
}

type VehicleGroupResponse struct {
	VehicleIndex   int      `json:"vehicle_index"`
	OrderedTaskIDs []string `json:"ordered_task_ids"`
	// Display-only deep link visiting the group's stops in order;
	// empty when the group has fewer than two stops.
	MapLink string `json:"map_link,omitempty"`
}

type OptimizeResponse struct {
	Groups []VehicleGroupResponse `json:"groups"`
}
