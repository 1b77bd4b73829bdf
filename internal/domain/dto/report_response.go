package dto

// DateRangeRequest is the body accepted by POST /api/v1/reports/local.
// Both bounds are inclusive YYYY-MM-DD dates.
type DateRangeRequest struct {
	Start string `json:"start" binding:"required" example:"2024-01-01"`
	End   string `json:"end" binding:"required" example:"2024-01-31"`
}

// ServiceInfo describes the running service and its upstream dependencies.
type ServiceInfo struct {
	Service   string            `json:"service" example:"salesreport"`
	Version   string            `json:"version" example:"1.0.0"`
	Upstreams map[string]string `json:"upstreams"`
	Endpoints []string          `json:"endpoints"`
}
