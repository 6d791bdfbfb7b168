package models

// HealthResponse is the body for GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ReadyResponse is the body for GET /api/ready.
type ReadyResponse struct {
	Status    string                    `json:"status"`
	Upstreams map[string]UpstreamStatus `json:"upstreams,omitempty"`
}

// UpstreamStatus reports the health of one registered upstream.
type UpstreamStatus struct {
	Healthy   bool   `json:"healthy"`
	LastError string `json:"lastError,omitempty"`
}
