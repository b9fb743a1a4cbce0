package domain

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// MatchingMetrics is returned by GET /v1/metrics/matching.
type MatchingMetrics struct {
	TotalMatchRuns    int64   `json:"totalMatchRuns"`
	QualifiedTotal    int64   `json:"qualifiedTotal"`
	NeedMoreInfoTotal int64   `json:"needMoreInfoTotal"`
	NotQualifiedTotal int64   `json:"notQualifiedTotal"`
	InvalidProducts   int64   `json:"invalidProducts"`
	CacheHitRate      float64 `json:"cacheHitRate"`
	ErrorRate         float64 `json:"errorRate"`
	Period            string  `json:"period"`
}
