package models

// ToolMetrics holds per-tool request counters.
type ToolMetrics struct {
	Requests        int64   `json:"requests"`
	Failures        int64   `json:"failures"`
	AvgResponseTime float64 `json:"avg_response_time_ms"`
}

// Metrics is a snapshot of request metrics across all tools.
type Metrics struct {
	TotalRequests      int64                  `json:"total_requests"`
	SuccessfulRequests int64                  `json:"successful_requests"`
	FailedRequests     int64                  `json:"failed_requests"`
	ByTool             map[string]ToolMetrics `json:"by_tool"`
}

// PerformanceSummary condenses request metrics into the figures the health
// checks consume: a success rate in [0, 1], an average response time in
// milliseconds, and a letter performance grade (A+ best through F).
type PerformanceSummary struct {
	TotalRequests       int64   `json:"total_requests"`
	SuccessRate         float64 `json:"success_rate"`
	AverageResponseTime float64 `json:"average_response_time_ms"`
	Grade               string  `json:"grade"`
}
