package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricFixLatency = "tracking.fix_latency"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricScansGenerated  = "business.scans_generated"
	MetricPlansAuthorized = "business.plans_authorized"
	MetricDeviationAlerts = "business.deviation_alerts"
)
