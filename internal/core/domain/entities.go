package domain

import (
	"time"
)

// Plan lifecycle statuses.
const (
	PlanStatusDraft      = "draft"
	PlanStatusGenerated  = "generated"
	PlanStatusSubmitted  = "submitted"
	PlanStatusAuthorized = "authorized"
	PlanStatusRejected   = "rejected"
)

// FlightPlan is an authored coverage mission: the scan configuration the
// operator drew on the map plus the generated waypoint path, if any.
type FlightPlan struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Operator   string          `json:"operator"`
	Status     string          `json:"status"`
	Config     ScanConfig      `json:"config"`
	Waypoints  []ScanWaypoint  `json:"waypoints,omitempty"`
	Statistics *ScanStatistics `json:"statistics,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Authorization request statuses.
const (
	AuthorizationPending  = "pending"
	AuthorizationApproved = "approved"
	AuthorizationRejected = "rejected"
)

// AuthorizationRequest tracks a regulatory authorization for one plan.
type AuthorizationRequest struct {
	ID          string     `json:"id"`
	PlanID      string     `json:"plan_id"`
	Status      string     `json:"status"`
	Authority   string     `json:"authority"`
	Reason      string     `json:"reason,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

// TelemetryFix is one live position report from an aircraft executing a plan.
type TelemetryFix struct {
	Time     time.Time `json:"time"`
	PlanID   string    `json:"plan_id"`
	Aircraft string    `json:"aircraft"`
	Location GeoPoint  `json:"location"`
	Altitude float64   `json:"altitude"`
	Speed    float64   `json:"speed"`
	Heading  float64   `json:"heading"`
}

// DeviationAlert is raised when an aircraft strays from its authored path.
type DeviationAlert struct {
	Time      time.Time `json:"time"`
	PlanID    string    `json:"plan_id"`
	Aircraft  string    `json:"aircraft"`
	Location  GeoPoint  `json:"location"`
	Deviation float64   `json:"deviation"` // meters from nearest planned leg
}
