package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/metrics"
)

// PlannerStats holds row counts across the planner tables.
type PlannerStats struct {
	Plans          int    `json:"plans"`
	Authorizations int    `json:"authorizations"`
	TelemetryFixes int    `json:"telemetry_fixes"`
	LastUpdate     string `json:"last_update,omitempty"`
}

// PlannerStatsHandler returns row counts from the planner tables.
func PlannerStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats PlannerStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM flight_plans),
				(SELECT count(*) FROM authorization_requests),
				(SELECT count(*) FROM telemetry_fixes),
				COALESCE((SELECT max(updated_at)::text FROM flight_plans), '')
		`)
		if err := row.Scan(&stats.Plans, &stats.Authorizations,
			&stats.TelemetryFixes, &stats.LastUpdate); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// ---- Scan pattern endpoints ----

// validationResponse is returned when a scan configuration is rejected.
type validationResponse struct {
	Status     int                   `json:"status"`
	Code       string                `json:"code"`
	Validation domain.ScanValidation `json:"validation"`
}

// ValidateScanHandler checks a scan configuration without generating a path.
func ValidateScanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cfg domain.ScanConfig
		if err := c.BodyParser(&cfg); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		v := deps.Plans.ValidateConfig(cfg)
		if !v.IsValid {
			metrics.ScanValidationFailures.Inc()
		}
		return c.JSON(v)
	}
}

// GenerateScanHandler generates a waypoint path for an ad-hoc configuration.
// Returns 422 with the validation details when the configuration is rejected.
func GenerateScanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cfg domain.ScanConfig
		if err := c.BodyParser(&cfg); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		start := time.Now()
		result, v, err := deps.Plans.GenerateWaypoints(c.Context(), cfg)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if !v.IsValid {
			metrics.ScanValidationFailures.Inc()
			return c.Status(422).JSON(validationResponse{
				Status:     422,
				Code:       "validation_failed",
				Validation: v,
			})
		}
		metrics.ScanGenerationDuration.Observe(time.Since(start).Seconds())
		metrics.ScansGenerated.WithLabelValues("api").Inc()
		metrics.ScanLinesPerPattern.Observe(float64(result.Statistics.ScanLineCount))

		return c.JSON(fiber.Map{
			"waypoints":  result.Waypoints,
			"statistics": result.Statistics,
			"validation": v,
		})
	}
}

// ScanAreaHandler computes the area of a survey polygon in square meters.
func ScanAreaHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Polygon domain.Polygon `json:"polygon"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if len(body.Polygon) < 3 {
			return errBadRequest(c, "polygon must have at least 3 vertices")
		}
		return c.JSON(fiber.Map{
			"area_m2": scan.PolygonArea(body.Polygon),
		})
	}
}

// NormalizeAngleHandler maps any angle in degrees into [0, 360).
func NormalizeAngleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("angle")
		if raw == "" {
			return errBadRequest(c, "angle query parameter is required")
		}
		angle, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errBadRequest(c, "angle must be a number")
		}
		return c.JSON(fiber.Map{
			"angle": scan.NormalizeAngle(angle),
		})
	}
}

// ---- Flight plan CRUD ----

type planRequest struct {
	Name     string            `json:"name"`
	Operator string            `json:"operator"`
	Config   domain.ScanConfig `json:"config"`
}

// CreatePlanHandler stores a new draft plan.
func CreatePlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req planRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		plan := &domain.FlightPlan{
			Name:     req.Name,
			Operator: req.Operator,
			Config:   req.Config,
		}
		if err := deps.Plans.Create(c.Context(), plan); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(plan)
	}
}

// ListPlansHandler lists plans, optionally filtered by operator.
func ListPlansHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operator := c.Query("operator")
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)

		plans, total, err := deps.Plans.List(c.Context(), operator, offset, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		if pg.Offset < 0 {
			pg.Offset = 0
		}
		if pg.Limit <= 0 || pg.Limit > 100 {
			pg.Limit = 50
		}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: plans, Pagination: pg})
	}
}

// NearbyPlansHandler returns plans whose takeoff point lies within a radius.
func NearbyPlansHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 5000)
		limit := c.QueryInt("limit", 20)
		if radius <= 0 || radius > 100000 {
			return errBadRequest(c, "radius must be between 1 and 100000 meters")
		}

		plans, err := deps.Plans.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(plans)
	}
}

// GetPlanHandler returns a single plan by ID.
func GetPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}
		plan, err := deps.Plans.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "plan not found")
		}
		return c.JSON(plan)
	}
}

// UpdatePlanHandler replaces a plan's name, operator, and configuration.
// Any previously generated path is discarded.
func UpdatePlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}

		var req planRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		plan := &domain.FlightPlan{
			ID:       id,
			Name:     req.Name,
			Operator: req.Operator,
			Config:   req.Config,
		}
		if err := deps.Plans.Update(c.Context(), plan); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(plan)
	}
}

// DeletePlanHandler removes a plan.
func DeletePlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}
		if err := deps.Plans.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "plan not found")
		}
		return c.SendStatus(204)
	}
}

// GeneratePlanHandler generates and persists the waypoint path of a stored plan.
func GeneratePlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}

		start := time.Now()
		plan, err := deps.Plans.GeneratePlan(c.Context(), id)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		metrics.ScanGenerationDuration.Observe(time.Since(start).Seconds())
		metrics.ScansGenerated.WithLabelValues("plan").Inc()

		return c.JSON(plan)
	}
}

// ---- Authorization endpoints ----

// SubmitPlanHandler files the plan with the aviation authority.
func SubmitPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}

		var body struct {
			Authority string `json:"authority"`
		}
		// Body is optional; the default authority applies when absent.
		_ = c.BodyParser(&body)

		req, err := deps.Authorizations.Submit(c.Context(), id, body.Authority)
		if err != nil {
			return errConflict(c, err.Error())
		}
		return c.Status(202).JSON(req)
	}
}

// AuthorizationStatusHandler returns the current authorization state of a plan.
func AuthorizationStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}
		req, err := deps.Authorizations.Status(c.Context(), id)
		if err != nil {
			return errNotFound(c, "no authorization request for plan")
		}
		return c.JSON(req)
	}
}

// DecideAuthorizationHandler records an authority decision. Exposed for
// authority callbacks and manual operation.
func DecideAuthorizationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}

		var body struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		if err := deps.Authorizations.Decide(c.Context(), id, body.Status, body.Reason); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(fiber.Map{"plan_id": id, "status": body.Status})
	}
}

// ---- Telemetry endpoints ----

// IngestTelemetryHandler accepts a single position fix over HTTP. The NATS
// path in cmd/tracker is the main ingest route; this one serves simulators
// and tests.
func IngestTelemetryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fix domain.TelemetryFix
		if err := c.BodyParser(&fix); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if fix.Time.IsZero() {
			fix.Time = time.Now().UTC()
		}

		if err := deps.Telemetry.Ingest(c.Context(), &fix); err != nil {
			return errBadRequest(c, err.Error())
		}
		metrics.TelemetryFixesIngested.WithLabelValues("http").Inc()
		return c.SendStatus(202)
	}
}

// IngestTelemetryBatchHandler accepts a batch of fixes.
func IngestTelemetryBatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fixes []domain.TelemetryFix
		if err := c.BodyParser(&fixes); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if len(fixes) == 0 {
			return errBadRequest(c, "at least one fix is required")
		}
		if len(fixes) > 1000 {
			return errBadRequest(c, "maximum 1000 fixes per batch")
		}

		if err := deps.Telemetry.IngestBatch(c.Context(), fixes); err != nil {
			return errBadRequest(c, err.Error())
		}
		metrics.TelemetryFixesIngested.WithLabelValues("http").Add(float64(len(fixes)))
		return c.SendStatus(202)
	}
}

// PlanTelemetryHandler returns recent fixes for a plan, newest first.
func PlanTelemetryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "plan id is required")
		}
		limit := c.QueryInt("limit", 100)

		fixes, err := deps.Telemetry.Recent(c.Context(), id, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fixes)
	}
}
