package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"lat":      &graphql.Field{Type: graphql.Float},
			"lon":      &graphql.Field{Type: graphql.Float},
			"altitude": &graphql.Field{Type: graphql.Float},
			"speed":    &graphql.Field{Type: graphql.Float},
		},
	})

	statisticsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ScanStatistics",
		Fields: graphql.Fields{
			"waypoint_count":        &graphql.Field{Type: graphql.Int},
			"scan_line_count":       &graphql.Field{Type: graphql.Int},
			"total_distance":        &graphql.Field{Type: graphql.Float},
			"estimated_flight_time": &graphql.Field{Type: graphql.Float},
			"coverage_area":         &graphql.Field{Type: graphql.Float},
		},
	})

	planType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FlightPlan",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"operator":   &graphql.Field{Type: graphql.String},
			"status":     &graphql.Field{Type: graphql.String},
			"waypoints":  &graphql.Field{Type: graphql.NewList(waypointType)},
			"statistics": &graphql.Field{Type: statisticsType},
		},
	})

	fixType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TelemetryFix",
		Fields: graphql.Fields{
			"time":     &graphql.Field{Type: graphql.String},
			"plan_id":  &graphql.Field{Type: graphql.String},
			"aircraft": &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
			"altitude": &graphql.Field{Type: graphql.Float},
			"speed":    &graphql.Field{Type: graphql.Float},
			"heading":  &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"plans": &graphql.Field{
				Type:        graphql.NewList(planType),
				Description: "List flight plans, optionally filtered by operator",
				Args: graphql.FieldConfigArgument{
					"operator": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					operator := p.Args["operator"].(string)
					offset := p.Args["offset"].(int)
					limit := p.Args["limit"].(int)
					plans, _, err := deps.Plans.List(p.Context, operator, offset, limit)
					return plans, err
				},
			},
			"plan": &graphql.Field{
				Type:        planType,
				Description: "Get a flight plan by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Plans.GetByID(p.Context, id)
				},
			},
			"plansNearby": &graphql.Field{
				Type:        graphql.NewList(planType),
				Description: "Find plans whose takeoff point lies near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 5000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Plans.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"planTelemetry": &graphql.Field{
				Type:        graphql.NewList(fixType),
				Description: "Recent position fixes for a plan, newest first",
				Args: graphql.FieldConfigArgument{
					"plan_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					planID := p.Args["plan_id"].(string)
					limit := p.Args["limit"].(int)
					return deps.Telemetry.Recent(p.Context, planID, limit)
				},
			},
			"normalizeAngle": &graphql.Field{
				Type:        graphql.Float,
				Description: "Map an angle in degrees into [0, 360)",
				Args: graphql.FieldConfigArgument{
					"angle": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return scan.NormalizeAngle(p.Args["angle"].(float64)), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}

var _ = domain.FlightPlan{}
