package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/mapview"
)

// buildSchema creates the GraphQL schema wired to our services. Struct
// fields resolve through their json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"placeId":        &graphql.Field{Type: graphql.String},
			"name":           &graphql.Field{Type: graphql.String},
			"location":       &graphql.Field{Type: geoPointType},
			"address":        &graphql.Field{Type: graphql.String},
			"type":           &graphql.Field{Type: graphql.String},
			"types":          &graphql.Field{Type: graphql.NewList(graphql.String)},
			"rating":         &graphql.Field{Type: graphql.Float},
			"distanceMeters": &graphql.Field{Type: graphql.Float},
		},
	})

	overlayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Overlay",
		Fields: graphql.Fields{
			"kind":         &graphql.Field{Type: graphql.String},
			"key":          &graphql.Field{Type: graphql.String},
			"position":     &graphql.Field{Type: geoPointType},
			"radiusMeters": &graphql.Field{Type: graphql.Float},
			"style":        &graphql.Field{Type: graphql.String},
			"icon":         &graphql.Field{Type: graphql.String},
			"title":        &graphql.Field{Type: graphql.String},
			"zIndex":       &graphql.Field{Type: graphql.Int},
			"clickable":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	stateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapViewState",
		Fields: graphql.Fields{
			"currentCenter":       &graphql.Field{Type: geoPointType},
			"targetCenter":        &graphql.Field{Type: geoPointType},
			"zoom":                &graphql.Field{Type: graphql.Int},
			"animationInProgress": &graphql.Field{Type: graphql.Boolean},
		},
	})

	viewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapView",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"state":        &graphql.Field{Type: stateType},
			"radius":       &graphql.Field{Type: graphql.Float},
			"surfaceReady": &graphql.Field{Type: graphql.Boolean},
			"places":       &graphql.Field{Type: graphql.NewList(placeType)},
			"overlays":     &graphql.Field{Type: graphql.NewList(overlayType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"view": &graphql.Field{
				Type:        viewType,
				Description: "Current state and overlays of a map view",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Views.Get(p.Args["id"].(string))
				},
			},
			"nearbyPlaces": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Places within a radius of a point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: domain.DefaultRadius},
					"type":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Search.Nearby(p.Context, domain.NearbyQuery{
						Center: domain.GeoPoint{
							Lat: p.Args["lat"].(float64),
							Lng: p.Args["lng"].(float64),
						},
						RadiusMeters: p.Args["radius"].(float64),
						Type:         p.Args["type"].(string),
					})
				},
			},
			"zoomForRadius": &graphql.Field{
				Type:        graphql.Int,
				Description: "Zoom level that fits a search radius",
				Args: graphql.FieldConfigArgument{
					"radius": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return mapview.ZoomForRadius(p.Args["radius"].(float64)), nil
				},
			},
			"placeTypes": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Accepted place category filters",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return domain.PlaceTypes, nil
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
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
