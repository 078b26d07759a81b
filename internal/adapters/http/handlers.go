package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/usecases"
	"github.com/samirrijal/placemap/internal/pkg/logging"
)

// NearbyPlacesHandler returns places within a radius of a point.
func NearbyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return errBadRequest(c, "lat and lng are required")
		}
		radius := c.QueryFloat("radius", domain.DefaultRadius)
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}

		places, err := deps.Search.Nearby(c.UserContext(), domain.NearbyQuery{
			Center:       domain.GeoPoint{Lat: lat, Lng: lng},
			RadiusMeters: radius,
			Type:         c.Query("type"),
		})
		if err != nil {
			return writeError(c, err)
		}
		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(fiber.Map{"results": places})
	}
}

// PlaceTypesHandler lists the accepted category filters.
func PlaceTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"types": domain.PlaceTypes})
	}
}

// savedPlaceView adds a map link to a saved place.
type savedPlaceView struct {
	domain.SavedPlace
	MapsURL string `json:"mapsUrl"`
}

func viewOfSaved(p domain.SavedPlace) savedPlaceView {
	return savedPlaceView{SavedPlace: p, MapsURL: p.MapsURL()}
}

// ListSavedPlacesHandler returns one page of the caller's saved places.
func ListSavedPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Saved.List(c.UserContext(), sessionToken(c))
		if err != nil {
			return writeError(c, err)
		}

		pg := pageParams(c, len(places))
		start, end := pg.window()

		out := make([]savedPlaceView, 0, end-start)
		for _, p := range places[start:end] {
			out = append(out, viewOfSaved(p))
		}

		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: out, Pagination: pg})
	}
}

// CreateSavedPlaceHandler bookmarks a place for the caller.
func CreateSavedPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.SaveRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		saved, err := deps.Saved.Save(c.UserContext(), sessionToken(c), req)
		if err != nil {
			return writeError(c, err)
		}
		restyleView(c, deps)
		return c.Status(fiber.StatusCreated).JSON(viewOfSaved(*saved))
	}
}

// DeleteSavedPlaceHandler removes one of the caller's saved places.
func DeleteSavedPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Saved.Delete(c.UserContext(), sessionToken(c), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		restyleView(c, deps)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// restyleView refreshes the saved styling of the view named by ?view=
// after the saved list changed. The change itself already succeeded, so a
// failure here only leaves the view on its previous styling.
func restyleView(c *fiber.Ctx, deps *Dependencies) {
	id := c.Query("view")
	if id == "" || deps.Views == nil {
		return
	}
	if err := deps.Views.RefreshSaved(c.UserContext(), id, sessionToken(c)); err != nil {
		logging.FromContext(c.UserContext()).Debug("view kept previous saved styling", "view", id)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler exchanges credentials for a session.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		sess, err := deps.Auth.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return writeAuthError(c, err, usecases.LoginMessage)
		}
		return c.JSON(sess)
	}
}

// RegisterHandler creates an account and returns its session.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		sess, err := deps.Auth.Register(c.UserContext(), req)
		if err != nil {
			return writeAuthError(c, err, usecases.RegisterMessage)
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	}
}

// writeAuthError rewrites a backend failure's message into the form text
// the auth screens show.
func writeAuthError(c *fiber.Ctx, err error, message func(*apierror.NormalizedError) string) error {
	var ne *apierror.NormalizedError
	if errors.As(err, &ne) {
		framed := *ne
		framed.Message = message(ne)
		return sendNormalized(c, &framed)
	}
	return writeError(c, err)
}
