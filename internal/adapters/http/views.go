package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/placemap/internal/adapters/echarts"
	"github.com/samirrijal/placemap/internal/core/domain"
)

// pointBody is a coordinate in a request body. Both fields are required.
type pointBody struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p pointBody) point() (domain.GeoPoint, bool) {
	if p.Lat == nil || p.Lng == nil {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: *p.Lat, Lng: *p.Lng}, true
}

type createViewRequest struct {
	Center *pointBody `json:"center"`
	Radius float64    `json:"radius"`
}

type radiusRequest struct {
	Radius float64 `json:"radius"`
}

type searchRequest struct {
	Type string `json:"type"`
}

// CreateViewHandler opens a map view.
func CreateViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createViewRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}

		var center *domain.GeoPoint
		if req.Center != nil {
			p, ok := req.Center.point()
			if !ok {
				return errBadRequest(c, "center needs lat and lng")
			}
			center = &p
		}

		view, err := deps.Views.Create(center, req.Radius)
		if err != nil {
			return writeError(c, err)
		}
		c.Location("/v1/views/" + view.ID)
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// GetViewHandler returns a view's state and overlays.
func GetViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Views.Get(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(view)
	}
}

// SetCenterHandler moves a view to a new center.
func SetCenterHandler(deps *Dependencies) fiber.Handler {
	return moveHandler(deps, func(id string, p domain.GeoPoint) (bool, error) {
		return deps.Views.SetCenter(id, p)
	})
}

// ClickHandler forwards a click on the map surface.
func ClickHandler(deps *Dependencies) fiber.Handler {
	return moveHandler(deps, func(id string, p domain.GeoPoint) (bool, error) {
		return deps.Views.Click(id, p)
	})
}

func moveHandler(deps *Dependencies, move func(id string, p domain.GeoPoint) (bool, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body pointBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, ok := body.point()
		if !ok {
			return errBadRequest(c, "lat and lng are required")
		}

		id := c.Params("id")
		started, err := move(id, p)
		if err != nil {
			return writeError(c, err)
		}
		view, err := deps.Views.Get(id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"started": started, "view": view})
	}
}

// SetRadiusHandler changes a view's radius and zoom.
func SetRadiusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req radiusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		view, err := deps.Views.SetRadius(c.Params("id"), req.Radius)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(view)
	}
}

// ViewReadyHandler marks a view's surface as initialized.
func ViewReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Views.Ready(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(view)
	}
}

// SearchViewHandler searches around a view's center and draws the results.
// With a bearer token, saved places are highlighted.
func SearchViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req searchRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		if t := c.Query("type"); t != "" {
			req.Type = t
		}

		id := c.Params("id")
		places, err := deps.Views.Search(c.UserContext(), id, optionalToken(c, time.Now()), req.Type)
		if err != nil {
			return writeError(c, err)
		}
		view, err := deps.Views.Get(id)
		if err != nil {
			return writeError(c, err)
		}
		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(fiber.Map{"results": places, "view": view})
	}
}

// RefreshViewSavedHandler restyles a view's markers against the caller's
// current saved list.
func RefreshViewSavedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Views.RefreshSaved(c.UserContext(), id, sessionToken(c)); err != nil {
			return writeError(c, err)
		}
		view, err := deps.Views.Get(id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(view)
	}
}

// SnapshotHandler renders a view's overlays as an HTML chart.
func SnapshotHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Views.Get(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}

		html, err := echarts.RenderHTML(echarts.Snapshot{
			Title: "Map view " + view.ID,
			Subtitle: fmt.Sprintf("center %.5f, %.5f  zoom %d  radius %.0fm  %d places",
				view.State.TargetCenter.Lat, view.State.TargetCenter.Lng, view.State.Zoom, view.Radius, len(view.Places)),
			Overlays: view.Overlays,
		})
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(html)
	}
}

// DeleteViewHandler tears a view down.
func DeleteViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Views.Teardown(c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
