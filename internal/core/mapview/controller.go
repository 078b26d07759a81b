package mapview

import (
	"sync"
	"time"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/ports"
)

// DefaultAnimationDuration is how long a center transition takes.
const DefaultAnimationDuration = 500 * time.Millisecond

// Config configures a Controller.
type Config struct {
	Center   domain.GeoPoint
	Radius   float64
	Duration time.Duration
	Now      func() time.Time
}

// Controller owns the center/zoom of one map view and animates center
// transitions on the surface.
//
// Every accepted SetCenter bumps a generation counter. Each frame callback
// carries the generation it was scheduled under and discards itself when that
// no longer matches, so at most one transition ever writes to the state.
type Controller struct {
	mu       sync.Mutex
	surface  ports.MapSurface
	frames   FrameScheduler
	now      func() time.Time
	duration time.Duration

	state      domain.MapViewState
	radius     float64
	places     []domain.Place
	saved      domain.SavedPlaceIDSet
	ready      bool
	generation uint64
}

// NewController creates a controller settled on cfg.Center. Nothing is drawn
// until the surface reports ready.
func NewController(cfg Config, surface ports.MapSurface, frames FrameScheduler) *Controller {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultAnimationDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Radius <= 0 {
		cfg.Radius = domain.DefaultRadius
	}

	return &Controller{
		surface:  surface,
		frames:   frames,
		now:      cfg.Now,
		duration: cfg.Duration,
		radius:   cfg.Radius,
		state: domain.MapViewState{
			CurrentCenter: cfg.Center,
			TargetCenter:  cfg.Center,
			Zoom:          ZoomForRadius(cfg.Radius),
		},
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() domain.MapViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Radius returns the current search radius in meters.
func (c *Controller) Radius() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

// Ready reports whether the surface has finished initializing.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Places returns the result set currently drawn.
func (c *Controller) Places() []domain.Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Place(nil), c.places...)
}

// Overlays renders the current state.
func (c *Controller) Overlays() []domain.Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlaysLocked()
}

// SetCenter moves the view to center. It returns false when center equals
// the last accepted center, in which case nothing changes. Otherwise any
// running transition is abandoned and a new one starts from the position
// currently on screen. Before the surface is ready the state snaps to center
// without animating.
func (c *Controller) SetCenter(center domain.GeoPoint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if center.Equal(c.state.TargetCenter) {
		return false
	}

	c.generation++
	c.state.TargetCenter = center

	if !c.ready {
		c.state.CurrentCenter = center
		c.state.AnimationInProgress = false
		return true
	}

	gen := c.generation
	from := c.state.CurrentCenter
	start := c.now()
	c.state.AnimationInProgress = true
	c.surface.Render(c.overlaysLocked())

	c.frames.RequestFrame(func(now time.Time) {
		c.step(gen, from, center, start, now)
	})
	return true
}

// Click handles a user click on the surface; the clicked point becomes the
// new center.
func (c *Controller) Click(at domain.GeoPoint) bool {
	return c.SetCenter(at)
}

// SetRadius updates the search radius and the zoom derived from it.
func (c *Controller) SetRadius(radius float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.radius = radius
	zoom := ZoomForRadius(radius)
	changed := zoom != c.state.Zoom
	c.state.Zoom = zoom

	if !c.ready {
		return
	}
	if changed {
		c.surface.SetZoom(zoom)
	}
	c.surface.Render(c.overlaysLocked())
}

// SetPlaces replaces the drawn result set and the saved-id set used to
// style it.
func (c *Controller) SetPlaces(places []domain.Place, saved domain.SavedPlaceIDSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.places = append([]domain.Place(nil), places...)
	c.saved = saved
	if c.ready {
		c.surface.Render(c.overlaysLocked())
	}
}

// SetSaved replaces only the saved-id set.
func (c *Controller) SetSaved(saved domain.SavedPlaceIDSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.saved = saved
	if c.ready {
		c.surface.Render(c.overlaysLocked())
	}
}

// SurfaceReady is called once the host surface has initialized. The surface
// receives the current zoom, position and overlays.
func (c *Controller) SurfaceReady() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return
	}
	c.ready = true
	c.surface.SetZoom(c.state.Zoom)
	c.surface.PanTo(c.state.CurrentCenter)
	c.surface.Render(c.overlaysLocked())
}

// SurfaceTornDown stops drawing. A running transition is abandoned and the
// state settles on its target.
func (c *Controller) SurfaceTornDown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.ready = false
	c.state.CurrentCenter = c.state.TargetCenter
	c.state.AnimationInProgress = false
}

func (c *Controller) step(gen uint64, from, to domain.GeoPoint, start, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}

	p := float64(now.Sub(start)) / float64(c.duration)
	if p >= 1 {
		c.state.CurrentCenter = to
		c.state.AnimationInProgress = false
		c.surface.PanTo(to)
		return
	}

	c.state.CurrentCenter = Interpolate(from, to, p)
	c.surface.PanTo(c.state.CurrentCenter)

	c.frames.RequestFrame(func(next time.Time) {
		c.step(gen, from, to, start, next)
	})
}

func (c *Controller) overlaysLocked() []domain.Overlay {
	return Overlays(c.state, c.radius, c.places, c.saved, c.ready)
}
