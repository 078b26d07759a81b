package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/mapview"
	"github.com/samirrijal/placemap/internal/core/ports"
	"github.com/samirrijal/placemap/internal/pkg/logging"
	"github.com/samirrijal/placemap/internal/pkg/metrics"
)

var (
	ErrViewNotFound = errors.New("map view not found")
	ErrTooManyViews = errors.New("too many map views")
)

// ViewConfig configures new map views.
type ViewConfig struct {
	AnimationDuration time.Duration
	DefaultCenter     domain.GeoPoint
	DefaultRadius     float64
	MaxViews          int
}

// View is a point-in-time copy of one map view.
type View struct {
	ID       string              `json:"id"`
	State    domain.MapViewState `json:"state"`
	Radius   float64             `json:"radius"`
	Ready    bool                `json:"surfaceReady"`
	Places   []domain.Place      `json:"places"`
	Overlays []domain.Overlay    `json:"overlays"`
}

// ViewService keeps one map view controller per open view.
type ViewService struct {
	mu       sync.RWMutex
	views    map[string]*mapview.Controller
	surfaces ports.SurfaceProvider
	frames   mapview.FrameScheduler
	search   *SearchService
	saved    *SavedPlaceService
	cfg      ViewConfig
}

// NewViewService creates a new ViewService. surfaces may be nil, in which
// case views animate without drawing anywhere.
func NewViewService(cfg ViewConfig, surfaces ports.SurfaceProvider, frames mapview.FrameScheduler, search *SearchService, saved *SavedPlaceService) *ViewService {
	if cfg.DefaultRadius <= 0 {
		cfg.DefaultRadius = domain.DefaultRadius
	}
	if cfg.MaxViews <= 0 {
		cfg.MaxViews = 1000
	}
	return &ViewService{
		views:    make(map[string]*mapview.Controller),
		surfaces: surfaces,
		frames:   frames,
		search:   search,
		saved:    saved,
		cfg:      cfg,
	}
}

// Create opens a view centered on center, or the default center when nil.
func (s *ViewService) Create(center *domain.GeoPoint, radius float64) (*View, error) {
	c := s.cfg.DefaultCenter
	if center != nil {
		c = *center
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrInvalidInput)
	}
	if radius == 0 {
		radius = s.cfg.DefaultRadius
	}

	if s.Count() >= s.cfg.MaxViews {
		return nil, ErrTooManyViews
	}

	id := uuid.NewString()

	var surface ports.MapSurface = nopSurface{}
	if s.surfaces != nil {
		surface = s.surfaces.Surface(id)
	}

	ctrl := mapview.NewController(mapview.Config{
		Center:   c,
		Radius:   radius,
		Duration: s.cfg.AnimationDuration,
	}, surface, s.frames)

	s.mu.Lock()
	if len(s.views) >= s.cfg.MaxViews {
		s.mu.Unlock()
		return nil, ErrTooManyViews
	}
	s.views[id] = ctrl
	s.mu.Unlock()

	metrics.ActiveViews.Inc()
	return snapshot(id, ctrl), nil
}

// Get returns the current state of a view.
func (s *ViewService) Get(id string) (*View, error) {
	ctrl, err := s.controller(id)
	if err != nil {
		return nil, err
	}
	return snapshot(id, ctrl), nil
}

// SetCenter moves a view. It reports whether a transition started.
func (s *ViewService) SetCenter(id string, center domain.GeoPoint) (bool, error) {
	ctrl, err := s.controller(id)
	if err != nil {
		return false, err
	}
	if !center.Valid() {
		return false, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}

	started := ctrl.SetCenter(center)
	if started {
		metrics.AnimationsStarted.Inc()
	}
	return started, nil
}

// Click forwards a click on the surface.
func (s *ViewService) Click(id string, at domain.GeoPoint) (bool, error) {
	ctrl, err := s.controller(id)
	if err != nil {
		return false, err
	}
	if !at.Valid() {
		return false, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}

	started := ctrl.Click(at)
	if started {
		metrics.AnimationsStarted.Inc()
	}
	return started, nil
}

// SetRadius changes a view's search radius and zoom.
func (s *ViewService) SetRadius(id string, radius float64) (*View, error) {
	ctrl, err := s.controller(id)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrInvalidInput)
	}

	ctrl.SetRadius(radius)
	return snapshot(id, ctrl), nil
}

// Ready marks the view's surface as initialized.
func (s *ViewService) Ready(id string) (*View, error) {
	ctrl, err := s.controller(id)
	if err != nil {
		return nil, err
	}
	ctrl.SurfaceReady()
	return snapshot(id, ctrl), nil
}

// Teardown closes a view.
func (s *ViewService) Teardown(id string) error {
	s.mu.Lock()
	ctrl, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()

	if !ok {
		return ErrViewNotFound
	}
	ctrl.SurfaceTornDown()
	metrics.ActiveViews.Dec()
	return nil
}

// Search runs a nearby search around the view's target center and radius
// and draws the results. With a token, saved places are styled as such; if
// the saved list cannot be loaded the results are drawn unstyled.
func (s *ViewService) Search(ctx context.Context, id, token, placeType string) ([]domain.Place, error) {
	ctrl, err := s.controller(id)
	if err != nil {
		return nil, err
	}

	q := domain.NearbyQuery{
		Center:       ctrl.State().TargetCenter,
		RadiusMeters: ctrl.Radius(),
		Type:         placeType,
	}
	places, err := s.search.Nearby(ctx, q)
	if err != nil {
		return nil, err
	}

	var saved domain.SavedPlaceIDSet
	if token != "" && s.saved != nil {
		ids, err := s.saved.SavedIDs(ctx, token)
		if err != nil {
			logging.FromContext(ctx).Debug("drawing view without saved styling", "view", id)
		} else {
			saved = ids
		}
	}

	ctrl.SetPlaces(places, saved)
	return places, nil
}

// RefreshSaved restyles a view's markers after the saved list changed.
func (s *ViewService) RefreshSaved(ctx context.Context, id, token string) error {
	ctrl, err := s.controller(id)
	if err != nil {
		return err
	}
	if s.saved == nil || token == "" {
		ctrl.SetSaved(nil)
		return nil
	}
	ids, err := s.saved.SavedIDs(ctx, token)
	if err != nil {
		return err
	}
	ctrl.SetSaved(ids)
	return nil
}

// Count returns the number of open views.
func (s *ViewService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Close tears down every view.
func (s *ViewService) Close() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*mapview.Controller)
	s.mu.Unlock()

	for _, ctrl := range views {
		ctrl.SurfaceTornDown()
		metrics.ActiveViews.Dec()
	}
}

func (s *ViewService) controller(id string) (*mapview.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctrl, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	return ctrl, nil
}

func snapshot(id string, ctrl *mapview.Controller) *View {
	return &View{
		ID:       id,
		State:    ctrl.State(),
		Radius:   ctrl.Radius(),
		Ready:    ctrl.Ready(),
		Places:   ctrl.Places(),
		Overlays: ctrl.Overlays(),
	}
}

type nopSurface struct{}

func (nopSurface) PanTo(domain.GeoPoint)   {}
func (nopSurface) SetZoom(int)             {}
func (nopSurface) Render([]domain.Overlay) {}
