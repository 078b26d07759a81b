package usecases_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/ports"
	"github.com/samirrijal/placemap/internal/core/usecases"
	"github.com/samirrijal/placemap/internal/pkg/logging"
)

// queuedFrames runs requested frames only when flushed.
type queuedFrames struct {
	mu      sync.Mutex
	pending []func(time.Time)
}

func (f *queuedFrames) RequestFrame(fn func(now time.Time)) {
	f.mu.Lock()
	f.pending = append(f.pending, fn)
	f.mu.Unlock()
}

// flush runs frames at now until none are pending.
func (f *queuedFrames) flush(now time.Time) {
	for {
		f.mu.Lock()
		batch := f.pending
		f.pending = nil
		f.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn(now)
		}
	}
}

type fakeSurface struct {
	pans    []domain.GeoPoint
	zooms   []int
	renders [][]domain.Overlay
}

func (s *fakeSurface) PanTo(c domain.GeoPoint)   { s.pans = append(s.pans, c) }
func (s *fakeSurface) SetZoom(z int)             { s.zooms = append(s.zooms, z) }
func (s *fakeSurface) Render(o []domain.Overlay) { s.renders = append(s.renders, o) }

type fakeSurfaces struct {
	byView map[string]*fakeSurface
}

func (p *fakeSurfaces) Surface(viewID string) ports.MapSurface {
	s := &fakeSurface{}
	p.byView[viewID] = s
	return s
}

type viewFixture struct {
	svc      *usecases.ViewService
	frames   *queuedFrames
	surfaces *fakeSurfaces
	lookup   *mockLookup
	store    *mockStore
}

func newViewFixture(maxViews int) *viewFixture {
	fx := &viewFixture{
		frames:   &queuedFrames{},
		surfaces: &fakeSurfaces{byView: map[string]*fakeSurface{}},
		lookup:   &mockLookup{},
		store:    &mockStore{},
	}
	fx.svc = usecases.NewViewService(usecases.ViewConfig{
		AnimationDuration: 100 * time.Millisecond,
		DefaultCenter:     izmir,
		MaxViews:          maxViews,
	}, fx.surfaces, fx.frames, usecases.NewSearchService(fx.lookup, nil, 0), usecases.NewSavedPlaceService(fx.store))
	return fx
}

func TestViewService_CreateUsesDefaults(t *testing.T) {
	fx := newViewFixture(0)

	v, err := fx.svc.Create(nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == "" {
		t.Fatal("expected a view id")
	}
	if !v.State.CurrentCenter.Equal(izmir) || !v.State.TargetCenter.Equal(izmir) {
		t.Errorf("expected default center, got %+v", v.State)
	}
	if v.Radius != domain.DefaultRadius {
		t.Errorf("expected default radius, got %v", v.Radius)
	}
	if v.Ready {
		t.Error("new view must not be ready")
	}
	if fx.svc.Count() != 1 {
		t.Errorf("expected 1 view, got %d", fx.svc.Count())
	}
}

func TestViewService_CreateRejectsBadInput(t *testing.T) {
	fx := newViewFixture(0)

	if _, err := fx.svc.Create(&domain.GeoPoint{Lat: 100}, 0); !errors.Is(err, usecases.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for latitude, got %v", err)
	}
	if _, err := fx.svc.Create(nil, -1); !errors.Is(err, usecases.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for radius, got %v", err)
	}
}

func TestViewService_MaxViews(t *testing.T) {
	fx := newViewFixture(1)

	if _, err := fx.svc.Create(nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := fx.svc.Create(nil, 0); !errors.Is(err, usecases.ErrTooManyViews) {
		t.Errorf("expected ErrTooManyViews, got %v", err)
	}
	if len(fx.surfaces.byView) != 1 {
		t.Errorf("expected no surface for the rejected view, got %d surfaces", len(fx.surfaces.byView))
	}
}

func TestViewService_AnimatesOnceReady(t *testing.T) {
	fx := newViewFixture(0)
	v, _ := fx.svc.Create(nil, 0)

	if _, err := fx.svc.Ready(v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := domain.GeoPoint{Lat: 38.43, Lng: 27.15}
	started, err := fx.svc.SetCenter(v.ID, target)
	if err != nil || !started {
		t.Fatalf("expected transition to start, got started=%v err=%v", started, err)
	}

	got, _ := fx.svc.Get(v.ID)
	if !got.State.AnimationInProgress {
		t.Error("expected animation in progress")
	}

	fx.frames.flush(time.Now().Add(time.Second))

	got, _ = fx.svc.Get(v.ID)
	if got.State.AnimationInProgress || !got.State.CurrentCenter.Equal(target) {
		t.Errorf("expected settled on target, got %+v", got.State)
	}

	surface := fx.surfaces.byView[v.ID]
	if len(surface.pans) == 0 || !surface.pans[len(surface.pans)-1].Equal(target) {
		t.Errorf("expected final pan to target, got %v", surface.pans)
	}

	again, err := fx.svc.SetCenter(v.ID, target)
	if err != nil || again {
		t.Errorf("expected no-op for same center, got started=%v err=%v", again, err)
	}
}

func TestViewService_SearchMarksSaved(t *testing.T) {
	fx := newViewFixture(0)
	fx.lookup.searchFn = func(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
		if !q.Center.Equal(izmir) || q.RadiusMeters != 500 {
			t.Errorf("unexpected query: %+v", q)
		}
		return []domain.Place{
			{PlaceID: "a", Name: "A", Location: izmir},
			{PlaceID: "b", Name: "B", Location: izmir},
		}, nil
	}
	fx.store.listFn = func(ctx context.Context, token string) ([]domain.SavedPlace, error) {
		return []domain.SavedPlace{{ID: "1", PlaceID: "b"}}, nil
	}

	v, _ := fx.svc.Create(nil, 500)
	fx.svc.Ready(v.ID)

	places, err := fx.svc.Search(context.Background(), v.ID, "tok", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}

	got, _ := fx.svc.Get(v.ID)
	styles := map[string]domain.MarkerStyle{}
	for _, o := range got.Overlays {
		if o.Kind == domain.OverlayPlaceMarker {
			styles[o.Key] = o.Style
		}
	}
	if styles["a"] != domain.MarkerDefault || styles["b"] != domain.MarkerSaved {
		t.Errorf("unexpected marker styles: %v", styles)
	}
}

func TestViewService_SearchDrawsUnstyledWhenSavedFails(t *testing.T) {
	fx := newViewFixture(0)
	fx.lookup.searchFn = func(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
		return []domain.Place{{PlaceID: "a", Name: "A", Location: izmir}}, nil
	}
	fx.store.listFn = func(ctx context.Context, token string) ([]domain.SavedPlace, error) {
		return nil, errors.New("boom")
	}

	v, _ := fx.svc.Create(nil, 0)
	if _, err := fx.svc.Search(context.Background(), v.ID, "tok", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := fx.svc.Get(v.ID)
	if len(got.Places) != 1 {
		t.Errorf("expected places to be kept, got %d", len(got.Places))
	}
}

func TestViewService_SavedFailureLoggedOnce(t *testing.T) {
	fx := newViewFixture(0)
	fx.lookup.searchFn = func(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
		return []domain.Place{{PlaceID: "a", Name: "A", Location: izmir}}, nil
	}
	fx.store.listFn = func(ctx context.Context, token string) ([]domain.SavedPlace, error) {
		return nil, errors.New("boom")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := logging.WithLogger(context.Background(), logger)

	v, _ := fx.svc.Create(nil, 0)
	if _, err := fx.svc.Search(ctx, v.ID, "tok", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := strings.Count(buf.String(), "boom"); n != 1 {
		t.Errorf("expected the failure logged once, got %d times:\n%s", n, buf.String())
	}
}

func TestViewService_TeardownAndNotFound(t *testing.T) {
	fx := newViewFixture(0)
	v, _ := fx.svc.Create(nil, 0)

	if err := fx.svc.Teardown(v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fx.svc.Teardown(v.ID); !errors.Is(err, usecases.ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}
	if _, err := fx.svc.Get(v.ID); !errors.Is(err, usecases.ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}
	if _, err := fx.svc.SetCenter("missing", izmir); !errors.Is(err, usecases.ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}
	if fx.svc.Count() != 0 {
		t.Errorf("expected no views, got %d", fx.svc.Count())
	}
}

func TestViewService_TeardownMidAnimationSettles(t *testing.T) {
	fx := newViewFixture(0)
	v, _ := fx.svc.Create(nil, 0)
	fx.svc.Ready(v.ID)

	target := domain.GeoPoint{Lat: 38.5, Lng: 27.2}
	fx.svc.SetCenter(v.ID, target)

	surface := fx.surfaces.byView[v.ID]
	pansBefore := len(surface.pans)

	fx.svc.Close()
	fx.frames.flush(time.Now().Add(time.Second))

	if len(surface.pans) != pansBefore {
		t.Errorf("expected no pans after teardown, got %d more", len(surface.pans)-pansBefore)
	}
	if fx.svc.Count() != 0 {
		t.Errorf("expected no views after Close, got %d", fx.svc.Count())
	}
}

func markerStyles(v *usecases.View) map[string]domain.MarkerStyle {
	styles := map[string]domain.MarkerStyle{}
	for _, o := range v.Overlays {
		if o.Kind == domain.OverlayPlaceMarker {
			styles[o.Key] = o.Style
		}
	}
	return styles
}

func TestViewService_RefreshSavedRestylesMarkers(t *testing.T) {
	fx := newViewFixture(0)
	fx.lookup.searchFn = func(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
		return []domain.Place{
			{PlaceID: "a", Name: "A", Location: izmir},
			{PlaceID: "b", Name: "B", Location: izmir},
		}, nil
	}
	saved := []domain.SavedPlace{{ID: "1", PlaceID: "b"}}
	fx.store.listFn = func(ctx context.Context, token string) ([]domain.SavedPlace, error) {
		return saved, nil
	}

	v, _ := fx.svc.Create(nil, 0)
	fx.svc.Ready(v.ID)
	if _, err := fx.svc.Search(context.Background(), v.ID, "tok", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "a" saved elsewhere, "b" removed
	saved = []domain.SavedPlace{{ID: "2", PlaceID: "a"}}
	if err := fx.svc.RefreshSaved(context.Background(), v.ID, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := fx.svc.Get(v.ID)
	styles := markerStyles(got)
	if styles["a"] != domain.MarkerSaved || styles["b"] != domain.MarkerDefault {
		t.Errorf("unexpected marker styles after refresh: %v", styles)
	}

	surface := fx.surfaces.byView[v.ID]
	last := surface.renders[len(surface.renders)-1]
	for _, o := range last {
		if o.Key == "a" && o.Style != domain.MarkerSaved {
			t.Errorf("expected the surface to be redrawn with the new styling, got %+v", o)
		}
	}
}

func TestViewService_RefreshSavedWithoutTokenClearsStyling(t *testing.T) {
	fx := newViewFixture(0)
	fx.lookup.searchFn = func(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
		return []domain.Place{{PlaceID: "a", Name: "A", Location: izmir}}, nil
	}
	fx.store.listFn = func(ctx context.Context, token string) ([]domain.SavedPlace, error) {
		return []domain.SavedPlace{{ID: "1", PlaceID: "a"}}, nil
	}

	v, _ := fx.svc.Create(nil, 0)
	fx.svc.Search(context.Background(), v.ID, "tok", "")

	if err := fx.svc.RefreshSaved(context.Background(), v.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := fx.svc.Get(v.ID)
	if styles := markerStyles(got); styles["a"] != domain.MarkerDefault {
		t.Errorf("expected default styling without a session, got %v", styles)
	}
}

func TestViewService_RefreshSavedErrors(t *testing.T) {
	fx := newViewFixture(0)
	if err := fx.svc.RefreshSaved(context.Background(), "missing", "tok"); !errors.Is(err, usecases.ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}

	fx.store.listFn = func(ctx context.Context, token string) ([]domain.SavedPlace, error) {
		return nil, errors.New("boom")
	}
	v, _ := fx.svc.Create(nil, 0)
	if err := fx.svc.RefreshSaved(context.Background(), v.ID, "tok"); err == nil {
		t.Error("expected the saved list failure to surface")
	}
}
