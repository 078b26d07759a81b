// Command snapshot renders the neighbourhood around a point, or the last
// frames of a live map view, to a standalone HTML chart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/samirrijal/placemap/internal/adapters/echarts"
	natsadapter "github.com/samirrijal/placemap/internal/adapters/nats"
	"github.com/samirrijal/placemap/internal/adapters/placesapi"
	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/mapview"
	"github.com/samirrijal/placemap/internal/core/usecases"
	"github.com/samirrijal/placemap/internal/pkg/config"
	"github.com/samirrijal/placemap/internal/pkg/logging"
)

func main() {
	lat := flag.Float64("lat", 0, "center latitude")
	lng := flag.Float64("lng", 0, "center longitude")
	radius := flag.Float64("radius", 0, "search radius in meters (defaults to map.default_radius)")
	placeType := flag.String("type", "", "optional place type filter")
	viewID := flag.String("view", "", "render the latest frames of a live view instead of searching")
	out := flag.String("out", "snapshot.html", "output file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load("placemap-snapshot")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var snap echarts.Snapshot
	if *viewID != "" {
		snap, err = fromView(ctx, cfg.NATS.URL, *viewID)
	} else {
		center := domain.GeoPoint{Lat: *lat, Lng: *lng}
		if !isFlagSet("lat") && !isFlagSet("lng") {
			center = domain.GeoPoint{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng}
		}
		r := *radius
		if r <= 0 {
			r = cfg.Map.DefaultRadius
		}
		snap, err = fromSearch(ctx, cfg, domain.NearbyQuery{Center: center, RadiusMeters: r, Type: *placeType})
	}
	if err != nil {
		log.Fatalf("snapshot: %v", err)
	}

	html, err := echarts.RenderHTML(snap)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if err := os.WriteFile(*out, html, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	slog.Info("snapshot written", "path", *out, "overlays", len(snap.Overlays))
}

func fromSearch(ctx context.Context, cfg *config.Config, q domain.NearbyQuery) (echarts.Snapshot, error) {
	backend, err := placesapi.New(placesapi.Config{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
	})
	if err != nil {
		return echarts.Snapshot{}, err
	}

	places, err := usecases.NewSearchService(backend, nil, 0).Nearby(ctx, q)
	if err != nil {
		return echarts.Snapshot{}, err
	}

	state := domain.MapViewState{
		CurrentCenter: q.Center,
		TargetCenter:  q.Center,
		Zoom:          mapview.ZoomForRadius(q.RadiusMeters),
	}
	title := fmt.Sprintf("%.5f, %.5f", q.Center.Lat, q.Center.Lng)
	if q.Type != "" {
		title += " (" + q.Type + ")"
	}
	return echarts.Snapshot{
		Title:    title,
		Subtitle: fmt.Sprintf("%d places within %.0f m", len(places), q.RadiusMeters),
		Overlays: mapview.Overlays(state, q.RadiusMeters, places, nil, true),
	}, nil
}

func fromView(ctx context.Context, natsURL, viewID string) (echarts.Snapshot, error) {
	conn, err := natsadapter.RawConn(natsURL)
	if err != nil {
		return echarts.Snapshot{}, err
	}
	defer conn.Close()

	sub, err := natsadapter.NewSubscriber(conn)
	if err != nil {
		return echarts.Snapshot{}, err
	}
	frames, err := sub.Latest(ctx, viewID)
	if err != nil {
		return echarts.Snapshot{}, err
	}

	f, ok := frames[natsadapter.FrameOverlays]
	if !ok {
		return echarts.Snapshot{}, errors.New("view has not rendered any overlays")
	}
	subtitle := fmt.Sprintf("frame %d at %s", f.Seq, f.At.Format(time.RFC3339))
	if z, ok := frames[natsadapter.FrameZoom]; ok && z.Zoom != nil {
		subtitle += fmt.Sprintf(", zoom %d", *z.Zoom)
	}
	return echarts.Snapshot{
		Title:    "view " + viewID,
		Subtitle: subtitle,
		Overlays: f.Overlays,
	}, nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
