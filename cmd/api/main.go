package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/samirrijal/placemap/internal/adapters/http"
	natsadapter "github.com/samirrijal/placemap/internal/adapters/nats"
	"github.com/samirrijal/placemap/internal/adapters/placesapi"
	"github.com/samirrijal/placemap/internal/adapters/postgres"
	"github.com/samirrijal/placemap/internal/adapters/valkey"
	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/mapview"
	"github.com/samirrijal/placemap/internal/core/ports"
	"github.com/samirrijal/placemap/internal/core/usecases"
	"github.com/samirrijal/placemap/internal/pkg/config"
	"github.com/samirrijal/placemap/internal/pkg/logging"
	"github.com/samirrijal/placemap/internal/pkg/session"
	"github.com/samirrijal/placemap/internal/pkg/telemetry"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load("placemap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Places backend
	backend, err := placesapi.New(placesapi.Config{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
	})
	if err != nil {
		log.Fatalf("places api: %v", err)
	}

	deps := &http.Dependencies{Backend: backend}

	// Saved places: remote API or local postgres
	var store ports.SavedPlacesStore = backend
	if cfg.Store.Mode == config.StoreLocal {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		go db.ReportPoolStats(ctx, 15*time.Second)

		store = postgres.NewSavedPlaceRepo(db, session.NewVerifier(cfg.Auth.JWTSecret))
		deps.DB = db
	}
	slog.Info("saved places store", "mode", cfg.Store.Mode)

	// Cache
	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer vc.Close()
		cache = vc
		deps.Cache = vc
	}

	// NATS frame stream
	var surfaces ports.SurfaceProvider
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, views will not stream frames", "error", err)
	} else {
		defer pub.Close()
		surfaces = pub
		deps.NATS = pub.Conn()

		frames, err := natsadapter.NewSubscriber(pub.Conn())
		if err != nil {
			slog.Warn("nats frame subscriber unavailable", "error", err)
		} else {
			deps.Frames = frames
		}
	}

	// Use cases
	ticker := mapview.NewTickerScheduler(time.Duration(cfg.Map.FrameIntervalMS) * time.Millisecond)
	defer ticker.Close()

	searchSvc := usecases.NewSearchService(backend, cache, cfg.Cache.SearchTTLSeconds)
	savedSvc := usecases.NewSavedPlaceService(store)
	viewSvc := usecases.NewViewService(usecases.ViewConfig{
		AnimationDuration: time.Duration(cfg.Map.AnimationMS) * time.Millisecond,
		DefaultCenter:     domain.GeoPoint{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng},
		DefaultRadius:     cfg.Map.DefaultRadius,
		MaxViews:          cfg.Map.MaxViews,
	}, surfaces, ticker, searchSvc, savedSvc)
	defer viewSvc.Close()

	deps.Search = searchSvc
	deps.Saved = savedSvc
	deps.Auth = usecases.NewAuthService(backend)
	deps.Views = viewSvc

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Placemap API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, http.RouteOptions{
		RequestsPerMinute: cfg.Server.RateLimitPerMinute,
		OpenAPIPath:       cfg.Server.OpenAPIPath,
	})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "backend", backend.BaseURL())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
