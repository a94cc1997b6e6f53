package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gigscout/internal/api"
	"gigscout/pkg/apply"
	"gigscout/pkg/cache"
	"gigscout/pkg/catalog"
	"gigscout/pkg/config"
	"gigscout/pkg/db"
	"gigscout/pkg/explore"
	"gigscout/pkg/locate"
	"gigscout/pkg/logging"
	"gigscout/pkg/probe"
	"gigscout/pkg/request"
	"gigscout/pkg/tracker"
	"gigscout/pkg/version"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault("configs/gigscout.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: configs/gigscout.yaml")
		return
	}

	if err := run(context.Background(), "configs/gigscout.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Session credential comes from the environment; .env is optional
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("GigScout Started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.PruneCache(time.Duration(appCfg.DB.CacheTTL)); err != nil {
		slog.Warn("Cache pruning failed", "error", err)
	}

	tr := tracker.New()
	reqClient := request.New(cache.NewSQLiteCache(dbConn), tr, request.Options{
		Token:     os.Getenv("GIGSCOUT_TOKEN"),
		Retries:   appCfg.Request.Retries,
		Timeout:   time.Duration(appCfg.Request.Timeout),
		BaseDelay: time.Duration(appCfg.Request.Backoff.BaseDelay),
		MaxDelay:  time.Duration(appCfg.Request.Backoff.MaxDelay),
	})

	provider, err := initLocateProvider(appCfg, reqClient)
	if err != nil {
		return err
	}
	acquirer := locate.NewAcquirer(provider, appCfg.Locate.Fallback, time.Duration(appCfg.Locate.Timeout), tr)

	cat := catalog.NewClient(reqClient, tr, appCfg.Catalog.BaseURL, appCfg.Catalog.RadiusAnyKm)
	ctrl := explore.NewController(cat, acquirer)
	longtermMgr := api.NewLongTermManager(cat)

	submitter := apply.NewSubmitter(reqClient, tr, appCfg.Apply.Endpoint, ctrl, longtermMgr)

	probes := []probe.Probe{
		{
			Name: "Local Store",
			Check: func(context.Context) error {
				return dbConn.PutCacheEntry("probe_startup", []byte("ok"))
			},
			Critical: true,
		},
		{
			Name: "Session Credential",
			Check: func(context.Context) error {
				if os.Getenv("GIGSCOUT_TOKEN") == "" {
					return fmt.Errorf("GIGSCOUT_TOKEN not set; applications will be rejected")
				}
				return nil
			},
			Critical: false,
		},
	}
	if err := probe.AnalyzeResults(probe.Run(ctx, probes)); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	// Warm the long-term list in the background; it refreshes on demand after
	go longtermMgr.Refresh(ctx)

	return runServer(ctx, appCfg, ctrl, longtermMgr, submitter, tr)
}

func initLocateProvider(cfg *config.Config, req *request.Client) (locate.Provider, error) {
	switch cfg.Locate.Provider {
	case "http":
		return locate.NewHTTPProvider(req, cfg.Locate.Endpoint), nil
	case "fixed":
		return locate.FixedProvider{Point: cfg.Locate.Fallback}, nil
	default:
		return nil, fmt.Errorf("unknown locate provider %q", cfg.Locate.Provider)
	}
}

func runServer(ctx context.Context, cfg *config.Config, ctrl *explore.Controller, longtermMgr *api.LongTermManager, submitter *apply.Submitter, tr *tracker.Tracker) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		api.NewExploreHandler(ctrl),
		api.NewLongTermHandler(longtermMgr),
		api.NewApplyHandler(submitter, ctrl, longtermMgr),
		api.NewStatsHandler(tr),
		api.NewStreamHandler(ctrl),
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
