package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/config"
	"github.com/wrapworks/estimator/internal/db"
	"github.com/wrapworks/estimator/internal/migrations"
	"github.com/wrapworks/estimator/internal/pricing"
	"github.com/wrapworks/estimator/internal/seed"
	"github.com/wrapworks/estimator/internal/store"
)

type server struct {
	store      *store.Store
	cat        *catalog.Catalog
	thresholds pricing.Thresholds
	log        *zap.Logger
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings {
		logger.Warn("config", zap.String("warning", w))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, logger.Named("goose")); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	cat := catalog.Default()
	stats, err := seed.Run(ctx, database, seed.Config{OrgIDs: cfg.SeedOrgIDs, Materials: cat.Materials})
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts), zap.Int("skipped", stats.Skipped))

	srv := &server{
		store:      store.New(database),
		cat:        cat,
		thresholds: cfg.Thresholds,
		log:        logger,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening",
		zap.String("addr", httpServer.Addr),
		zap.String("env", cfg.Env),
		zap.Float64("at_risk_margin", cfg.Thresholds.AtRisk),
		zap.Float64("excellent_margin", cfg.Thresholds.Excellent),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/orgs/{orgID}", func(r chi.Router) {
		r.Use(requireOrg)

		r.Get("/catalog/makes", s.handleMakes)
		r.Get("/catalog/makes/{make}/models", s.handleModels)
		r.Get("/catalog/materials", s.handleCatalogMaterials)
		r.Get("/catalog/ppf", s.handlePPFPackages)
		r.Get("/catalog/labor-rates", s.handleLaborRates)

		r.Get("/materials", s.handleMaterialsList)
		r.Post("/materials", s.handleMaterialsCreate)
		r.Post("/materials/{id}", s.handleMaterialsUpdate)

		r.Post("/calc", s.handleCalc)

		r.Get("/estimates", s.handleEstimatesList)
		r.Post("/estimates", s.handleEstimateCreate)
		r.Route("/estimates/{id}", func(r chi.Router) {
			r.Get("/", s.handleEstimateGet)
			r.Put("/", s.handleEstimateRename)
			r.Delete("/", s.handleEstimateDelete)
			r.Get("/totals", s.handleEstimateTotals)
			r.Post("/convert", s.handleEstimateConvert)
			r.Get("/export.xlsx", s.handleEstimateExport)

			r.Post("/items", s.handleItemAdd)
			r.Put("/items/{itemID}", s.handleItemUpdate)
			r.Delete("/items/{itemID}", s.handleItemDelete)
			r.Post("/items/{itemID}/duplicate", s.handleItemDuplicate)
			r.Get("/items/{itemID}/commission", s.handleItemCommission)

			r.Post("/proposals", s.handleProposalCreate)
			r.Put("/proposals/{pid}", s.handleProposalRename)
			r.Delete("/proposals/{pid}", s.handleProposalDelete)
			r.Post("/proposals/{pid}/items/{itemID}", s.handleProposalToggle)
			r.Get("/proposals/{pid}/totals", s.handleProposalTotals)
		})
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
