package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oddshoes/birdie/internal/brand"
	"github.com/oddshoes/birdie/internal/config"
	"github.com/oddshoes/birdie/internal/dispatch"
	"github.com/oddshoes/birdie/internal/logging"
	"github.com/oddshoes/birdie/internal/metrics"
	httpmw "github.com/oddshoes/birdie/internal/middleware"
	"github.com/oddshoes/birdie/internal/relay"
	"github.com/oddshoes/birdie/internal/session"
	"github.com/oddshoes/birdie/internal/store"
	"github.com/oddshoes/birdie/internal/webhook"
	"github.com/oddshoes/birdie/internal/widget"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config: invalid configuration", zap.Error(err))
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	// "birdie leads" prints the lead journal and exits.
	if len(os.Args) > 1 && os.Args[1] == "leads" {
		if cfg.LeadsDB == "" {
			logger.Fatal("leads: LEADS_DB is not set")
		}
		db, err := store.NewBoltStore(cfg.LeadsDB)
		if err != nil {
			logger.Fatal("store: opening lead journal", zap.Error(err))
		}
		defer db.Close()
		if err := printLeads(os.Stdout, db); err != nil {
			logger.Fatal("leads: listing failed", zap.Error(err))
		}
		return
	}

	kb, err := brand.Load(cfg.BrandFile)
	if err != nil {
		logger.Fatal("brand: loading knowledge base", zap.Error(err))
	}

	var leads store.Store
	if cfg.LeadsDB != "" {
		db, err := store.NewBoltStore(cfg.LeadsDB)
		if err != nil {
			logger.Fatal("store: opening lead journal", zap.Error(err))
		}
		defer db.Close()
		leads = db
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := dispatch.New(cfg, dispatch.Options{
		Sessions:  session.NewManager(cfg.RateLimitPerMinute),
		Knowledge: kb,
		Leads:     leads,
		Logger:    logger,
		Metrics:   m,
	})

	// Periodic eviction of idle conversations to bound memory
	go func() {
		ticker := time.NewTicker(cfg.SessionMaxAge / 2)
		defer ticker.Stop()
		for range ticker.C {
			svc.Cleanup(cfg.SessionMaxAge)
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httpmw.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(api chi.Router) {
		api.Use(httpmw.CORS(cfg.AllowedOrigins))
		api.Route("/api/chat", widget.NewHandler(svc, logger).Routes)
	})

	if cfg.RelayTargetURL != "" {
		fwd := webhook.NewClient(webhook.Options{Timeout: cfg.WebhookTimeout})
		r.Handle("/relay", relay.NewHandler(cfg.RelayTargetURL, fwd, logger, m))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.WebhookTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("birdie: listening",
			zap.String("addr", srv.Addr),
			zap.String("strategy", svc.StrategyName()),
			zap.Bool("relay", cfg.RelayTargetURL != ""),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server: listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("birdie: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: server did not stop cleanly", zap.Error(err))
	}
	logger.Info("birdie: stopped")
}
