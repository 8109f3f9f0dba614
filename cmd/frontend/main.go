package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/elcriollo/station-frontend/internal/apiclient"
	"github.com/elcriollo/station-frontend/internal/cart"
	"github.com/elcriollo/station-frontend/internal/config"
	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/logger"
	"github.com/elcriollo/station-frontend/internal/middleware"
	"github.com/elcriollo/station-frontend/internal/router"
	"github.com/elcriollo/station-frontend/internal/service"
	"github.com/elcriollo/station-frontend/internal/session"
	"github.com/elcriollo/station-frontend/internal/storage"
	"github.com/elcriollo/station-frontend/internal/websockets"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Station stopped with error")
	}
	log.Info().Msg("Server exited properly")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local storage
	store, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer store.Close()

	// Navigation events go to the UI over the hub
	hub := websockets.NewHub(log)

	// One operator's cart never outlives their session
	c := cart.New()

	sessions := session.NewStore(store, hub, log, session.OnTeardown(c.Clear))
	if _, err := sessions.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to restore session, starting logged out")
	}

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, sessions, log,
		apiclient.WithMetrics(apiclient.NewMetrics(prometheus.DefaultRegisterer)))

	g := gate.New(sessions)
	menu := service.NewMenuService(client)
	tables := service.NewTableService(client)
	orders := service.NewOrderService(client)

	r := router.New(ctx, router.Deps{
		Services: router.Services{
			Auth: service.NewAuthService(client, sessions, log,
				service.WithQuickLogin(cfg.QuickLoginEnabled(), cfg.Dev.Accounts)),
			Accounts:  service.NewAccountService(client),
			Tables:    tables,
			Menu:      menu,
			Orders:    orders,
			Dashboard: service.NewDashboardService(menu, tables, orders, g),
			System:    service.NewSystemService(client, sessions),
		},
		Sessions: sessions,
		Storage:  store,
		Guard:    middleware.NewGuard(g, sessions, cfg.Session.ResolveWait),
		Cart:     c,
		Hub:      hub,
		Gatherer: prometheus.DefaultGatherer,
		Log:      log,
	})

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var eg errgroup.Group
	eg.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	eg.Go(func() error {
		log.Info().
			Str("address", cfg.Server.Address).
			Str("api", cfg.API.BaseURL).
			Str("environment", cfg.Server.Environment).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			return err
		}
		return nil
	})

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if err := eg.Wait(); err != nil {
		return err
	}
	return shutdownErr
}
