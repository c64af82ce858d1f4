package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/api"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/catalog"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/config"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/logging"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/service"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/store"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", false)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	telemetry.Init()

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.StoreType, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("store")
	}
	defer st.Close()

	loader := game.NewLoader(cfg.RulesDir)
	svc := service.New(catalog.NewFileSource(cfg.CatalogPath), loader, st, service.Options{
		SeedSalt: cfg.SeedSalt,
		RNG:      gacha.DefaultRNG(),
		Logger:   log,
	})
	if err := svc.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial load")
	}

	hs := health.NewServer()
	api.SyncHealth(hs, svc.Ready())

	// rules and catalog hot reload
	if cfg.WatchRules {
		reload := func(path string) {
			if err := svc.Reload(ctx); err != nil {
				log.Error().Err(err).Str("path", path).Msg("reload failed; keeping previous snapshot")
			}
			api.SyncHealth(hs, svc.Ready())
		}
		onErr := func(err error) { log.Warn().Err(err).Msg("watcher") }
		// the catalog may live outside the rules tree
		w := game.WatchLoader(loader, reload, onErr, filepath.Dir(cfg.CatalogPath))
		if err := w.Start(); err != nil {
			log.Warn().Err(err).Msg("hot reload disabled")
		} else {
			defer w.Stop()
		}
	}

	apiSrv := api.NewServer(svc, log)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      apiSrv.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", telemetry.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsRouter, ReadTimeout: 3 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("metrics server")
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("grpc listen")
		}
		grpcSrv = api.NewGRPCServer(hs)
		go func() {
			log.Info().Str("addr", cfg.GRPCAddr).Msg("grpc health listening")
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				log.Error().Err(err).Msg("grpc server")
			}
		}()
	}

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	hs.Shutdown()
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	log.Info().Msg("stopped")
}
