package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rosterhq/cogitator/cogitator"
	"github.com/rosterhq/cogitator/config"
	"github.com/rosterhq/cogitator/prompt"
	"github.com/rosterhq/cogitator/provider"
	"github.com/rosterhq/cogitator/router"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
	Route                   = "/api/cogitator"
)

func newMux(cfg *config.Config, completer provider.Completer) (*http.ServeMux, error) {
	tmpl, err := prompt.Load(cfg.GetString(config.ConfigPromptPath))
	if err != nil {
		return nil, err
	}
	handler := cogitator.NewHandler(completer, tmpl)
	mux := http.NewServeMux()
	mux.Handle(Route, router.NewHTTP(handler, router.EnvFromConfig(cfg)))
	return mux, nil
}

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	mux, err := newMux(cfg, provider.NewAgentCompleter())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}
	srv := &http.Server{
		Addr:              cfg.GetString(config.ConfigListenAddr),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("route", Route).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("got quit signal...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}
