package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rosterhq/cogitator/cogitator"
	"github.com/rosterhq/cogitator/config"
	"github.com/rosterhq/cogitator/prompt"
	"github.com/rosterhq/cogitator/provider"
	"github.com/rosterhq/cogitator/router"
)

func newRouter(cfg *config.Config, completer provider.Completer) (*router.Lambda, error) {
	tmpl, err := prompt.Load(cfg.GetString(config.ConfigPromptPath))
	if err != nil {
		return nil, err
	}
	handler := cogitator.NewHandler(completer, tmpl)
	return router.NewLambda(handler, router.EnvFromConfig(cfg)), nil
}

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	r, err := newRouter(cfg, provider.NewAgentCompleter())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}
	lambda.Start(r.Route)
}
