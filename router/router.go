// Package router adapts host-platform requests to the cogitator handler.
// Routers never validate bodies themselves; they resolve the env bundle,
// delegate, and return whatever the handler produced.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rosterhq/cogitator/cogitator"
	"github.com/rosterhq/cogitator/config"
)

// MaxBodyBytes caps request bodies accepted by the routers.
const MaxBodyBytes = 1 << 20

var (
	errMethodNotAllowed = errors.New("method not allowed, use POST")
	errBodyTooLarge     = fmt.Errorf("request body larger than %d bytes", MaxBodyBytes)
)

// Handler is satisfied by *cogitator.Handler.
type Handler interface {
	Handle(ctx context.Context, body []byte, env cogitator.WorkerEnv) cogitator.Result
}

// EnvSource builds the env bundle for one invocation.
type EnvSource func() cogitator.WorkerEnv

// EnvFromConfig reads the provider settings from cfg on every call, so a
// changed environment is picked up by the next invocation.
func EnvFromConfig(cfg *config.Config) EnvSource {
	return func() cogitator.WorkerEnv {
		provider, apiKey, model := cfg.ProviderKeys()
		return cogitator.WorkerEnv{
			APIKey:      apiKey,
			Model:       model,
			Provider:    provider,
			MaxAttempts: cfg.GetInt(config.ConfigMaxAttempts),
		}
	}
}

// StaticEnv always returns env.
func StaticEnv(env cogitator.WorkerEnv) EnvSource {
	return func() cogitator.WorkerEnv { return env }
}

func routerError(status int, err error) cogitator.Result {
	return cogitator.Result{Status: status, Body: &cogitator.ErrorResult{Error: err.Error()}}
}

func methodNotAllowed() cogitator.Result {
	return routerError(http.StatusMethodNotAllowed, errMethodNotAllowed)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}
