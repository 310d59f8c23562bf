package cogitator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"github.com/rosterhq/cogitator/prompt"
	"github.com/rosterhq/cogitator/provider"
)

const defaultRetryDelay = 500 * time.Millisecond

// Handler turns a raw request body into a Result. It holds no per-request
// state and is safe for concurrent use.
type Handler struct {
	completer  provider.Completer
	template   *prompt.Template
	retryDelay time.Duration
}

func NewHandler(completer provider.Completer, template *prompt.Template) *Handler {
	if template == nil {
		template = prompt.Default()
	}
	return &Handler{
		completer:  completer,
		template:   template,
		retryDelay: defaultRetryDelay,
	}
}

// Handle validates body, calls the provider once (or up to env.MaxAttempts
// times) and returns the response. Every failure is reported as an
// ErrorResult; Handle never panics on bad input.
func (h *Handler) Handle(ctx context.Context, body []byte, env WorkerEnv) Result {
	logger := zerolog.Ctx(ctx)

	req, err := DecodeRequest(body)
	if err != nil {
		logger.Info().Err(err).Msg("rejected-request")
		return errorResult(statusFor(err), err)
	}

	switch r := req.(type) {
	case *RosterAnalysisRequest:
		return h.analyzeRoster(ctx, r, env)
	}
	// DecodeRequest only returns known kinds.
	err = fmt.Errorf("%w %q", ErrUnknownTask, req.Task())
	return errorResult(http.StatusBadRequest, err)
}

func (h *Handler) analyzeRoster(ctx context.Context, req *RosterAnalysisRequest, env WorkerEnv) Result {
	r := req.ParsedRoster()
	name := env.ProviderName()
	logger := zerolog.Ctx(ctx).With().
		Str("task", string(TaskRosterAnalysis)).
		Str("roster-fingerprint", r.Fingerprint()).
		Str("provider", name).
		Logger()

	if !provider.Supported(name) {
		err := fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
		logger.Error().Err(err).Msg("configuration-error")
		return errorResult(statusFor(err), err)
	}
	if env.APIKey == "" {
		err := fmt.Errorf("%w for %s", ErrMissingAPIKey, name)
		logger.Error().Err(err).Msg("configuration-error")
		return errorResult(statusFor(err), err)
	}

	model := env.ResolveModel()
	preq := provider.Request{
		Provider: name,
		APIKey:   env.APIKey,
		Model:    model,
		Prompt:   h.template.Build(r),
	}
	logger.Info().
		Str("model", model).
		Str("faction", r.FactionSlug()).
		Int("units", len(r.Units)).
		Msg("analyzing-roster")

	start := time.Now()
	output, err := retry.DoWithData(
		func() (string, error) {
			return h.completer.Complete(ctx, preq)
		},
		retry.Attempts(env.attempts()),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.Delay(h.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).Uint("n", n).Msg("provider-failed-try-again")
		}),
	)
	if err != nil {
		err = providerError(err)
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("provider-error")
		return errorResult(statusFor(err), err)
	}

	logger.Info().Dur("elapsed", time.Since(start)).Int("output-len", len(output)).Msg("roster-analyzed")
	return Result{
		Status: http.StatusOK,
		Body: &RosterAnalysisResponse{
			Task:   TaskRosterAnalysis,
			Output: output,
		},
	}
}

func providerError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrProvider, err)
}
