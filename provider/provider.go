// Package provider sends prompts to a hosted LLM. Clients are built per call
// from the credentials in the request, so nothing is shared between
// invocations.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ingenimax/agent-sdk-go/pkg/interfaces"
	"github.com/Ingenimax/agent-sdk-go/pkg/llm/deepseek"
	"github.com/Ingenimax/agent-sdk-go/pkg/llm/gemini"
	"github.com/Ingenimax/agent-sdk-go/pkg/llm/openai"
	"github.com/Ingenimax/agent-sdk-go/pkg/logging"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	OpenAI   = "openai"
	Gemini   = "gemini"
	DeepSeek = "deepseek"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrEmptyCompletion     = errors.New("provider returned an empty completion")
)

// Request is everything needed for a single completion.
type Request struct {
	Provider string
	APIKey   string
	Model    string
	Prompt   string
}

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// DefaultModel is the model used when no override is configured.
func DefaultModel(provider string) string {
	switch provider {
	case OpenAI:
		return "gpt-4o-mini"
	case Gemini:
		return "gemini-2.5-flash"
	case DeepSeek:
		return "deepseek-chat"
	}
	return ""
}

// Supported reports whether a provider name is known.
func Supported(provider string) bool {
	return DefaultModel(provider) != ""
}

type generator interface {
	Generate(ctx context.Context, prompt string, options ...interfaces.GenerateOption) (string, error)
}

// AgentCompleter talks to OpenAI, Gemini or DeepSeek through agent-sdk-go.
type AgentCompleter struct {
	newClient func(ctx context.Context, req Request) (generator, error)
}

func NewAgentCompleter() *AgentCompleter {
	return &AgentCompleter{newClient: newClient}
}

func (c *AgentCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		req.Model = DefaultModel(req.Provider)
	}
	client, err := c.newClient(ctx, req)
	if err != nil {
		return "", err
	}
	log.Debug().Str("provider", req.Provider).Str("model", req.Model).
		Int("prompt-len", len(req.Prompt)).Msg("sending-completion")

	out, err := client.Generate(ctx, req.Prompt)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", req.Provider, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

func newClient(ctx context.Context, req Request) (generator, error) {
	switch req.Provider {
	case OpenAI:
		return openai.NewClient(
			req.APIKey,
			openai.WithModel(req.Model),
			openai.WithLogger(logging.New()),
		), nil
	case Gemini:
		client, err := gemini.NewClient(ctx,
			gemini.WithAPIKey(req.APIKey),
			gemini.WithBackend(genai.BackendGeminiAPI),
			gemini.WithModel(req.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return client, nil
	case DeepSeek:
		return deepseek.NewClient(
			req.APIKey,
			deepseek.WithModel(req.Model),
			deepseek.WithLogger(logging.New()),
		), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, req.Provider)
}
