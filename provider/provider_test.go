package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/Ingenimax/agent-sdk-go/pkg/interfaces"
	"github.com/matryer/is"
)

type fakeGenerator struct {
	out    string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, options ...interfaces.GenerateOption) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func fakeCompleter(g *fakeGenerator, seen *Request) *AgentCompleter {
	return &AgentCompleter{newClient: func(ctx context.Context, req Request) (generator, error) {
		*seen = req
		return g, nil
	}}
}

func TestCompleteDefaultsModel(t *testing.T) {
	is := is.New(t)
	g := &fakeGenerator{out: "Solid list."}
	var seen Request
	c := fakeCompleter(g, &seen)

	out, err := c.Complete(context.Background(), Request{Provider: OpenAI, APIKey: "k", Prompt: "analyze"})
	is.NoErr(err)
	is.Equal(out, "Solid list.")
	is.Equal(seen.Model, "gpt-4o-mini")
	is.Equal(g.prompt, "analyze")
}

func TestCompleteKeepsOverride(t *testing.T) {
	is := is.New(t)
	var seen Request
	c := fakeCompleter(&fakeGenerator{out: "ok"}, &seen)

	_, err := c.Complete(context.Background(), Request{Provider: Gemini, APIKey: "k", Model: "gemini-2.5-pro"})
	is.NoErr(err)
	is.Equal(seen.Model, "gemini-2.5-pro")
}

func TestCompleteErrors(t *testing.T) {
	is := is.New(t)
	var seen Request
	boom := errors.New("connection reset")

	_, err := fakeCompleter(&fakeGenerator{err: boom}, &seen).
		Complete(context.Background(), Request{Provider: OpenAI})
	is.True(errors.Is(err, boom))

	_, err = fakeCompleter(&fakeGenerator{out: "  \n"}, &seen).
		Complete(context.Background(), Request{Provider: OpenAI})
	is.True(errors.Is(err, ErrEmptyCompletion))
}

func TestUnsupportedProvider(t *testing.T) {
	is := is.New(t)
	_, err := NewAgentCompleter().Complete(context.Background(), Request{Provider: "mistral", APIKey: "k"})
	is.True(errors.Is(err, ErrUnsupportedProvider))
	is.True(!Supported("mistral"))
	is.True(Supported(DeepSeek))
	is.Equal(DefaultModel("mistral"), "")
}
