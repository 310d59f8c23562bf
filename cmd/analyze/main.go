// Command analyze sends a roster file to a deployed cogitator and prints the
// analysis.
//
//	analyze --url http://localhost:8088/api/cogitator roster.json
//	analyze --function cogitator-prod roster.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/rosterhq/cogitator/client"
)

func readRoster(args []string, stdin io.Reader) (json.RawMessage, error) {
	var bts []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		bts, err = io.ReadAll(stdin)
	} else {
		bts, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	if !json.Valid(bts) {
		return nil, errors.New("roster is not valid JSON")
	}
	return bts, nil
}

func newAnalyzer(ctx context.Context, url, function string) (client.Analyzer, error) {
	switch {
	case url != "" && function != "":
		return nil, errors.New("use either --url or --function, not both")
	case function != "":
		c, err := client.NewLambdaFromEnv(ctx, function)
		if err != nil {
			return nil, err
		}
		return c, nil
	case url != "":
		return client.NewHTTP(url), nil
	}
	return nil, errors.New("one of --url or --function is required")
}

func main() {
	fs := pflag.NewFlagSet("analyze", pflag.ExitOnError)
	url := fs.String("url", os.Getenv("COGITATOR_URL"), "cogitator HTTP endpoint")
	function := fs.String("function", os.Getenv("COGITATOR_FUNCTION"), "Lambda function name or ARN")
	timeout := fs.Duration("timeout", 5*time.Minute, "overall request timeout")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Parse(os.Args[1:])

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	roster, err := readRoster(fs.Args(), os.Stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-input")
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	an, err := newAnalyzer(ctx, *url, *function)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-flags")
	}
	start := time.Now()
	resp, err := an.Analyze(ctx, roster)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis-failed")
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("analysis-done")
	fmt.Println(resp.Output)
}
