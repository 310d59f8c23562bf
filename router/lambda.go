package router

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog/log"

	"github.com/rosterhq/cogitator/cogitator"
)

// Lambda serves API Gateway HTTP API and Lambda function URL events
// (payload format 2.0).
type Lambda struct {
	handler Handler
	env     EnvSource
}

func NewLambda(handler Handler, env EnvSource) *Lambda {
	return &Lambda{handler: handler, env: env}
}

func (l *Lambda) Route(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	requestID := req.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok && requestID == "" {
		requestID = lc.AwsRequestID
	}
	logger := log.With().
		Str("request-id", requestID).
		Str("route", req.RawPath).
		Logger()
	ctx = logger.WithContext(ctx)

	if req.RequestContext.HTTP.Method != http.MethodPost {
		logger.Info().Str("method", req.RequestContext.HTTP.Method).Msg("method-not-allowed")
		return l.respond(methodNotAllowed())
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return l.respond(routerError(http.StatusBadRequest, fmt.Errorf("undecodable base64 body: %w", err)))
		}
		body = decoded
	}
	if len(body) > MaxBodyBytes {
		return l.respond(routerError(http.StatusRequestEntityTooLarge, errBodyTooLarge))
	}

	res := l.handler.Handle(ctx, body, l.env())
	logger.Info().Int("status", res.Status).Msg("request-done")
	return l.respond(res)
}

func (l *Lambda) respond(res cogitator.Result) (events.APIGatewayV2HTTPResponse, error) {
	bts, err := res.JSON()
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("failed to encode response: %w", err)
	}
	headers := map[string]string{}
	for k, v := range jsonHeaders {
		headers[k] = v
	}
	if res.Status == http.StatusMethodNotAllowed {
		headers["Allow"] = http.MethodPost
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: res.Status,
		Headers:    headers,
		Body:       string(bts),
	}, nil
}
