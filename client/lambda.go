package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/rosterhq/cogitator/cogitator"
)

// InvokeAPI is the part of the Lambda service client we use.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Lambda invokes the function synchronously with an API Gateway v2 event, so
// the deployed router sees exactly what it would see behind a function URL.
type Lambda struct {
	api      InvokeAPI
	function string
}

func NewLambda(api InvokeAPI, function string) *Lambda {
	return &Lambda{api: api, function: function}
}

// NewLambdaFromEnv loads AWS credentials and region the standard way
// (environment, shared config, instance role).
func NewLambdaFromEnv(ctx context.Context, function string) (*Lambda, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewLambda(lambda.NewFromConfig(cfg), function), nil
}

func (c *Lambda) Analyze(ctx context.Context, roster json.RawMessage) (*cogitator.RosterAnalysisResponse, error) {
	reqBody, err := requestBody(roster)
	if err != nil {
		return nil, err
	}
	evt := events.APIGatewayV2HTTPRequest{
		Version: "2.0",
		RawPath: "/",
		Headers: map[string]string{"content-type": "application/json"},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodPost,
				Path:   "/",
			},
		},
		Body: string(reqBody),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	out, err := c.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(c.function),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", c.function, err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("function %s failed (%s): %s", c.function, aws.ToString(out.FunctionError), string(out.Payload))
	}

	var resp events.APIGatewayV2HTTPResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal function response: %w", err)
	}
	return decodeResult(resp.StatusCode, []byte(resp.Body))
}
