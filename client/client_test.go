package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"

	"github.com/rosterhq/cogitator/cogitator"
	"github.com/rosterhq/cogitator/provider"
	"github.com/rosterhq/cogitator/router"
)

type stubCompleter struct{ out string }

func (s stubCompleter) Complete(ctx context.Context, req provider.Request) (string, error) {
	return s.out, nil
}

func testHandler(out string) *cogitator.Handler {
	return cogitator.NewHandler(stubCompleter{out: out}, nil)
}

// routerInvoker feeds invocations straight into an in-process router.
type routerInvoker struct {
	router       *router.Lambda
	functionName string
	functionErr  *string
}

func (r *routerInvoker) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	r.functionName = aws.ToString(params.FunctionName)
	if r.functionErr != nil {
		return &lambda.InvokeOutput{FunctionError: r.functionErr, Payload: []byte(`{"errorMessage":"boom"}`)}, nil
	}
	var evt events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(params.Payload, &evt); err != nil {
		return nil, err
	}
	resp, err := r.router.Route(ctx, evt)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(resp)
	return &lambda.InvokeOutput{StatusCode: 200, Payload: payload}, err
}

func TestHTTPAnalyze(t *testing.T) {
	srv := httptest.NewServer(router.NewHTTP(testHandler("Empty roster."),
		router.StaticEnv(cogitator.WorkerEnv{APIKey: "k"})))
	defer srv.Close()

	resp, err := NewHTTP(srv.URL).Analyze(context.Background(), json.RawMessage(`{"units":[]}`))
	assert.NoError(t, err)
	assert.Equal(t, &cogitator.RosterAnalysisResponse{Task: cogitator.TaskRosterAnalysis, Output: "Empty roster."}, resp)
}

func TestHTTPAnalyzeRemoteError(t *testing.T) {
	srv := httptest.NewServer(router.NewHTTP(testHandler("never"),
		router.StaticEnv(cogitator.WorkerEnv{})))
	defer srv.Close()

	_, err := NewHTTP(srv.URL).Analyze(context.Background(), json.RawMessage(`{"units":[]}`))
	var re *RemoteError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.Contains(t, re.Message, "API key")
}

func TestHTTPAnalyzeNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL).Analyze(context.Background(), json.RawMessage(`{"units":[]}`))
	var re *RemoteError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusBadGateway, re.Status)
	assert.Contains(t, re.Message, "bad gateway")
}

func TestLambdaAnalyze(t *testing.T) {
	inv := &routerInvoker{router: router.NewLambda(testHandler("Fine list."),
		router.StaticEnv(cogitator.WorkerEnv{APIKey: "k"}))}

	resp, err := NewLambda(inv, "cogitator-prod").Analyze(context.Background(),
		json.RawMessage(`{"faction":"Necrons","units":[{"name":"Overlord"}]}`))
	assert.NoError(t, err)
	assert.Equal(t, "Fine list.", resp.Output)
	assert.Equal(t, "cogitator-prod", inv.functionName)
}

func TestLambdaAnalyzeValidationError(t *testing.T) {
	inv := &routerInvoker{router: router.NewLambda(testHandler("never"),
		router.StaticEnv(cogitator.WorkerEnv{APIKey: "k"}))}

	_, err := NewLambda(inv, "cogitator").Analyze(context.Background(), json.RawMessage(`{}`))
	var re *RemoteError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusBadRequest, re.Status)
}

func TestLambdaFunctionError(t *testing.T) {
	inv := &routerInvoker{functionErr: aws.String("Unhandled")}

	_, err := NewLambda(inv, "cogitator").Analyze(context.Background(), json.RawMessage(`{"units":[]}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Unhandled")
}
