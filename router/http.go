package router

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rosterhq/cogitator/cogitator"
)

// HTTP serves the handler over net/http, for local development and
// container deployments.
type HTTP struct {
	handler Handler
	env     EnvSource
}

func NewHTTP(handler Handler, env EnvSource) *HTTP {
	return &HTTP{handler: handler, env: env}
}

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-Id", requestID)
	logger := log.With().
		Str("request-id", requestID).
		Str("route", r.URL.Path).
		Logger()
	ctx := logger.WithContext(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		logger.Info().Str("method", r.Method).Msg("method-not-allowed")
		writeResult(w, methodNotAllowed())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeResult(w, routerError(http.StatusRequestEntityTooLarge, errBodyTooLarge))
			return
		}
		writeResult(w, routerError(http.StatusBadRequest, err))
		return
	}

	res := h.handler.Handle(ctx, body, h.env())
	logger.Info().Int("status", res.Status).Msg("request-done")
	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, res cogitator.Result) {
	bts, err := res.JSON()
	if err != nil {
		log.Error().Err(err).Msg("failed-to-encode-response")
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	for k, v := range jsonHeaders {
		w.Header().Set(k, v)
	}
	w.WriteHeader(res.Status)
	w.Write(bts)
}
