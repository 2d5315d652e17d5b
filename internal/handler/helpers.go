package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"cinedesk/internal/domain"
	"cinedesk/internal/httputil"
	"cinedesk/internal/service/llm/agent"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError

	switch {
	case errors.Is(err, context.Canceled):
		// client went away, nothing useful to write
		logger.Debug("request canceled", "path", r.URL.Path)
	case errors.Is(err, context.DeadlineExceeded):
		httputil.RespondRequestError(w, r, http.StatusGatewayTimeout, "the assistant took too long to answer")
	case errors.Is(err, agent.ErrMaxIterations):
		logger.Warn("agent iteration limit", "error", err, "request_id", httputil.GetRequestID(r))
		httputil.RespondRequestError(w, r, http.StatusBadGateway, "the assistant could not finish the request")
	case errors.As(err, &httpErr):
		status := httpErr.StatusCode()
		if status >= http.StatusInternalServerError {
			logger.Error("upstream failure", "error", err, "request_id", httputil.GetRequestID(r))
		}
		httputil.RespondRequestError(w, r, status, err.Error())
	default:
		logger.Error("unhandled error", "error", err, "request_id", httputil.GetRequestID(r))
		httputil.RespondRequestError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
