package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/msgbox/messaging-service/internal/api/metrics"
	"github.com/msgbox/messaging-service/internal/core/domain"
)

const internalErrorBody = "Internal server error"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes and fixed messages.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the message as a plain-text body.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.String(code, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, 401 from BasicAuth, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			logUnexpected(log, c, he.Internal)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	code, msg, reason := http.StatusInternalServerError, "", ""
	switch {
	case errors.Is(err, domain.ErrEmptyCredentials):
		return http.StatusBadRequest, "Password cannot be empty"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Cannot authenticate user"
	case errors.Is(err, domain.ErrRecipientNotFound):
		code, msg, reason = http.StatusBadRequest, "Message recipient not found", "recipient_not_found"
	case errors.Is(err, domain.ErrCannotSaveMessage):
		code, msg, reason = http.StatusInternalServerError, "Error while saving message", "save_failed"
	case errors.Is(err, domain.ErrCannotModifyStatus):
		code, msg, reason = http.StatusBadRequest, "Error while modifying message status", "modify_failed"
	case errors.Is(err, domain.ErrMessageNotFound):
		code, msg, reason = http.StatusBadRequest, "Message not found", "message_not_found"
	case errors.Is(err, domain.ErrInvalidMessageID):
		code, msg, reason = http.StatusBadRequest, "Invalid message identifier", "invalid_message_id"
	case errors.Is(err, domain.ErrInvalidStatus):
		code, msg, reason = http.StatusBadRequest, "Invalid message status", "invalid_status"
	}
	if msg != "" {
		if code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		metrics.MessageErrorsTotal.WithLabelValues(reason).Inc()
		return code, msg
	}

	// Unexpected error (ErrInternal, ErrUserNotFound, store failures):
	// log the real cause, return a generic message.
	logUnexpected(log, c, err)
	metrics.MessageErrorsTotal.WithLabelValues("internal").Inc()
	return http.StatusInternalServerError, internalErrorBody
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
