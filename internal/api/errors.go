package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/redact"
)

// Client-facing messages for kinds whose text never depends on the error.
const (
	msgResourceNotFound = "Resource not found"
	msgDuplicate        = "Duplicate field value entered"
	msgInvalidCreds     = "Invalid credentials"
	msgInvalidToken     = "Invalid token"
	msgTokenExpired     = "Token expired"
	msgServerError      = "Server Error"
)

// ErrorTranslator maps every error a handler returns onto the fixed
// status/message taxonomy and writes the error envelope.
type ErrorTranslator struct {
	production bool
	logger     *slog.Logger
}

// NewErrorTranslator creates a translator. In production, stacks are never
// rendered and unclassified errors report a generic message.
func NewErrorTranslator(production bool, logger *slog.Logger) *ErrorTranslator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorTranslator{
		production: production,
		logger:     logger.With(slog.String("component", "error_translator")),
	}
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Translate returns the HTTP status and client-safe message for err.
func (t *ErrorTranslator) Translate(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, msgServerError
	}

	dErr, _ := domain.AsError(err)

	switch kind := domain.KindOf(err); kind {
	case domain.KindMalformedID:
		return http.StatusNotFound, msgResourceNotFound
	case domain.KindDuplicate:
		return http.StatusBadRequest, messageOr(dErr, msgDuplicate)
	case domain.KindValidation:
		var vErr *domain.ValidationError
		errors.As(err, &vErr)
		return http.StatusBadRequest, vErr.Error()
	case domain.KindBadRequest:
		return http.StatusBadRequest, messageOr(dErr, "Bad request")
	case domain.KindAuth:
		return http.StatusUnauthorized, msgInvalidCreds
	case domain.KindNotFound:
		return http.StatusNotFound, messageOr(dErr, msgResourceNotFound)
	case domain.KindTokenInvalid:
		return http.StatusUnauthorized, msgInvalidToken
	case domain.KindTokenExpired:
		return http.StatusUnauthorized, msgTokenExpired
	case domain.KindUnclassified:
		return t.unclassified(err, dErr)
	default:
		t.logger.Error("unhandled error kind", slog.String("kind", string(kind)))
		return http.StatusInternalServerError, msgServerError
	}
}

func (t *ErrorTranslator) unclassified(err error, dErr *domain.Error) (int, string) {
	if dErr != nil && dErr.Kind == domain.KindUnclassified {
		status := dErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, messageOr(dErr, msgServerError)
	}
	if t.production {
		return http.StatusInternalServerError, msgServerError
	}
	return http.StatusInternalServerError, redact.Error(err)
}

// Respond translates err and writes the error envelope.
func (t *ErrorTranslator) Respond(w http.ResponseWriter, r *http.Request, err error) {
	status, message := t.Translate(err)

	resp := shared.ErrorResponse{Error: message, Code: status}
	if !t.production {
		resp.Stack = stackOf(err)
	}

	shared.RespondWithErrorAndLog(w, r, resp, err)
}

// stackOf renders the stack recorded by github.com/pkg/errors, if any.
func stackOf(err error) string {
	var st stackTracer
	if !errors.As(err, &st) {
		return ""
	}
	return fmt.Sprintf("%+v", err)
}

func messageOr(dErr *domain.Error, fallback string) string {
	if dErr == nil || dErr.Message == "" {
		return fallback
	}
	return dErr.Message
}
