package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/social-api/internal/errs"
)

const (
	msgUnauthorized = "Could not validate credentials"
	msgBadLogin     = "Incorrect email or password"
	msgForbidden    = "Not authorized to perform requested action."
	msgInternal     = "internal server error"
)

// detailError attaches a client-facing message to a domain error.
type detailError struct {
	err    error
	detail string
}

func (e *detailError) Error() string { return e.detail + ": " + e.err.Error() }
func (e *detailError) Unwrap() error { return e.err }

// withDetail sets the response message used if err matches target.
func withDetail(err, target error, format string, args ...any) error {
	if !errors.Is(err, target) {
		return err
	}
	return &detailError{err: err, detail: fmt.Sprintf(format, args...)}
}

// statusOf maps an error to its HTTP status and default message.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, errs.ErrIncorrectCredentials):
		return http.StatusForbidden, msgBadLogin
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, "Already exists"
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// fail writes the error response. Internal errors are logged and never echoed.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status == http.StatusUnauthorized {
		unauthorized(w)
		return
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondDetail(w, status, msg)
		return
	}

	var de *detailError
	if errors.As(err, &de) {
		msg = de.detail
	}
	respondDetail(w, status, msg)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respondDetail(w, http.StatusUnauthorized, msgUnauthorized)
}
