package httputil

import (
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/gymit/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var kindStatus = map[string]int{
	"unauthenticated":           http.StatusUnauthorized,
	"forbidden":                 http.StatusForbidden,
	"validation_failed":         http.StatusBadRequest,
	"invalid_winner":            http.StatusBadRequest,
	"not_found":                 http.StatusNotFound,
	"invalid_state":             http.StatusConflict,
	"capacity_exceeded":         http.StatusConflict,
	"tournament_full":           http.StatusConflict,
	"registration_closed":       http.StatusConflict,
	"already_registered":        http.StatusConflict,
	"already_approved":          http.StatusConflict,
	"already_generated":         http.StatusConflict,
	"tournament_paused":         http.StatusConflict,
	"already_decided":           http.StatusConflict,
	"incomplete_match":          http.StatusConflict,
	"no_result_to_clear":        http.StatusConflict,
	"insufficient_participants": http.StatusConflict,
	"lock_timeout":              http.StatusServiceUnavailable,
}

// Error writes err as a JSON error envelope with the status matching its kind.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.ErrorKind(err)
	status, ok := kindStatus[kind]
	if !ok {
		InternalServerError(w, r, "request failed", err)
		return
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	slog.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	WriteJSON(w, status, ErrorResponse{Error: kind, Message: err.Error()})
}

func InternalServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "method", r.Method, "path", r.URL.Path, "error", err)
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal",
		Message: "the server encountered a problem and could not process your request",
	})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
		msg = msg + ": " + err.Error()
	} else {
		slog.Warn("bad request", "message", msg)
	}
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: msg})
}

func Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	slog.Warn("unauthorized", "path", r.URL.Path, "message", msg)
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: msg})
}
