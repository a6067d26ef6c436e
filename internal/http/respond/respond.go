// Package respond writes JSON responses and maps domain errors to status
// codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/banksync/internal/banksync"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

type errorBody struct {
	Error   string `json:"error"`
	Warning string `json:"warning,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to.
func Error(w http.ResponseWriter, err error) {
	var (
		warning  *statement.WarningError
		upstream *banksync.UpstreamError
	)

	switch {
	case errors.As(err, &warning):
		JSON(w, http.StatusConflict, errorBody{Error: warning.Message, Warning: warning.Key})
		return
	case errors.As(err, &upstream):
		JSON(w, http.StatusBadGateway, errorBody{Error: upstream.Error()})
		return
	}

	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		JSON(w, status, errorBody{Error: "internal error"})

		return
	}

	JSON(w, status, errorBody{Error: err.Error()})
}

func Status(err error) int {
	switch {
	case errors.Is(err, statement.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, statement.ErrSuggestionInUse),
		errors.Is(err, statement.ErrNotDeletable),
		errors.Is(err, statement.ErrInvalidTransition),
		errors.Is(err, statement.ErrOriginLocked),
		errors.Is(err, statement.ErrMoveReversed),
		statement.IsWarning(err):
		return http.StatusConflict
	case errors.Is(err, statement.ErrInvalidLine):
		return http.StatusBadRequest
	case errors.Is(err, statement.ErrAmountMismatch),
		errors.Is(err, statement.ErrMissingAccount),
		errors.Is(err, banksync.ErrCurrencyMismatch),
		errors.Is(err, banksync.ErrAccountNotFound):
		return http.StatusUnprocessableEntity
	}

	var upstream *banksync.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// BadRequest reports a malformed request.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
