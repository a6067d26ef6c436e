package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/banksync/internal/banksync"
	"github.com/MrJamesThe3rd/banksync/internal/http/respond"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"NotFound", fmt.Errorf("origin: %w", statement.ErrNotFound), http.StatusNotFound},
		{"InUse", statement.ErrSuggestionInUse, http.StatusConflict},
		{"Transition", fmt.Errorf("x: %w", statement.ErrInvalidTransition), http.StatusConflict},
		{"Warning", &statement.WarningError{Key: "k", Message: "m"}, http.StatusConflict},
		{"MoveReversed", fmt.Errorf("move: %w", statement.ErrMoveReversed), http.StatusConflict},
		{"InvalidLine", fmt.Errorf("line 0: %w", statement.ErrInvalidLine), http.StatusBadRequest},
		{"AmountMismatch", statement.ErrAmountMismatch, http.StatusUnprocessableEntity},
		{"Currency", banksync.ErrCurrencyMismatch, http.StatusUnprocessableEntity},
		{"Upstream", fmt.Errorf("sync: %w", &banksync.UpstreamError{Status: 500}), http.StatusBadGateway},
		{"Other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_Warning(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, &statement.WarningError{Key: statement.WarningPostedMoves, Message: "moves will be reversed"})

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, statement.WarningPostedMoves, body["warning"])
	assert.Equal(t, "moves will be reversed", body["error"])
}

func TestError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
