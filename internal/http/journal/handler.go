package journal

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/banksync/internal/banksync"
	"github.com/MrJamesThe3rd/banksync/internal/http/respond"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

type Lister interface {
	ListJournals(ctx context.Context) ([]*statement.Journal, error)
}

type Handler struct {
	journals Lister
	sync     *banksync.Service
}

func NewHandler(journals Lister, sync *banksync.Service) *Handler {
	return &Handler{journals: journals, sync: sync}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/journals", h.list)
	r.Post("/sync/{journal_id}", h.synchronize)
}

type journalResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Currency             string     `json:"currency"`
	Linked               bool       `json:"linked"`
	SimilarityThreshold  int        `json:"similarity_threshold"`
	AcceptableSimilarity int        `json:"acceptable_similarity"`
	LastSync             *time.Time `json:"last_sync,omitempty"`
}

type syncResponse struct {
	StatementID *uuid.UUID `json:"statement_id,omitempty"`
	Imported    int        `json:"imported"`
	Skipped     int        `json:"skipped"`
	Selected    int        `json:"auto_selected"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	journals, err := h.journals.ListJournals(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]journalResponse, len(journals))
	for i, j := range journals {
		resp[i] = journalResponse{
			ID:                   j.ID,
			Name:                 j.Name,
			Currency:             j.Currency,
			Linked:               j.BankAccountUID != "",
			SimilarityThreshold:  j.SimilarityThreshold,
			AcceptableSimilarity: j.AcceptableSimilarity,
			LastSync:             j.LastSync,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) synchronize(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "journal_id"))
	if err != nil {
		respond.BadRequest(w, "invalid journal id")
		return
	}

	res, err := h.sync.Sync(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSyncResponse(res))
}

func toSyncResponse(res *banksync.Result) syncResponse {
	resp := syncResponse{Imported: res.Imported, Skipped: res.Skipped}
	if res.Statement != nil {
		resp.StatementID = &res.Statement.ID
	}

	for _, o := range res.Outcomes {
		if o.Selected != nil {
			resp.Selected++
		}
	}

	return resp
}
