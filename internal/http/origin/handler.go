package origin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/banksync/internal/encoding"
	"github.com/MrJamesThe3rd/banksync/internal/http/respond"
	"github.com/MrJamesThe3rd/banksync/internal/matching"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

type Handler struct {
	statements *statement.Service
	matching   *matching.Service
}

func NewHandler(statements *statement.Service, matching *matching.Service) *Handler {
	return &Handler{statements: statements, matching: matching}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/suggestions", h.suggest)
	r.Post("/register", h.register)
	r.Post("/post", h.post)
	r.Post("/cancel", h.cancel)

	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/lines", h.createLines)
	r.Delete("/{id}/lines", h.deleteLines)
	r.Post("/{id}/suggestions/use", h.use)
	r.Post("/{id}/suggestions/propose", h.propose)
}

type originsRequest struct {
	OriginIDs []uuid.UUID `json:"origin_ids"`
}

type linesRequest struct {
	LineIDs []uuid.UUID `json:"line_ids"`
}

type lineRequest struct {
	Date                 string              `json:"date"`
	Amount               decimal.Decimal     `json:"amount"`
	SecondCurrency       string              `json:"second_currency"`
	AmountSecondCurrency decimal.NullDecimal `json:"amount_second_currency"`
	PartyID              *uuid.UUID          `json:"party_id"`
	AccountID            *uuid.UUID          `json:"account_id"`
	RelatedTo            string              `json:"related_to"`
	Description          string              `json:"description"`
}

type createLinesRequest struct {
	Lines []lineRequest `json:"lines"`
}

func (req lineRequest) toLine() (*statement.Line, error) {
	related, err := statement.ParseRelatedTo(req.RelatedTo)
	if err != nil {
		return nil, err
	}

	l := &statement.Line{
		Amount:               req.Amount,
		SecondCurrency:       req.SecondCurrency,
		AmountSecondCurrency: req.AmountSecondCurrency,
		PartyID:              req.PartyID,
		AccountID:            req.AccountID,
		RelatedTo:            related,
		Description:          req.Description,
	}

	if req.Date != "" {
		if l.Date, err = time.Parse(time.DateOnly, req.Date); err != nil {
			return nil, err
		}
	}

	return l, nil
}

type suggestionsRequest struct {
	SuggestionIDs []uuid.UUID `json:"suggestion_ids"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := encoding.DecodeJSON(r.Body, r.Header.Get("Content-Type"), v); err != nil {
		respond.BadRequest(w, err.Error())
		return false
	}

	return true
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) originIDs(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	var req originsRequest
	if !decode(w, r, &req) {
		return nil, false
	}

	if len(req.OriginIDs) == 0 {
		respond.BadRequest(w, "origin_ids is required")
		return nil, false
	}

	return req.OriginIDs, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := statement.ListFilter{}
	q := r.URL.Query()

	for key, dst := range map[string]**uuid.UUID{
		"statement_id": &filter.StatementID,
		"journal_id":   &filter.JournalID,
	} {
		if s := q.Get(key); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				respond.BadRequest(w, "invalid "+key)
				return
			}

			*dst = &id
		}
	}

	if s := q.Get("state"); s != "" {
		state := statement.OriginState(s)
		if !state.Valid() {
			respond.BadRequest(w, "invalid state")
			return
		}

		filter.State = &state
	}

	for key, dst := range map[string]**time.Time{
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	} {
		if s := q.Get(key); s != "" {
			t, err := time.Parse(time.DateOnly, s)
			if err != nil {
				respond.BadRequest(w, "invalid "+key)
				return
			}

			*dst = &t
		}
	}

	origins, err := h.statements.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(origins))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.statements.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.originIDs(w, r)
	if !ok {
		return
	}

	outcomes, err := h.matching.Search(r.Context(), ids)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toOutcomes(outcomes))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.originIDs(w, r)
	if !ok {
		return
	}

	if err := h.statements.Register(r.Context(), ids); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.originIDs(w, r)
	if !ok {
		return
	}

	if err := h.statements.Post(r.Context(), ids, confirmed(r)); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.originIDs(w, r)
	if !ok {
		return
	}

	if err := h.statements.Cancel(r.Context(), ids, confirmed(r)); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.statements.Delete(r.Context(), []uuid.UUID{id}); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createLines(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req createLinesRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Lines) == 0 {
		respond.BadRequest(w, "lines is required")
		return
	}

	lines := make([]*statement.Line, 0, len(req.Lines))

	for _, lr := range req.Lines {
		l, err := lr.toLine()
		if err != nil {
			respond.BadRequest(w, err.Error())
			return
		}

		lines = append(lines, l)
	}

	created, err := h.statements.CreateLines(r.Context(), id, lines)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toLineList(created))
}

func (h *Handler) deleteLines(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req linesRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.statements.DeleteLines(r.Context(), id, req.LineIDs, confirmed(r)); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) use(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req suggestionsRequest
	if !decode(w, r, &req) {
		return
	}

	lines, err := h.statements.UseSuggestions(r.Context(), id, req.SuggestionIDs)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toLineList(lines))
}

func (h *Handler) propose(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req suggestionsRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.statements.ProposeSuggestions(r.Context(), id, req.SuggestionIDs); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
