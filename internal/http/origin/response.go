package origin

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/banksync/internal/matching"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

type originResponse struct {
	ID             uuid.UUID             `json:"id"`
	StatementID    uuid.UUID             `json:"statement_id"`
	JournalID      uuid.UUID             `json:"journal_id"`
	EntryReference string                `json:"entry_reference"`
	Amount         decimal.Decimal       `json:"amount"`
	PendingAmount  decimal.Decimal       `json:"pending_amount"`
	Currency       string                `json:"currency"`
	Date           string                `json:"date"`
	Information    map[string]string     `json:"information"`
	State          statement.OriginState `json:"state"`
	Lines          []lineResponse        `json:"lines,omitempty"`
	Suggestions    []suggestionResponse  `json:"suggestions,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type lineResponse struct {
	ID                   uuid.UUID           `json:"id"`
	Date                 string              `json:"date"`
	Amount               decimal.Decimal     `json:"amount"`
	SecondCurrency       string              `json:"second_currency,omitempty"`
	AmountSecondCurrency decimal.NullDecimal `json:"amount_second_currency"`
	PartyID              *uuid.UUID          `json:"party_id,omitempty"`
	AccountID            *uuid.UUID          `json:"account_id,omitempty"`
	RelatedTo            string              `json:"related_to,omitempty"`
	Description          string              `json:"description"`
	SuggestionID         *uuid.UUID          `json:"suggestion_id,omitempty"`
	MoveID               *uuid.UUID          `json:"move_id,omitempty"`
}

type suggestionResponse struct {
	ID                   uuid.UUID                 `json:"id"`
	Name                 string                    `json:"name"`
	PartyID              *uuid.UUID                `json:"party_id,omitempty"`
	AccountID            *uuid.UUID                `json:"account_id,omitempty"`
	Date                 string                    `json:"date,omitempty"`
	Amount               decimal.Decimal           `json:"amount"`
	SecondCurrency       string                    `json:"second_currency,omitempty"`
	AmountSecondCurrency decimal.NullDecimal       `json:"amount_second_currency"`
	RelatedTo            string                    `json:"related_to,omitempty"`
	Similarity           int                       `json:"similarity"`
	State                statement.SuggestionState `json:"state"`
	Children             []suggestionResponse      `json:"children,omitempty"`
}

type outcomeResponse struct {
	OriginID    uuid.UUID  `json:"origin_id"`
	Suggestions int        `json:"suggestions"`
	Selected    *uuid.UUID `json:"selected,omitempty"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}

func toResponse(o *statement.Origin) originResponse {
	resp := originResponse{
		ID:             o.ID,
		StatementID:    o.StatementID,
		JournalID:      o.JournalID,
		EntryReference: o.EntryReference,
		Amount:         o.Amount,
		PendingAmount:  o.PendingAmount(),
		Currency:       o.Currency,
		Date:           formatDate(o.Date),
		Information:    o.Information,
		State:          o.State,
		CreatedAt:      o.CreatedAt,
		Lines:          toLineList(o.Lines),
	}

	tree := o.Tree()
	for _, s := range tree.TopLevel() {
		resp.Suggestions = append(resp.Suggestions, toSuggestion(tree, s))
	}

	return resp
}

func toResponseList(origins []*statement.Origin) []originResponse {
	resp := make([]originResponse, len(origins))
	for i, o := range origins {
		resp[i] = toResponse(o)
	}

	return resp
}

func toLineList(lines []*statement.Line) []lineResponse {
	resp := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, lineResponse{
			ID:                   l.ID,
			Date:                 formatDate(l.Date),
			Amount:               l.Amount,
			SecondCurrency:       l.SecondCurrency,
			AmountSecondCurrency: l.AmountSecondCurrency,
			PartyID:              l.PartyID,
			AccountID:            l.AccountID,
			RelatedTo:            l.RelatedTo.String(),
			Description:          l.Description,
			SuggestionID:         l.SuggestionID,
			MoveID:               l.MoveID,
		})
	}

	return resp
}

func toSuggestion(tree *statement.Tree, s *statement.SuggestedLine) suggestionResponse {
	resp := suggestionResponse{
		ID:                   s.ID,
		Name:                 s.Name,
		PartyID:              s.PartyID,
		AccountID:            s.AccountID,
		Date:                 formatDate(s.Date),
		Amount:               s.Amount,
		SecondCurrency:       s.SecondCurrency,
		AmountSecondCurrency: s.AmountSecondCurrency,
		RelatedTo:            s.RelatedTo.String(),
		Similarity:           s.Similarity,
		State:                s.State,
	}

	for _, c := range tree.Children(s.ID) {
		resp.Children = append(resp.Children, toSuggestion(tree, c))
	}

	return resp
}

func toOutcomes(outcomes []matching.Outcome) []outcomeResponse {
	resp := make([]outcomeResponse, len(outcomes))
	for i, o := range outcomes {
		resp[i] = outcomeResponse{OriginID: o.OriginID, Suggestions: o.Suggestions, Selected: o.Selected}
	}

	return resp
}
