package matching

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

// Proposal is a candidate allocation produced by a strategy. A proposal with
// children is stored as a parent row whose amount is the sum of its children.
type Proposal struct {
	Name                 string
	PartyID              *uuid.UUID
	AccountID            *uuid.UUID
	Date                 time.Time
	Amount               decimal.Decimal
	SecondCurrency       string
	AmountSecondCurrency decimal.NullDecimal
	RelatedTo            statement.RelatedTo
	Similarity           int
	Children             []Proposal
}

// key identifies proposals with the same shape so duplicates from different
// strategies collapse into one row.
func (p Proposal) key() string {
	var b strings.Builder

	b.WriteString(p.Name)
	b.WriteByte('|')
	b.WriteString(uuidKey(p.PartyID))
	b.WriteByte('|')
	b.WriteString(uuidKey(p.AccountID))
	b.WriteByte('|')
	b.WriteString(p.Date.Format(time.DateOnly))
	b.WriteByte('|')
	b.WriteString(p.Amount.String())
	b.WriteByte('|')
	b.WriteString(p.SecondCurrency)
	b.WriteByte('|')

	if p.AmountSecondCurrency.Valid {
		b.WriteString(p.AmountSecondCurrency.Decimal.String())
	}

	b.WriteByte('|')
	b.WriteString(p.RelatedTo.String())

	for _, c := range p.Children {
		b.WriteString("|(")
		b.WriteString(c.key())
		b.WriteByte(')')
	}

	return b.String()
}

func uuidKey(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}

	return id.String()
}

// Dedup drops proposals identical to an earlier one, keeping the first.
func Dedup(proposals []Proposal) []Proposal {
	seen := make(map[string]bool, len(proposals))
	out := make([]Proposal, 0, len(proposals))

	for _, p := range proposals {
		k := p.key()
		if seen[k] {
			continue
		}

		seen[k] = true
		out = append(out, p)
	}

	return out
}

// Build turns proposals into suggested lines for origin. A proposal with a
// single child collapses into one ungrouped row.
func Build(origin *statement.Origin, proposals []Proposal) []*statement.SuggestedLine {
	var rows []*statement.SuggestedLine

	for _, p := range proposals {
		switch len(p.Children) {
		case 0:
			rows = append(rows, newRow(origin, p, p.Similarity, nil))
		case 1:
			rows = append(rows, newRow(origin, p.Children[0], p.Similarity, nil))
		default:
			parent := newRow(origin, p, p.Similarity, nil)

			children := make([]*statement.SuggestedLine, 0, len(p.Children))
			for _, c := range p.Children {
				children = append(children, newRow(origin, c, p.Similarity, &parent.ID))
			}

			sumChildren(origin, parent, children)

			rows = append(rows, parent)
			rows = append(rows, children...)
		}
	}

	return rows
}

// sumChildren sets the parent amount to the sum of its children and carries
// a foreign second currency up when the children share it.
func sumChildren(origin *statement.Origin, parent *statement.SuggestedLine, children []*statement.SuggestedLine) {
	parent.Amount = decimal.Zero
	parent.SecondCurrency = ""
	parent.AmountSecondCurrency = decimal.NullDecimal{}

	for _, c := range children {
		parent.Amount = parent.Amount.Add(c.Amount)
	}

	currency := ""
	second := decimal.Zero

	for _, c := range children {
		if c.SecondCurrency == "" || c.SecondCurrency == origin.Currency || !c.AmountSecondCurrency.Valid {
			return
		}

		if currency != "" && c.SecondCurrency != currency {
			return
		}

		currency = c.SecondCurrency
		second = second.Add(c.AmountSecondCurrency.Decimal)
	}

	parent.SecondCurrency = currency
	parent.AmountSecondCurrency = decimal.NewNullDecimal(second)
}

func newRow(origin *statement.Origin, p Proposal, similarity int, parentID *uuid.UUID) *statement.SuggestedLine {
	return &statement.SuggestedLine{
		ID:                   uuid.New(),
		OriginID:             origin.ID,
		ParentID:             parentID,
		Name:                 p.Name,
		PartyID:              p.PartyID,
		AccountID:            p.AccountID,
		Date:                 p.Date,
		Amount:               p.Amount,
		SecondCurrency:       p.SecondCurrency,
		AmountSecondCurrency: p.AmountSecondCurrency,
		RelatedTo:            p.RelatedTo,
		Similarity:           similarity,
		State:                statement.SuggestionProposed,
	}
}
