package statement

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrMissingAccount = errors.New("statement line has no account")

// Journal holds the per-journal reconciliation settings.
type Journal struct {
	ID                   uuid.UUID
	Name                 string
	Currency             string
	BankAccountUID       string
	AccountID            uuid.UUID
	SimilarityThreshold  int
	AcceptableSimilarity int
	LastSync             *time.Time
}

// InvoiceState is the state of an invoice a line may be related to.
type InvoiceState string

const (
	InvoicePosted    InvoiceState = "posted"
	InvoicePaid      InvoiceState = "paid"
	InvoiceCancelled InvoiceState = "cancelled"
)

// MoveSpec describes an accounting move to be posted. OriginReference and
// LineID stay on the move after the origin or the line is deleted.
type MoveSpec struct {
	JournalID       uuid.UUID
	StatementID     uuid.UUID
	OriginID        uuid.UUID
	OriginReference string
	LineID          uuid.UUID
	Date            time.Time
	Description     string
	Lines           []MoveLineSpec
}

type MoveLineSpec struct {
	AccountID            uuid.UUID
	PartyID              *uuid.UUID
	Debit                decimal.Decimal
	Credit               decimal.Decimal
	Currency             string
	SecondCurrency       string
	AmountSecondCurrency decimal.NullDecimal
	RelatedTo            RelatedTo
	Description          string
}

// Move is a posted accounting move.
type Move struct {
	ID         uuid.UUID
	Number     string
	OriginID   uuid.UUID
	ReversalOf *uuid.UUID
	PostedAt   time.Time
}

// Balanced reports whether debits equal credits.
func (m MoveSpec) Balanced() bool {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range m.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}

	return debit.Equal(credit)
}

// BuildMove returns the move for one statement line: the bank account side
// and the counterpart on the line's account.
func BuildMove(journal *Journal, origin *Origin, line *Line) (MoveSpec, error) {
	if line.AccountID == nil {
		return MoveSpec{}, fmt.Errorf("line %s: %w", line.ID, ErrMissingAccount)
	}

	amount := line.Amount.Abs()

	bank := MoveLineSpec{
		AccountID:   journal.AccountID,
		Currency:    origin.Currency,
		Description: line.Description,
	}
	counterpart := MoveLineSpec{
		AccountID:            *line.AccountID,
		PartyID:              line.PartyID,
		Currency:             origin.Currency,
		SecondCurrency:       line.SecondCurrency,
		AmountSecondCurrency: line.AmountSecondCurrency,
		RelatedTo:            line.RelatedTo,
		Description:          line.Description,
	}

	if line.Amount.IsNegative() {
		bank.Credit, counterpart.Debit = amount, amount
	} else {
		bank.Debit, counterpart.Credit = amount, amount
	}

	return MoveSpec{
		JournalID:       journal.ID,
		StatementID:     origin.StatementID,
		OriginID:        origin.ID,
		OriginReference: origin.EntryReference,
		LineID:          line.ID,
		Date:            line.Date,
		Description:     line.Description,
		Lines:           []MoveLineSpec{bank, counterpart},
	}, nil
}
