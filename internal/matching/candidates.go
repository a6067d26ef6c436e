package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tells receivable (money coming in) from payable candidates.
type Kind string

const (
	KindReceivable Kind = "receivable"
	KindPayable    Kind = "payable"
)

// KindOf returns the payment kind matching the sign of amount.
func KindOf(amount decimal.Decimal) Kind {
	if amount.IsPositive() {
		return KindReceivable
	}

	return KindPayable
}

type Party struct {
	ID        uuid.UUID
	Name      string
	TradeName string
}

// Payment is a payment order. Amount is always positive.
type Payment struct {
	ID             uuid.UUID
	GroupID        *uuid.UUID
	PartyID        *uuid.UUID
	AccountID      *uuid.UUID
	MoveLineID     *uuid.UUID
	Kind           Kind
	Amount         decimal.Decimal
	Currency       string
	Date           time.Time
	Description    string
	Failed         bool
	LineReconciled bool
}

// PaymentGroup is a batch of payments sent together.
type PaymentGroup struct {
	ID                uuid.UUID
	Number            string
	Kind              Kind
	Currency          string
	Date              time.Time
	ClearingAccountID *uuid.UUID
	Payments          []Payment
}

func (g PaymentGroup) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range g.Payments {
		total = total.Add(p.Amount)
	}

	return total
}

// blocked reports a failed payment whose line is still open.
func (g PaymentGroup) blocked() bool {
	for _, p := range g.Payments {
		if p.Failed && !p.LineReconciled {
			return true
		}
	}

	return false
}

// MoveLine is an open receivable or payable ledger line.
type MoveLine struct {
	ID                   uuid.UUID
	MoveID               uuid.UUID
	Document             string
	PartyID              *uuid.UUID
	AccountID            uuid.UUID
	Date                 time.Time
	MaturityDate         *time.Time
	Debit                decimal.Decimal
	Credit               decimal.Decimal
	SecondCurrency       string
	AmountSecondCurrency decimal.NullDecimal
	Description          string
}

func (l MoveLine) Amount() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// DueDate is the maturity date, or the line date when there is none.
func (l MoveLine) DueDate() time.Time {
	if l.MaturityDate != nil {
		return *l.MaturityDate
	}

	return l.Date
}

// HistoricalOrigin is a posted origin whose remittance text resembles the
// one being reconciled, with the shape of the lines it was posted with.
type HistoricalOrigin struct {
	OriginID   uuid.UUID
	Remittance string
	Similarity int
	Amount     decimal.Decimal
	Lines      []HistoricalLine
}

type HistoricalLine struct {
	PartyID     *uuid.UUID
	AccountID   *uuid.UUID
	Amount      decimal.Decimal
	Description string
}

type PoolQuery struct {
	Kind     Kind
	Currency string
}

type HistoryQuery struct {
	JournalID     uuid.UUID
	ExcludeOrigin uuid.UUID
	Text          string
	Threshold     int
}

//go:generate mockgen -source=candidates.go -destination=candidates_mock.go -package=matching

// Candidates gives access to the pools searched for every origin.
type Candidates interface {
	// Parties returns parties whose names may resemble hint.
	Parties(ctx context.Context, hint string) ([]Party, error)
	// Payments returns grouped, non-failed payments whose move line is
	// still unreconciled.
	Payments(ctx context.Context, q PoolQuery) ([]Payment, error)
	// MoveLines returns unreconciled receivable/payable lines of posted
	// moves, excluding invoice tax lines.
	MoveLines(ctx context.Context, q PoolQuery) ([]MoveLine, error)
	SimilarOrigins(ctx context.Context, q HistoryQuery) ([]HistoricalOrigin, error)
}

// ClearingCandidates is implemented when payments go through a clearing account.
type ClearingCandidates interface {
	ClearingGroups(ctx context.Context, q PoolQuery) ([]PaymentGroup, error)
	ClearingPayments(ctx context.Context, q PoolQuery) ([]Payment, error)
}
