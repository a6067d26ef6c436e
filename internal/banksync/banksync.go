// Package banksync turns transactions fetched from an open-banking
// aggregator into statement origins.
package banksync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/banksync/internal/matching"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

var (
	ErrCurrencyMismatch = errors.New("transaction currency differs from the journal currency")
	ErrAccountNotFound  = errors.New("journal has no bank account linked to the aggregator")
)

// UpstreamError is a non-success answer from the aggregator.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("aggregator returned %d: %s", e.Status, e.Message)
}

// DateField selects which transaction date becomes the origin date.
type DateField string

const (
	BookingDate DateField = "booking_date"
	ValueDate   DateField = "value_date"
)

// Indicator tells whether money entered or left the account.
type Indicator string

const (
	Credit Indicator = "CRDT"
	Debit  Indicator = "DBIT"
)

// Transaction is one account movement as reported by the aggregator.
type Transaction struct {
	EntryReference        string
	TransactionID         string
	Amount                decimal.Decimal
	Currency              string
	Indicator             Indicator
	BookingDate           *time.Time
	ValueDate             *time.Time
	RemittanceInformation []string
	DebtorName            string
	CreditorName          string
	BankTransactionCode   string
}

type TransactionQuery struct {
	DateFrom        time.Time
	ContinuationKey string
}

// Page is one response of the paginated transactions endpoint. An empty
// ContinuationKey marks the last page.
type Page struct {
	Transactions    []Transaction
	ContinuationKey string
}

//go:generate mockgen -source=banksync.go -destination=banksync_mock.go -package=banksync

type Client interface {
	Transactions(ctx context.Context, accountUID string, q TransactionQuery) (*Page, error)
}

type Journals interface {
	Journal(ctx context.Context, id uuid.UUID) (*statement.Journal, error)
	MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Importer stores new origins, skipping references the journal already has.
type Importer interface {
	ImportOrigins(ctx context.Context, st *statement.Statement, origins []*statement.Origin) (*statement.ImportResult, error)
}

// Suggester computes reconciliation suggestions for stored origins.
type Suggester interface {
	Search(ctx context.Context, ids []uuid.UUID) ([]matching.Outcome, error)
}
