package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Information keys set by the synchronization.
const (
	InfoRemittance          = "remittance_information"
	InfoDebtorName          = "debtor_name"
	InfoCreditorName        = "creditor_name"
	InfoBankTransactionCode = "bank_transaction_code"
)

// Statement groups the origins fetched for one journal in one period.
type Statement struct {
	ID           uuid.UUID
	JournalID    uuid.UUID
	Name         string
	Date         time.Time
	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal
	State        string
	CreatedAt    time.Time
}

// Origin is a bank transaction pending reconciliation.
type Origin struct {
	ID             uuid.UUID
	StatementID    uuid.UUID
	JournalID      uuid.UUID
	EntryReference string
	Amount         decimal.Decimal
	Currency       string
	Date           time.Time
	Information    map[string]string
	State          OriginState
	Lines          []*Line
	Suggestions    []*SuggestedLine
	CreatedAt      time.Time
}

// PendingAmount is the part of the amount not yet allocated to lines.
func (o *Origin) PendingAmount() decimal.Decimal {
	pending := o.Amount
	for _, l := range o.Lines {
		pending = pending.Sub(l.Amount)
	}

	return pending
}

// RemittanceInformation returns the free text sent with the transfer.
func (o *Origin) RemittanceInformation() string {
	return strings.TrimSpace(o.Information[InfoRemittance])
}

// PartyHint returns the counterparty name to look parties up with.
func (o *Origin) PartyHint() string {
	key := InfoCreditorName
	if o.Amount.IsPositive() {
		key = InfoDebtorName
	}

	if name := strings.TrimSpace(o.Information[key]); name != "" {
		return name
	}

	return o.RemittanceInformation()
}

// Deletable reports whether the origin may be removed.
func (o *Origin) Deletable() bool {
	return o.State == OriginRegistered || o.State == OriginCancelled
}

// Tree returns the suggestion arena of the origin.
func (o *Origin) Tree() *Tree {
	return NewTree(o.Suggestions)
}

// Line is an amount of an origin allocated to an accounting target.
type Line struct {
	ID                   uuid.UUID
	OriginID             uuid.UUID
	StatementID          uuid.UUID
	Date                 time.Time
	Amount               decimal.Decimal
	SecondCurrency       string
	AmountSecondCurrency decimal.NullDecimal
	PartyID              *uuid.UUID
	AccountID            *uuid.UUID
	RelatedTo            RelatedTo
	Description          string
	SuggestionID         *uuid.UUID
	MoveID               *uuid.UUID
	CreatedAt            time.Time
}

// SuggestedLine is a reconciliation candidate proposed for an origin.
type SuggestedLine struct {
	ID                   uuid.UUID
	OriginID             uuid.UUID
	ParentID             *uuid.UUID
	Name                 string
	PartyID              *uuid.UUID
	AccountID            *uuid.UUID
	Date                 time.Time
	Amount               decimal.Decimal
	SecondCurrency       string
	AmountSecondCurrency decimal.NullDecimal
	RelatedTo            RelatedTo
	Similarity           int
	State                SuggestionState
}

// Kind enumerates the accounting entities a line can be related to.
type Kind string

const (
	KindNone         Kind = ""
	KindInvoice      Kind = "invoice"
	KindPayment      Kind = "payment"
	KindPaymentGroup Kind = "payment_group"
	KindMoveLine     Kind = "move_line"
)

// RelatedTo references the accounting entity a line settles.
type RelatedTo struct {
	Kind Kind
	ID   uuid.UUID
}

func InvoiceRef(id uuid.UUID) RelatedTo      { return RelatedTo{Kind: KindInvoice, ID: id} }
func PaymentRef(id uuid.UUID) RelatedTo      { return RelatedTo{Kind: KindPayment, ID: id} }
func PaymentGroupRef(id uuid.UUID) RelatedTo { return RelatedTo{Kind: KindPaymentGroup, ID: id} }
func MoveLineRef(id uuid.UUID) RelatedTo     { return RelatedTo{Kind: KindMoveLine, ID: id} }

func (r RelatedTo) IsZero() bool {
	return r.Kind == KindNone
}

// Validate checks that a set reference has a known kind and an id.
func (r RelatedTo) Validate() error {
	switch r.Kind {
	case KindNone:
		return nil
	case KindInvoice, KindPayment, KindPaymentGroup, KindMoveLine:
	default:
		return fmt.Errorf("unknown reference kind %q", r.Kind)
	}

	if r.ID == uuid.Nil {
		return fmt.Errorf("%s reference without id", r.Kind)
	}

	return nil
}

// String formats the reference as "kind:id", or "" when unset.
func (r RelatedTo) String() string {
	if r.IsZero() {
		return ""
	}

	return string(r.Kind) + ":" + r.ID.String()
}

// ParseRelatedTo parses the "kind:id" form produced by String.
func ParseRelatedTo(s string) (RelatedTo, error) {
	if s == "" {
		return RelatedTo{}, nil
	}

	kind, rawID, ok := strings.Cut(s, ":")
	if !ok {
		return RelatedTo{}, fmt.Errorf("malformed reference %q", s)
	}

	switch Kind(kind) {
	case KindInvoice, KindPayment, KindPaymentGroup, KindMoveLine:
	default:
		return RelatedTo{}, fmt.Errorf("unknown reference kind %q", kind)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return RelatedTo{}, fmt.Errorf("parsing reference id: %w", err)
	}

	return RelatedTo{Kind: Kind(kind), ID: id}, nil
}
