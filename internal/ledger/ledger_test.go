package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

func TestReverseLines(t *testing.T) {
	invoice := uuid.New()

	lines := []statement.MoveLineSpec{
		{AccountID: uuid.New(), Debit: decimal.RequireFromString("120.50"), Currency: "EUR"},
		{
			AccountID:            uuid.New(),
			Credit:               decimal.RequireFromString("120.50"),
			Currency:             "EUR",
			SecondCurrency:       "USD",
			AmountSecondCurrency: decimal.NewNullDecimal(decimal.RequireFromString("-130.00")),
			RelatedTo:            statement.InvoiceRef(invoice),
		},
	}

	got := reverseLines(lines)
	require.Len(t, got, 2)

	assert.True(t, got[0].Credit.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, got[0].Debit.IsZero())
	assert.False(t, got[0].AmountSecondCurrency.Valid)

	assert.True(t, got[1].Debit.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, got[1].Credit.IsZero())
	assert.True(t, got[1].AmountSecondCurrency.Decimal.Equal(decimal.RequireFromString("130.00")))
	assert.Equal(t, statement.InvoiceRef(invoice), got[1].RelatedTo)

	assert.True(t, statement.MoveSpec{Lines: got}.Balanced())

	// the input is left untouched
	assert.True(t, lines[0].Debit.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, lines[1].AmountSecondCurrency.Decimal.IsNegative())
}

func TestSettleQueries(t *testing.T) {
	tests := []struct {
		kind     statement.Kind
		want     int
		contains []string
	}{
		{kind: "none", want: 0},
		{kind: statement.KindMoveLine, want: 1, contains: []string{"move_lines"}},
		{kind: statement.KindPayment, want: 2, contains: []string{"move_lines", "payments"}},
		{kind: statement.KindPaymentGroup, want: 2, contains: []string{"group_id", "state <> 'failed'"}},
		{kind: statement.KindInvoice, want: 1, contains: []string{"invoices", "state <> 'cancelled'"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			queries := settleQueries(tt.kind)
			require.Len(t, queries, tt.want)

			for _, q := range queries {
				assert.Contains(t, q, "$1")
				assert.Contains(t, q, "$2")
			}

			joined := strings.Join(queries, "\n")
			for _, want := range tt.contains {
				assert.Contains(t, joined, want)
			}
		})
	}
}

type rowScanner []any

func (r rowScanner) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r[i].(uuid.UUID)
		case *string:
			*p = r[i].(string)
		case *int:
			*p = r[i].(int)
		case interface{ Scan(any) error }:
			if err := p.Scan(r[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

func TestScanJournal(t *testing.T) {
	synced := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	row := func(name string, lastSync any) rowScanner {
		return rowScanner{uuid.New(), name, "EUR", "acc-1", uuid.New(), 5, 7, lastSync}
	}

	s := New(nil).WithSettings(map[string]Settings{
		"Main":    {SimilarityThreshold: 3},
		"Savings": {AcceptableSimilarity: 9},
	})

	tests := []struct {
		name           string
		row            rowScanner
		wantThreshold  int
		wantAcceptable int
		wantSynced     bool
	}{
		{name: "NoOverride", row: row("Other", nil), wantThreshold: 5, wantAcceptable: 7},
		{name: "ThresholdOverride", row: row("Main", synced), wantThreshold: 3, wantAcceptable: 7, wantSynced: true},
		{name: "AcceptableOverride", row: row("Savings", nil), wantThreshold: 5, wantAcceptable: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := s.scanJournal(tt.row)
			require.NoError(t, err)

			assert.Equal(t, tt.wantThreshold, j.SimilarityThreshold)
			assert.Equal(t, tt.wantAcceptable, j.AcceptableSimilarity)

			if tt.wantSynced {
				require.NotNil(t, j.LastSync)
				assert.Equal(t, synced, *j.LastSync)
			} else {
				assert.Nil(t, j.LastSync)
			}
		})
	}
}
