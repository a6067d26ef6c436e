package statement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

func TestBuildMove(t *testing.T) {
	journal := &statement.Journal{ID: uuid.New(), AccountID: uuid.New()}
	origin := &statement.Origin{ID: uuid.New(), StatementID: uuid.New(), EntryReference: "ref-42", Currency: "EUR"}
	account := uuid.New()
	invoice := uuid.New()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Incoming", func(t *testing.T) {
		line := &statement.Line{
			ID:          uuid.New(),
			Date:        date,
			Amount:      decimal.RequireFromString("120.50"),
			AccountID:   &account,
			RelatedTo:   statement.InvoiceRef(invoice),
			Description: "INV 12",
		}

		spec, err := statement.BuildMove(journal, origin, line)
		require.NoError(t, err)
		require.Len(t, spec.Lines, 2)
		assert.True(t, spec.Balanced())

		bank, counterpart := spec.Lines[0], spec.Lines[1]
		assert.Equal(t, journal.AccountID, bank.AccountID)
		assert.True(t, bank.Debit.Equal(line.Amount))
		assert.True(t, bank.Credit.IsZero())
		assert.Equal(t, account, counterpart.AccountID)
		assert.True(t, counterpart.Credit.Equal(line.Amount))
		assert.Equal(t, statement.InvoiceRef(invoice), counterpart.RelatedTo)
		assert.Equal(t, origin.ID, spec.OriginID)
		assert.Equal(t, "ref-42", spec.OriginReference)
		assert.Equal(t, line.ID, spec.LineID)
		assert.Equal(t, date, spec.Date)
	})

	t.Run("Outgoing", func(t *testing.T) {
		line := &statement.Line{ID: uuid.New(), Date: date, Amount: decimal.NewFromInt(-80), AccountID: &account}

		spec, err := statement.BuildMove(journal, origin, line)
		require.NoError(t, err)
		assert.True(t, spec.Balanced())
		assert.True(t, spec.Lines[0].Credit.Equal(decimal.NewFromInt(80)))
		assert.True(t, spec.Lines[1].Debit.Equal(decimal.NewFromInt(80)))
	})

	t.Run("MissingAccount", func(t *testing.T) {
		_, err := statement.BuildMove(journal, origin, &statement.Line{ID: uuid.New(), Amount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, statement.ErrMissingAccount)
	})
}

func TestMoveSpec_Balanced(t *testing.T) {
	spec := statement.MoveSpec{Lines: []statement.MoveLineSpec{
		{Debit: decimal.NewFromInt(10)},
		{Credit: decimal.NewFromInt(9)},
	}}
	assert.False(t, spec.Balanced())
}
