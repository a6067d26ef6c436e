package matching_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/banksync/internal/matching"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

func TestBuild(t *testing.T) {
	origin := &statement.Origin{ID: uuid.New(), Currency: "EUR", Amount: decimal.RequireFromString("150")}
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Flat", func(t *testing.T) {
		rows := matching.Build(origin, []matching.Proposal{{Name: "a", Amount: decimal.NewFromInt(150), Similarity: 7, Date: date}})
		require.Len(t, rows, 1)

		assert.Nil(t, rows[0].ParentID)
		assert.Equal(t, origin.ID, rows[0].OriginID)
		assert.Equal(t, 7, rows[0].Similarity)
		assert.Equal(t, statement.SuggestionProposed, rows[0].State)
	})

	t.Run("ParentIsSumOfChildren", func(t *testing.T) {
		rows := matching.Build(origin, []matching.Proposal{{
			Name:       "group",
			Amount:     decimal.NewFromInt(999),
			Similarity: 8,
			Children: []matching.Proposal{
				{Name: "a", Amount: decimal.RequireFromString("100.25")},
				{Name: "b", Amount: decimal.RequireFromString("49.75")},
			},
		}})
		require.Len(t, rows, 3)

		parent := rows[0]
		assert.Nil(t, parent.ParentID)
		assert.True(t, parent.Amount.Equal(decimal.NewFromInt(150)), parent.Amount.String())

		tree := statement.NewTree(rows)
		assert.Len(t, tree.Children(parent.ID), 2)
		assert.True(t, tree.ChildrenSum(parent.ID).Equal(parent.Amount))
		assert.Len(t, tree.TopLevel(), 1)
	})

	t.Run("SingleChildCollapses", func(t *testing.T) {
		rows := matching.Build(origin, []matching.Proposal{{
			Name:       "group",
			Similarity: 9,
			Children:   []matching.Proposal{{Name: "only", Amount: decimal.NewFromInt(150)}},
		}})
		require.Len(t, rows, 1)

		assert.Nil(t, rows[0].ParentID)
		assert.Equal(t, "only", rows[0].Name)
		assert.Equal(t, 9, rows[0].Similarity)
	})

	t.Run("SecondCurrencyPropagates", func(t *testing.T) {
		rows := matching.Build(origin, []matching.Proposal{{
			Name: "usd",
			Children: []matching.Proposal{
				{Amount: decimal.NewFromInt(100), SecondCurrency: "USD", AmountSecondCurrency: decimal.NewNullDecimal(decimal.NewFromInt(110))},
				{Amount: decimal.NewFromInt(50), SecondCurrency: "USD", AmountSecondCurrency: decimal.NewNullDecimal(decimal.NewFromInt(55))},
			},
		}})
		require.Len(t, rows, 3)

		assert.Equal(t, "USD", rows[0].SecondCurrency)
		require.True(t, rows[0].AmountSecondCurrency.Valid)
		assert.True(t, rows[0].AmountSecondCurrency.Decimal.Equal(decimal.NewFromInt(165)))
	})

	t.Run("OriginCurrencyNotPropagated", func(t *testing.T) {
		rows := matching.Build(origin, []matching.Proposal{{
			Name: "eur",
			Children: []matching.Proposal{
				{Amount: decimal.NewFromInt(100), SecondCurrency: "EUR", AmountSecondCurrency: decimal.NewNullDecimal(decimal.NewFromInt(100))},
				{Amount: decimal.NewFromInt(50)},
			},
		}})
		require.Len(t, rows, 3)

		assert.Empty(t, rows[0].SecondCurrency)
		assert.False(t, rows[0].AmountSecondCurrency.Valid)
	})
}

func TestDedup(t *testing.T) {
	party := uuid.New()
	line := uuid.New()

	a := matching.Proposal{Name: "x", PartyID: &party, Amount: decimal.NewFromInt(10), RelatedTo: statement.MoveLineRef(line)}
	same := matching.Proposal{Name: "x", PartyID: &party, Amount: decimal.RequireFromString("10.00"), RelatedTo: statement.MoveLineRef(line)}
	other := matching.Proposal{Name: "x", PartyID: &party, Amount: decimal.NewFromInt(11), RelatedTo: statement.MoveLineRef(line)}

	got := matching.Dedup([]matching.Proposal{a, same, other})

	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, other, got[1])
}
