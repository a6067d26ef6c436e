package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

var day0 = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func newTestSearch(amount string) *search {
	pending := decimal.RequireFromString(amount)

	return &search{
		origin: &statement.Origin{
			ID:       uuid.New(),
			Amount:   pending,
			Currency: "EUR",
			Date:     day0,
		},
		pending:    pending,
		kind:       KindOf(pending),
		parties:    map[uuid.UUID]int{},
		acceptable: 6,
		window:     DefaultDateWindow,
	}
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func groupedPayment(group uuid.UUID, amount string, date time.Time) Payment {
	return Payment{
		ID:         uuid.New(),
		GroupID:    ptr(group),
		PartyID:    ptr(uuid.New()),
		AccountID:  ptr(uuid.New()),
		MoveLineID: ptr(uuid.New()),
		Kind:       KindReceivable,
		Amount:     dec(amount),
		Currency:   "EUR",
		Date:       date,
	}
}

func TestMatchClearingGroups(t *testing.T) {
	s := newTestSearch("300")
	clearing := uuid.New()

	match := PaymentGroup{ID: uuid.New(), Number: "PG-1", Kind: KindReceivable, Currency: "EUR", Date: day0, ClearingAccountID: &clearing}
	match.Payments = []Payment{groupedPayment(match.ID, "100", day0), groupedPayment(match.ID, "200", day0)}

	blocked := PaymentGroup{ID: uuid.New(), Kind: KindReceivable, Currency: "EUR", Date: day0}
	failed := groupedPayment(blocked.ID, "300", day0)
	failed.Failed = true
	blocked.Payments = []Payment{failed}

	usd := PaymentGroup{ID: uuid.New(), Kind: KindReceivable, Currency: "USD", Payments: []Payment{groupedPayment(uuid.New(), "300", day0)}}
	payable := PaymentGroup{ID: uuid.New(), Kind: KindPayable, Currency: "EUR", Payments: []Payment{groupedPayment(uuid.New(), "300", day0)}}

	excluded := PaymentGroup{ID: uuid.New(), Kind: KindReceivable, Currency: "EUR", Payments: []Payment{groupedPayment(uuid.New(), "300", day0)}}
	ex := NewExclusions()
	ex.Groups[excluded.ID] = true

	proposals, consumed := matchClearingGroups(s, []PaymentGroup{match, blocked, usd, payable, excluded}, ex)

	require.Len(t, proposals, 1)
	assert.Equal(t, statement.PaymentGroupRef(match.ID), proposals[0].RelatedTo)
	assert.Equal(t, &clearing, proposals[0].AccountID)
	assert.Equal(t, 8, proposals[0].Similarity)
	assert.True(t, proposals[0].Amount.Equal(dec("300")))

	assert.True(t, consumed.Groups[match.ID])
	for _, p := range match.Payments {
		assert.True(t, consumed.Payments[p.ID])
		assert.True(t, consumed.MoveLines[*p.MoveLineID])
	}
}

func TestMatchClearingPayments(t *testing.T) {
	s := newTestSearch("-50")

	p := groupedPayment(uuid.New(), "50", day0.AddDate(0, 0, 1))
	p.Kind = KindPayable
	s.parties[*p.PartyID] = 9

	claimed := groupedPayment(uuid.New(), "50", day0)
	claimed.Kind = KindPayable

	ex := NewExclusions()
	ex.Groups[*claimed.GroupID] = true

	proposals, consumed := matchClearingPayments(s, []Payment{claimed, p}, ex)

	require.Len(t, proposals, 1)
	assert.Equal(t, statement.PaymentRef(p.ID), proposals[0].RelatedTo)
	assert.True(t, proposals[0].Amount.Equal(dec("-50")))
	assert.Equal(t, 6+1+2, proposals[0].Similarity)
	assert.True(t, consumed.Payments[p.ID])
	assert.False(t, consumed.Payments[claimed.ID])
}

func TestMatchPaymentGroups(t *testing.T) {
	t.Run("SingleGroupBucket", func(t *testing.T) {
		s := newTestSearch("300")
		group := uuid.New()
		payments := []Payment{groupedPayment(group, "100", day0), groupedPayment(group, "200", day0)}

		proposals, consumed := matchPaymentGroups(s, payments, NewExclusions())

		require.Len(t, proposals, 1)
		p := proposals[0]
		assert.Equal(t, statement.PaymentGroupRef(group), p.RelatedTo)
		assert.Equal(t, 8, p.Similarity)
		require.Len(t, p.Children, 2)
		assert.Equal(t, statement.PaymentRef(payments[0].ID), p.Children[0].RelatedTo)
		assert.True(t, p.Children[1].Amount.Equal(dec("200")))
		assert.True(t, consumed.Groups[group])
	})

	t.Run("CombinedAcrossGroups", func(t *testing.T) {
		s := newTestSearch("-300")
		a := groupedPayment(uuid.New(), "100", day0.AddDate(0, 0, -10))
		b := groupedPayment(uuid.New(), "200", day0)
		a.Kind, b.Kind = KindPayable, KindPayable

		proposals, consumed := matchPaymentGroups(s, []Payment{b, a}, NewExclusions())

		require.Len(t, proposals, 1)
		p := proposals[0]
		assert.True(t, p.RelatedTo.IsZero())
		assert.Equal(t, 6, p.Similarity)
		assert.Equal(t, day0, p.Date)
		require.Len(t, p.Children, 2)
		assert.Equal(t, statement.PaymentRef(a.ID), p.Children[0].RelatedTo)
		assert.True(t, p.Children[0].Amount.Equal(dec("-100")))
		assert.True(t, p.Children[1].Amount.Equal(dec("-200")))
		assert.Len(t, consumed.Groups, 2)
	})

	t.Run("SinglePaymentBucketGetsPartyBoost", func(t *testing.T) {
		s := newTestSearch("300")
		match := groupedPayment(uuid.New(), "300", day0.AddDate(0, 0, 10))
		other := groupedPayment(uuid.New(), "50", day0)
		s.parties[*match.PartyID] = 4

		proposals, _ := matchPaymentGroups(s, []Payment{match, other}, NewExclusions())

		require.Len(t, proposals, 1)
		assert.Equal(t, statement.PaymentRef(match.ID), proposals[0].RelatedTo)
		assert.Empty(t, proposals[0].Children)
		assert.Equal(t, 7, proposals[0].Similarity)
	})

	t.Run("ExcludedAndIneligibleSkipped", func(t *testing.T) {
		s := newTestSearch("100")
		noLine := groupedPayment(uuid.New(), "100", day0)
		noLine.MoveLineID = nil
		failed := groupedPayment(uuid.New(), "100", day0)
		failed.Failed = true
		claimed := groupedPayment(uuid.New(), "100", day0)

		ex := NewExclusions()
		ex.MoveLines[*claimed.MoveLineID] = true

		proposals, consumed := matchPaymentGroups(s, []Payment{noLine, failed, claimed}, ex)

		assert.Empty(t, proposals)
		assert.Empty(t, consumed.Payments)
	})
}

func moveLine(amount string, document string, party *uuid.UUID, due time.Time) MoveLine {
	l := MoveLine{
		ID:           uuid.New(),
		MoveID:       uuid.New(),
		Document:     document,
		PartyID:      party,
		AccountID:    uuid.New(),
		Date:         due.AddDate(0, -1, 0),
		MaturityDate: &due,
		Description:  document,
	}

	if amount[0] == '-' {
		l.Credit = dec(amount[1:])
	} else {
		l.Debit = dec(amount)
	}

	return l
}

func TestMatchMoveLines(t *testing.T) {
	t.Run("ExactLine", func(t *testing.T) {
		s := newTestSearch("100")
		party := uuid.New()
		s.parties[party] = 10

		line := moveLine("100", "INV-1", &party, day0)
		other := moveLine("40", "INV-2", nil, day0)

		proposals, consumed := matchMoveLines(s, []MoveLine{line, other}, NewExclusions())

		require.Len(t, proposals, 1)
		p := proposals[0]
		assert.Equal(t, statement.MoveLineRef(line.ID), p.RelatedTo)
		assert.Equal(t, 10, p.Similarity)
		assert.Equal(t, &line.AccountID, p.AccountID)
		assert.True(t, consumed.MoveLines[line.ID])
		assert.False(t, consumed.MoveLines[other.ID])
	})

	t.Run("PayableUsesSignedAmount", func(t *testing.T) {
		s := newTestSearch("-75")
		line := moveLine("-75", "BILL-1", nil, day0.AddDate(0, 0, 20))

		proposals, _ := matchMoveLines(s, []MoveLine{line}, NewExclusions())

		require.Len(t, proposals, 1)
		assert.True(t, proposals[0].Amount.Equal(dec("-75")))
		assert.Equal(t, 6, proposals[0].Similarity)
	})

	t.Run("ByDocument", func(t *testing.T) {
		s := newTestSearch("100")
		a := moveLine("60", "INV-7", ptr(uuid.New()), day0)
		b := moveLine("40", "INV-7", ptr(uuid.New()), day0.AddDate(0, 0, 30))

		proposals, consumed := matchMoveLines(s, []MoveLine{a, b}, NewExclusions())

		require.Len(t, proposals, 1)
		p := proposals[0]
		assert.Equal(t, "INV-7", p.Name)
		assert.Nil(t, p.PartyID)
		assert.Equal(t, 6, p.Similarity)
		assert.Equal(t, day0, p.Date)
		require.Len(t, p.Children, 2)
		assert.Len(t, consumed.MoveLines, 2)
	})

	t.Run("ByPartySharedDueDate", func(t *testing.T) {
		s := newTestSearch("100")
		party := uuid.New()
		s.parties[party] = 7

		a := moveLine("30", "INV-1", &party, day0)
		b := moveLine("70", "INV-2", &party, day0)

		proposals, _ := matchMoveLines(s, []MoveLine{a, b}, NewExclusions())

		require.Len(t, proposals, 1)
		p := proposals[0]
		assert.Equal(t, "INV-1, INV-2", p.Name)
		assert.Equal(t, &party, p.PartyID)
		assert.Equal(t, 6+2+2, p.Similarity)
	})

	t.Run("DocumentAndPartyDuplicatesCollapse", func(t *testing.T) {
		s := newTestSearch("100")
		party := uuid.New()
		a := moveLine("30", "INV-9", &party, day0)
		b := moveLine("70", "INV-9", &party, day0)

		proposals, _ := matchMoveLines(s, []MoveLine{a, b}, NewExclusions())

		require.Len(t, proposals, 2)
		assert.Len(t, Dedup(proposals), 1)
	})

	t.Run("ExcludedLineSkipped", func(t *testing.T) {
		s := newTestSearch("100")
		line := moveLine("100", "INV-1", nil, day0)

		ex := NewExclusions()
		ex.MoveLines[line.ID] = true

		proposals, _ := matchMoveLines(s, []MoveLine{line}, ex)
		assert.Empty(t, proposals)
	})
}

func TestMatchHistory(t *testing.T) {
	account := uuid.New()
	party := uuid.New()

	t.Run("SingleLineTakesPending", func(t *testing.T) {
		s := newTestSearch("-42.10")
		history := []HistoricalOrigin{{
			Remittance: "ELECTRICITY",
			Similarity: 8,
			Amount:     dec("-39.90"),
			Lines:      []HistoricalLine{{PartyID: &party, AccountID: &account, Amount: dec("-39.90"), Description: "Power"}},
		}}

		proposals := matchHistory(s, history, 5)

		require.Len(t, proposals, 1)
		p := proposals[0]
		assert.True(t, p.Amount.Equal(dec("-42.10")))
		assert.Equal(t, "Power", p.Name)
		assert.Equal(t, 8, p.Similarity)
		assert.True(t, p.RelatedTo.IsZero())
		assert.Equal(t, &account, p.AccountID)
	})

	t.Run("MultiLineProportional", func(t *testing.T) {
		s := newTestSearch("100")
		history := []HistoricalOrigin{{
			Remittance: "RENT",
			Similarity: 7,
			Amount:     dec("300"),
			Lines: []HistoricalLine{
				{AccountID: &account, Amount: dec("100")},
				{AccountID: &account, Amount: dec("200")},
			},
		}}

		proposals := matchHistory(s, history, 5)

		require.Len(t, proposals, 1)
		require.Len(t, proposals[0].Children, 2)
		assert.True(t, proposals[0].Children[0].Amount.Equal(dec("33.33")))
		assert.True(t, proposals[0].Children[1].Amount.Equal(dec("66.67")))
		assert.Equal(t, "RENT", proposals[0].Children[0].Name)
	})

	t.Run("BelowThresholdOrEmpty", func(t *testing.T) {
		s := newTestSearch("10")
		history := []HistoricalOrigin{
			{Similarity: 3, Amount: dec("10"), Lines: []HistoricalLine{{Amount: dec("10")}}},
			{Similarity: 9, Amount: dec("10")},
		}

		assert.Empty(t, matchHistory(s, history, 5))
	})
}
