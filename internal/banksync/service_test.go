package banksync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/banksync/internal/matching"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

var syncTime = time.Date(2024, 7, 20, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type mocks struct {
	client    *MockClient
	journals  *MockJournals
	importer  *MockImporter
	suggester *MockSuggester
}

func newTestService(t *testing.T, cfg Config) (*Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		client:    NewMockClient(ctrl),
		journals:  NewMockJournals(ctrl),
		importer:  NewMockImporter(ctrl),
		suggester: NewMockSuggester(ctrl),
	}

	svc := NewService(m.client, m.journals, m.importer, m.suggester, cfg)
	svc.now = func() time.Time { return syncTime }

	return svc, m
}

func TestService_Sync(t *testing.T) {
	lastSync := time.Date(2024, 7, 10, 18, 0, 0, 0, time.UTC)
	journal := &statement.Journal{
		ID:             uuid.New(),
		Name:           "Main",
		Currency:       "EUR",
		BankAccountUID: "acc-1",
		LastSync:       &lastSync,
	}

	t.Run("PagesImportsAndSuggests", func(t *testing.T) {
		svc, m := newTestService(t, Config{OffsetDays: 2})

		m.journals.EXPECT().Journal(gomock.Any(), journal.ID).Return(journal, nil)

		gomock.InOrder(
			m.client.EXPECT().
				Transactions(gomock.Any(), "acc-1", TransactionQuery{DateFrom: *day(2024, 7, 8)}).
				Return(&Page{
					Transactions: []Transaction{{
						EntryReference: "r1", Amount: decimal.RequireFromString("12.50"), Currency: "EUR",
						Indicator: Credit, BookingDate: day(2024, 7, 11),
					}},
					ContinuationKey: "next",
				}, nil),
			m.client.EXPECT().
				Transactions(gomock.Any(), "acc-1", TransactionQuery{DateFrom: *day(2024, 7, 8), ContinuationKey: "next"}).
				Return(&Page{Transactions: []Transaction{{
					EntryReference: "r2", Amount: decimal.RequireFromString("40"), Currency: "eur",
					Indicator: Debit, ValueDate: day(2024, 7, 12),
				}}}, nil),
		)

		var stored []*statement.Origin

		m.importer.EXPECT().
			ImportOrigins(gomock.Any(), gomock.Any(), gomock.Len(2)).
			DoAndReturn(func(_ context.Context, st *statement.Statement, origins []*statement.Origin) (*statement.ImportResult, error) {
				assert.Equal(t, journal.ID, st.JournalID)
				stored = origins

				return &statement.ImportResult{Statement: st, Imported: origins[1:], Skipped: []string{"r1"}}, nil
			})
		m.journals.EXPECT().MarkSynced(gomock.Any(), journal.ID, syncTime).Return(nil)

		m.suggester.EXPECT().
			Search(gomock.Any(), gomock.Len(1)).
			Return([]matching.Outcome{{Suggestions: 1}}, nil)

		res, err := svc.Sync(context.Background(), journal.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Imported)
		assert.Equal(t, 1, res.Skipped)
		assert.Len(t, res.Outcomes, 1)

		require.Len(t, stored, 2)
		assert.True(t, stored[0].Amount.Equal(decimal.RequireFromString("12.50")))
		assert.True(t, stored[1].Amount.Equal(decimal.NewFromInt(-40)))
		assert.Equal(t, *day(2024, 7, 12), stored[1].Date)
	})

	t.Run("NothingNew", func(t *testing.T) {
		svc, m := newTestService(t, Config{})

		m.journals.EXPECT().Journal(gomock.Any(), journal.ID).Return(journal, nil)
		m.client.EXPECT().Transactions(gomock.Any(), "acc-1", gomock.Any()).Return(&Page{}, nil)
		m.importer.EXPECT().ImportOrigins(gomock.Any(), gomock.Any(), gomock.Any()).Return(&statement.ImportResult{}, nil)
		m.journals.EXPECT().MarkSynced(gomock.Any(), journal.ID, syncTime).Return(nil)

		res, err := svc.Sync(context.Background(), journal.ID)
		require.NoError(t, err)
		assert.Zero(t, res.Imported)
		assert.Nil(t, res.Outcomes)
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		svc, m := newTestService(t, Config{})

		m.journals.EXPECT().Journal(gomock.Any(), journal.ID).Return(journal, nil)
		m.client.EXPECT().Transactions(gomock.Any(), "acc-1", gomock.Any()).Return(&Page{
			Transactions: []Transaction{{EntryReference: "r1", Amount: decimal.NewFromInt(1), Currency: "USD"}},
		}, nil)

		_, err := svc.Sync(context.Background(), journal.ID)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		svc, m := newTestService(t, Config{})

		m.journals.EXPECT().Journal(gomock.Any(), journal.ID).Return(journal, nil)
		m.client.EXPECT().Transactions(gomock.Any(), "acc-1", gomock.Any()).
			Return(nil, &UpstreamError{Status: 401, Message: "session expired"})

		_, err := svc.Sync(context.Background(), journal.ID)

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, 401, upstream.Status)
	})

	t.Run("NoBankAccount", func(t *testing.T) {
		svc, m := newTestService(t, Config{})

		unlinked := *journal
		unlinked.BankAccountUID = ""
		m.journals.EXPECT().Journal(gomock.Any(), journal.ID).Return(&unlinked, nil)

		_, err := svc.Sync(context.Background(), journal.ID)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestService_origin(t *testing.T) {
	journal := &statement.Journal{ID: uuid.New(), Currency: "EUR"}

	tx := Transaction{
		TransactionID:         "tx-9",
		Amount:                decimal.RequireFromString("-99.999"),
		Currency:              "EUR",
		Indicator:             Credit,
		BookingDate:           day(2024, 1, 3),
		ValueDate:             day(2024, 1, 4),
		RemittanceInformation: []string{"INV 1", "ACME"},
		DebtorName:            "Acme Corp",
		BankTransactionCode:   "PMNT",
	}

	tests := []struct {
		name     string
		field    DateField
		wantDate time.Time
	}{
		{name: "BookingDate", field: BookingDate, wantDate: *day(2024, 1, 3)},
		{name: "ValueDate", field: ValueDate, wantDate: *day(2024, 1, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, Config{DateField: tt.field})

			o, err := svc.origin(journal, tx)
			require.NoError(t, err)

			assert.Equal(t, "tx-9", o.EntryReference)
			assert.True(t, o.Amount.Equal(decimal.RequireFromString("100.00")))
			assert.Equal(t, tt.wantDate, o.Date)
			assert.Equal(t, map[string]string{
				statement.InfoRemittance:          "INV 1 ACME",
				statement.InfoDebtorName:          "Acme Corp",
				statement.InfoBankTransactionCode: "PMNT",
			}, o.Information)
		})
	}

	t.Run("FallsBackToOtherDate", func(t *testing.T) {
		svc, _ := newTestService(t, Config{DateField: ValueDate})

		o, err := svc.origin(journal, Transaction{Amount: decimal.NewFromInt(1), Currency: "EUR", BookingDate: day(2024, 2, 2)})
		require.NoError(t, err)
		assert.Equal(t, *day(2024, 2, 2), o.Date)
	})
}
