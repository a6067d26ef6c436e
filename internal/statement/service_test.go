package statement_test

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

	"github.com/MrJamesThe3rd/banksync/internal/statement"
	"github.com/MrJamesThe3rd/banksync/internal/statement/statementtest"
)

var originDate = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *statementtest.Repository
	ledger  *statement.MockLedger
	journal *statement.Journal
	svc     *statement.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	journal := &statement.Journal{ID: uuid.New(), Currency: "EUR", AccountID: uuid.New()}

	journals := statement.NewMockJournals(ctrl)
	journals.EXPECT().Journal(gomock.Any(), journal.ID).Return(journal, nil).AnyTimes()

	repo := statementtest.NewRepository()
	ledger := statement.NewMockLedger(ctrl)

	return &fixture{
		repo:    repo,
		ledger:  ledger,
		journal: journal,
		svc:     statement.NewService(repo, ledger, journals),
	}
}

// allocated adds a registered origin of amount with one line covering it.
func (f *fixture) allocated(amount string, related statement.RelatedTo) *statement.Origin {
	account := uuid.New()

	return f.repo.AddOrigin(&statement.Origin{
		JournalID:   f.journal.ID,
		StatementID: uuid.New(),
		Amount:      decimal.RequireFromString(amount),
		Currency:    "EUR",
		Date:        originDate,
		Lines: []*statement.Line{{
			Amount:    decimal.RequireFromString(amount),
			AccountID: &account,
			RelatedTo: related,
		}},
	})
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *statement.Origin {
	t.Helper()

	o, err := f.repo.GetOrigin(context.Background(), id)
	require.NoError(t, err)

	return o
}

func TestService_List(t *testing.T) {
	journalID := uuid.New()

	type testCase struct {
		name      string
		filter    statement.ListFilter
		setupMock func(m *statement.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			filter: statement.ListFilter{JournalID: &journalID},
			setupMock: func(m *statement.MockRepository) {
				m.EXPECT().
					ListOrigins(gomock.Any(), statement.ListFilter{JournalID: &journalID}).
					Return([]*statement.Origin{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "RepoError",
			setupMock: func(m *statement.MockRepository) {
				m.EXPECT().
					ListOrigins(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := statement.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := statement.NewService(repo, statement.NewMockLedger(ctrl), statement.NewMockJournals(ctrl))
			got, err := svc.List(context.Background(), tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_ImportOrigins(t *testing.T) {
	t.Run("SkipsKnownReferences", func(t *testing.T) {
		f := newFixture(t)
		f.repo.AddOrigin(&statement.Origin{JournalID: f.journal.ID, EntryReference: "known"})

		st := &statement.Statement{JournalID: f.journal.ID, Name: "sync"}
		res, err := f.svc.ImportOrigins(context.Background(), st, []*statement.Origin{
			{EntryReference: "known", Amount: decimal.NewFromInt(1)},
			{EntryReference: "new", Amount: decimal.NewFromInt(2)},
			{EntryReference: "new", Amount: decimal.NewFromInt(2)},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"known", "new"}, res.Skipped)
		require.Len(t, res.Imported, 1)
		require.NotNil(t, res.Statement)

		got := f.reload(t, res.Imported[0].ID)
		assert.Equal(t, statement.OriginRegistered, got.State)
		assert.Equal(t, st.ID, got.StatementID)
		assert.Len(t, f.repo.Statements(), 1)
	})

	t.Run("NothingNew", func(t *testing.T) {
		f := newFixture(t)
		f.repo.AddOrigin(&statement.Origin{JournalID: f.journal.ID, EntryReference: "known"})

		res, err := f.svc.ImportOrigins(context.Background(), &statement.Statement{JournalID: f.journal.ID},
			[]*statement.Origin{{EntryReference: "known"}})
		require.NoError(t, err)

		assert.Nil(t, res.Statement)
		assert.Empty(t, f.repo.Statements())
	})

	t.Run("BeginError", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		repo := statement.NewMockRepository(ctrl)
		repo.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("db down"))

		svc := statement.NewService(repo, statement.NewMockLedger(ctrl), statement.NewMockJournals(ctrl))
		_, err := svc.ImportOrigins(context.Background(), &statement.Statement{}, []*statement.Origin{{EntryReference: "a"}})
		assert.Error(t, err)
	})
}

func TestService_Post(t *testing.T) {
	t.Run("PostsEveryLine", func(t *testing.T) {
		f := newFixture(t)
		o := f.allocated("75.00", statement.RelatedTo{})

		f.ledger.EXPECT().ValidateStatement(gomock.Any(), o.StatementID).Return(nil)

		require.NoError(t, f.svc.Post(context.Background(), []uuid.UUID{o.ID}, false))

		moves := f.repo.PostedMoves()
		require.Len(t, moves, 1)
		assert.Equal(t, o.ID, moves[0].Spec.OriginID)
		assert.Equal(t, originDate, moves[0].Spec.Date)
		assert.True(t, moves[0].Spec.Balanced())

		got := f.reload(t, o.ID)
		assert.Equal(t, statement.OriginPosted, got.State)
		require.NotNil(t, got.Lines[0].MoveID)
		assert.Equal(t, moves[0].ID, *got.Lines[0].MoveID)
	})

	t.Run("AmountMismatch", func(t *testing.T) {
		f := newFixture(t)
		o := f.allocated("75.00", statement.RelatedTo{})
		o.Amount = decimal.NewFromInt(80)
		f.repo.AddOrigin(o)

		err := f.svc.Post(context.Background(), []uuid.UUID{o.ID}, false)
		require.ErrorIs(t, err, statement.ErrAmountMismatch)
		assert.Equal(t, statement.OriginRegistered, f.reload(t, o.ID).State)
		assert.Empty(t, f.repo.PostedMoves())
	})

	t.Run("PaidInvoiceNeedsConfirmation", func(t *testing.T) {
		f := newFixture(t)
		invoice := uuid.New()
		o := f.allocated("40.00", statement.InvoiceRef(invoice))

		f.ledger.EXPECT().
			InvoiceStates(gomock.Any(), []uuid.UUID{invoice}).
			Return(map[uuid.UUID]statement.InvoiceState{invoice: statement.InvoicePaid}, nil).
			Times(2)

		err := f.svc.Post(context.Background(), []uuid.UUID{o.ID}, false)
		require.Error(t, err)
		assert.True(t, statement.IsWarning(err))
		assert.Equal(t, statement.OriginRegistered, f.reload(t, o.ID).State)

		f.ledger.EXPECT().ValidateStatement(gomock.Any(), o.StatementID).Return(errors.New("other origins open"))

		require.NoError(t, f.svc.Post(context.Background(), []uuid.UUID{o.ID}, true))

		moves := f.repo.PostedMoves()
		require.Len(t, moves, 1)
		assert.True(t, moves[0].Spec.Lines[1].RelatedTo.IsZero())

		got := f.reload(t, o.ID)
		assert.Equal(t, statement.OriginPosted, got.State)
		assert.True(t, got.Lines[0].RelatedTo.IsZero())
	})

	t.Run("LedgerFailureRollsBack", func(t *testing.T) {
		f := newFixture(t)
		o := f.allocated("10.00", statement.RelatedTo{})
		f.repo.MoveFailure = func(int) error { return errors.New("ledger closed") }

		require.Error(t, f.svc.Post(context.Background(), []uuid.UUID{o.ID}, false))

		got := f.reload(t, o.ID)
		assert.Equal(t, statement.OriginRegistered, got.State)
		assert.Nil(t, got.Lines[0].MoveID)
		assert.Empty(t, f.repo.PostedMoves())
	})

	t.Run("PartialFailureKeepsLedgerConsistent", func(t *testing.T) {
		f := newFixture(t)
		o := f.splitOrigin("100.00", "60.00", "40.00")

		f.repo.MoveFailure = func(n int) error {
			if n == 2 {
				return errors.New("ledger closed")
			}

			return nil
		}

		require.Error(t, f.svc.Post(context.Background(), []uuid.UUID{o.ID}, false))
		assert.Empty(t, f.repo.PostedMoves())

		got := f.reload(t, o.ID)
		assert.Equal(t, statement.OriginRegistered, got.State)
		for _, l := range got.Lines {
			assert.Nil(t, l.MoveID)
		}

		f.repo.MoveFailure = nil
		f.ledger.EXPECT().ValidateStatement(gomock.Any(), o.StatementID).Return(nil)

		require.NoError(t, f.svc.Post(context.Background(), []uuid.UUID{o.ID}, false))
		assert.Len(t, f.repo.PostedMoves(), 2)
	})
}

// splitOrigin adds a registered origin of amount allocated by one line per
// entry of parts.
func (f *fixture) splitOrigin(amount string, parts ...string) *statement.Origin {
	o := &statement.Origin{
		JournalID:   f.journal.ID,
		StatementID: uuid.New(),
		Amount:      decimal.RequireFromString(amount),
		Currency:    "EUR",
		Date:        originDate,
	}

	for _, p := range parts {
		account := uuid.New()
		o.Lines = append(o.Lines, &statement.Line{Amount: decimal.RequireFromString(p), AccountID: &account})
	}

	return f.repo.AddOrigin(o)
}

// postedOrigin adds a posted origin whose lines each carry a committed move.
func (f *fixture) postedOrigin(amount string, parts ...string) *statement.Origin {
	o := f.splitOrigin(amount, parts...)
	o.State = statement.OriginPosted

	for _, l := range o.Lines {
		id := f.repo.AddMove(statement.MoveSpec{JournalID: f.journal.ID, OriginID: o.ID, Date: originDate})
		l.MoveID = &id
	}

	return f.repo.AddOrigin(o)
}

func reversals(moves []statementtest.Move) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)

	for _, m := range moves {
		if m.ReversalOf != nil {
			out[*m.ReversalOf]++
		}
	}

	return out
}

func TestService_Cancel(t *testing.T) {
	t.Run("ReversesPostedMoves", func(t *testing.T) {
		f := newFixture(t)
		o := f.postedOrigin("60.00", "60.00")
		moveID := *o.Lines[0].MoveID

		err := f.svc.Cancel(context.Background(), []uuid.UUID{o.ID}, false)
		require.Error(t, err)
		assert.True(t, statement.IsWarning(err))

		require.NoError(t, f.svc.Cancel(context.Background(), []uuid.UUID{o.ID}, true))

		assert.Equal(t, map[uuid.UUID]int{moveID: 1}, reversals(f.repo.PostedMoves()))

		got := f.reload(t, o.ID)
		assert.Equal(t, statement.OriginCancelled, got.State)
		require.Len(t, got.Lines, 1)
		assert.Nil(t, got.Lines[0].MoveID)
	})

	t.Run("PartialFailureReversesEachMoveOnce", func(t *testing.T) {
		f := newFixture(t)
		o := f.postedOrigin("100.00", "60.00", "40.00")
		first, second := *o.Lines[0].MoveID, *o.Lines[1].MoveID

		f.repo.MoveFailure = func(n int) error {
			if n == 2 {
				return errors.New("ledger closed")
			}

			return nil
		}

		require.Error(t, f.svc.Cancel(context.Background(), []uuid.UUID{o.ID}, true))
		assert.Empty(t, reversals(f.repo.PostedMoves()))
		assert.Equal(t, statement.OriginPosted, f.reload(t, o.ID).State)

		f.repo.MoveFailure = nil

		require.NoError(t, f.svc.Cancel(context.Background(), []uuid.UUID{o.ID}, true))
		assert.Equal(t, map[uuid.UUID]int{first: 1, second: 1}, reversals(f.repo.PostedMoves()))
	})
}

func TestService_Register(t *testing.T) {
	f := newFixture(t)

	cancelled := f.allocated("5.00", statement.RelatedTo{})
	cancelled.State = statement.OriginCancelled
	f.repo.AddOrigin(cancelled)

	registered := f.allocated("5.00", statement.RelatedTo{})

	require.NoError(t, f.svc.Register(context.Background(), []uuid.UUID{cancelled.ID}))
	assert.Equal(t, statement.OriginRegistered, f.reload(t, cancelled.ID).State)

	err := f.svc.Register(context.Background(), []uuid.UUID{registered.ID})
	assert.ErrorIs(t, err, statement.ErrInvalidTransition)
}

func TestService_Delete(t *testing.T) {
	f := newFixture(t)

	posted := f.allocated("5.00", statement.RelatedTo{})
	posted.State = statement.OriginPosted
	f.repo.AddOrigin(posted)

	registered := f.allocated("5.00", statement.RelatedTo{})

	err := f.svc.Delete(context.Background(), []uuid.UUID{registered.ID, posted.ID})
	require.ErrorIs(t, err, statement.ErrNotDeletable)

	_, err = f.repo.GetOrigin(context.Background(), registered.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), []uuid.UUID{registered.ID}))

	_, err = f.repo.GetOrigin(context.Background(), registered.ID)
	assert.ErrorIs(t, err, statement.ErrNotFound)
}

func TestService_UseAndProposeSuggestions(t *testing.T) {
	f := newFixture(t)

	o, parent, _, _, _ := groupedOrigin()
	o.JournalID = f.journal.ID
	f.repo.AddOrigin(o)

	lines, err := f.svc.UseSuggestions(context.Background(), o.ID, []uuid.UUID{parent.ID})
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	got := f.reload(t, o.ID)
	assert.True(t, got.PendingAmount().IsZero())

	used := 0
	for _, s := range got.Suggestions {
		if s.State == statement.SuggestionUsed {
			used++
		}
	}

	assert.Equal(t, 3, used)

	require.NoError(t, f.svc.ProposeSuggestions(context.Background(), o.ID, []uuid.UUID{parent.ID}))

	got = f.reload(t, o.ID)
	tree := got.Tree()
	p, _ := tree.Get(parent.ID)
	assert.Equal(t, statement.SuggestionProposed, p.State)
}

func TestService_CreateLines(t *testing.T) {
	t.Run("AllocatesAndPosts", func(t *testing.T) {
		f := newFixture(t)
		invoice := uuid.New()
		account := uuid.New()

		o := f.repo.AddOrigin(&statement.Origin{
			JournalID:      f.journal.ID,
			StatementID:    uuid.New(),
			EntryReference: "bank-1",
			Amount:         decimal.RequireFromString("90.00"),
			Currency:       "EUR",
			Date:           originDate,
			Information:    map[string]string{statement.InfoRemittance: "INV 90"},
		})

		lines, err := f.svc.CreateLines(context.Background(), o.ID, []*statement.Line{{
			Amount:    decimal.RequireFromString("90.00"),
			AccountID: &account,
			RelatedTo: statement.InvoiceRef(invoice),
		}})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, o.ID, lines[0].OriginID)
		assert.Equal(t, originDate, lines[0].Date)
		assert.Equal(t, "INV 90", lines[0].Description)
		assert.Nil(t, lines[0].SuggestionID)

		got := f.reload(t, o.ID)
		require.Len(t, got.Lines, 1)
		assert.True(t, got.PendingAmount().IsZero())

		f.ledger.EXPECT().
			InvoiceStates(gomock.Any(), []uuid.UUID{invoice}).
			Return(map[uuid.UUID]statement.InvoiceState{invoice: statement.InvoicePosted}, nil)
		f.ledger.EXPECT().ValidateStatement(gomock.Any(), o.StatementID).Return(nil)

		require.NoError(t, f.svc.Post(context.Background(), []uuid.UUID{o.ID}, false))

		moves := f.repo.PostedMoves()
		require.Len(t, moves, 1)
		assert.Equal(t, statement.InvoiceRef(invoice), moves[0].Spec.Lines[1].RelatedTo)
		assert.Equal(t, "bank-1", moves[0].Spec.OriginReference)
	})

	t.Run("Invalid", func(t *testing.T) {
		account := uuid.New()

		tests := []struct {
			name    string
			line    *statement.Line
			wantErr error
		}{
			{"ZeroAmount", &statement.Line{AccountID: &account}, statement.ErrInvalidLine},
			{"NoAccount", &statement.Line{Amount: decimal.NewFromInt(5)}, statement.ErrMissingAccount},
			{
				"UnknownKind",
				&statement.Line{Amount: decimal.NewFromInt(5), AccountID: &account, RelatedTo: statement.RelatedTo{Kind: "sale", ID: uuid.New()}},
				statement.ErrInvalidLine,
			},
			{
				"MissingReferenceID",
				&statement.Line{Amount: decimal.NewFromInt(5), AccountID: &account, RelatedTo: statement.RelatedTo{Kind: statement.KindInvoice}},
				statement.ErrInvalidLine,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				o := f.splitOrigin("5.00")

				_, err := f.svc.CreateLines(context.Background(), o.ID, []*statement.Line{tt.line})
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.reload(t, o.ID).Lines)
			})
		}
	})

	t.Run("PostedOriginIsLocked", func(t *testing.T) {
		f := newFixture(t)
		o := f.postedOrigin("5.00", "5.00")
		account := uuid.New()

		_, err := f.svc.CreateLines(context.Background(), o.ID, []*statement.Line{{Amount: decimal.NewFromInt(1), AccountID: &account}})
		assert.ErrorIs(t, err, statement.ErrOriginLocked)
	})
}

func TestService_ReuseAfterDeletingOneLine(t *testing.T) {
	f := newFixture(t)

	o, parent, first, _, _ := groupedOrigin()
	o.JournalID = f.journal.ID
	f.repo.AddOrigin(o)

	lines, err := f.svc.UseSuggestions(context.Background(), o.ID, []uuid.UUID{parent.ID})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var firstLine uuid.UUID
	for _, l := range lines {
		if *l.SuggestionID == first.ID {
			firstLine = l.ID
		}
	}

	require.NoError(t, f.svc.DeleteLines(context.Background(), o.ID, []uuid.UUID{firstLine}, false))

	lines, err = f.svc.UseSuggestions(context.Background(), o.ID, []uuid.UUID{parent.ID})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, first.ID, *lines[0].SuggestionID)

	got := f.reload(t, o.ID)
	assert.Len(t, got.Lines, 2)
	assert.True(t, got.PendingAmount().IsZero())
}

func TestService_DeleteLines(t *testing.T) {
	t.Run("PostedOriginIsLocked", func(t *testing.T) {
		f := newFixture(t)
		o := f.allocated("5.00", statement.RelatedTo{})
		o.State = statement.OriginPosted
		f.repo.AddOrigin(o)

		err := f.svc.DeleteLines(context.Background(), o.ID, []uuid.UUID{o.Lines[0].ID}, true)
		assert.ErrorIs(t, err, statement.ErrOriginLocked)
	})

	t.Run("UnknownLine", func(t *testing.T) {
		f := newFixture(t)
		o := f.allocated("5.00", statement.RelatedTo{})

		err := f.svc.DeleteLines(context.Background(), o.ID, []uuid.UUID{uuid.New()}, false)
		assert.ErrorIs(t, err, statement.ErrNotFound)
	})

	t.Run("ReversesPostedMove", func(t *testing.T) {
		f := newFixture(t)
		o := f.postedOrigin("5.00", "5.00")
		moveID := *o.Lines[0].MoveID

		o.State = statement.OriginCancelled
		f.repo.AddOrigin(o)

		err := f.svc.DeleteLines(context.Background(), o.ID, []uuid.UUID{o.Lines[0].ID}, false)
		require.True(t, statement.IsWarning(err))

		require.NoError(t, f.svc.DeleteLines(context.Background(), o.ID, []uuid.UUID{o.Lines[0].ID}, true))
		assert.Empty(t, f.reload(t, o.ID).Lines)
		assert.Equal(t, map[uuid.UUID]int{moveID: 1}, reversals(f.repo.PostedMoves()))
	})
}
