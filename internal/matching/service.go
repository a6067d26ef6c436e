package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

type Service struct {
	repo       statement.Repository
	candidates Candidates
	clearing   ClearingCandidates
	journals   statement.Journals
	window     int
}

// NewService builds the suggestion engine. dateWindow is the number of days
// around the origin date that still earns a date boost.
func NewService(repo statement.Repository, candidates Candidates, journals statement.Journals, dateWindow int) *Service {
	if dateWindow <= 0 {
		dateWindow = DefaultDateWindow
	}

	return &Service{repo: repo, candidates: candidates, journals: journals, window: dateWindow}
}

// WithClearing enables the clearing payment strategies.
func (s *Service) WithClearing(c ClearingCandidates) *Service {
	s.clearing = c
	return s
}

// Outcome describes what a search left on one origin.
type Outcome struct {
	OriginID    uuid.UUID
	Suggestions int
	Selected    *uuid.UUID
}

// Search regenerates the suggestions of the given origins and uses the best
// one when it is unambiguous. All origins are processed in one transaction:
// either every origin gets its new suggestions or none changes.
func (s *Service) Search(ctx context.Context, ids []uuid.UUID) ([]Outcome, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin search: %w", err)
	}
	defer tx.Rollback()

	origins, err := tx.LockOrigins(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock origins: %w", err)
	}

	if len(origins) != len(ids) {
		return nil, fmt.Errorf("origins %v: %w", ids, statement.ErrNotFound)
	}

	journals := make(map[uuid.UUID]*statement.Journal)
	outcomes := make([]Outcome, 0, len(origins))

	for _, o := range origins {
		if o.State != statement.OriginRegistered {
			slog.Debug("skipping origin", "origin", o.ID, "state", o.State)
			continue
		}

		journal, ok := journals[o.JournalID]
		if !ok {
			journal, err = s.journals.Journal(ctx, o.JournalID)
			if err != nil {
				return nil, fmt.Errorf("journal %s: %w", o.JournalID, err)
			}

			journals[o.JournalID] = journal
		}

		outcome, err := s.regenerate(ctx, tx, o, journal)
		if err != nil {
			return nil, err
		}

		outcomes = append(outcomes, outcome)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit search: %w", err)
	}

	return outcomes, nil
}

func (s *Service) regenerate(ctx context.Context, tx statement.Tx, o *statement.Origin, journal *statement.Journal) (Outcome, error) {
	outcome := Outcome{OriginID: o.ID}

	referenced := statement.ReferencedSuggestions(o)
	stale := make([]uuid.UUID, 0, len(o.Suggestions))

	for _, sg := range o.Suggestions {
		if referenced[sg.ID] {
			return outcome, fmt.Errorf("origin %s suggestion %s: %w", o.ID, sg.ID, statement.ErrSuggestionInUse)
		}

		stale = append(stale, sg.ID)
	}

	if len(stale) > 0 {
		if err := tx.DeleteSuggestions(ctx, stale); err != nil {
			return outcome, fmt.Errorf("delete suggestions of origin %s: %w", o.ID, err)
		}
	}

	o.Suggestions = nil

	pending := o.PendingAmount()
	if pending.IsZero() {
		return outcome, nil
	}

	proposals, err := s.propose(ctx, o, journal, pending)
	if err != nil {
		return outcome, fmt.Errorf("search origin %s: %w", o.ID, err)
	}

	rows := Build(o, Dedup(proposals))
	if len(rows) == 0 {
		return outcome, nil
	}

	if err := tx.CreateSuggestions(ctx, rows); err != nil {
		return outcome, fmt.Errorf("create suggestions of origin %s: %w", o.ID, err)
	}

	o.Suggestions = rows
	outcome.Suggestions = len(o.Tree().TopLevel())

	best := SelectBest(o.Tree(), journal.AcceptableSimilarity)
	if best == nil {
		slog.Debug("no suggestion selected", "origin", o.ID, "suggestions", outcome.Suggestions)
		return outcome, nil
	}

	usage, err := statement.Use(o, []uuid.UUID{best.ID})
	if err != nil {
		return outcome, fmt.Errorf("use suggestion %s: %w", best.ID, err)
	}

	if err := statement.ApplyUsage(ctx, tx, usage); err != nil {
		return outcome, err
	}

	outcome.Selected = &best.ID

	slog.Info("suggestion selected", "origin", o.ID, "suggestion", best.ID, "similarity", best.Similarity)

	return outcome, nil
}

func (s *Service) propose(ctx context.Context, o *statement.Origin, journal *statement.Journal, pending decimal.Decimal) ([]Proposal, error) {
	sc := &search{
		origin:     o,
		pending:    pending,
		kind:       KindOf(pending),
		acceptable: journal.AcceptableSimilarity,
		window:     s.window,
	}

	hint := o.PartyHint()

	parties, err := s.candidates.Parties(ctx, hint)
	if err != nil {
		return nil, fmt.Errorf("parties: %w", err)
	}

	sc.parties = PartySimilarity(hint, parties, journal.SimilarityThreshold)

	var (
		proposals []Proposal
		ex        = NewExclusions()
		q         = PoolQuery{Kind: sc.kind, Currency: o.Currency}
	)

	collect := func(name string, found []Proposal, consumed *Exclusions) {
		slog.Debug("strategy done", "origin", o.ID, "strategy", name, "proposals", len(found))

		proposals = append(proposals, found...)
		ex.Merge(consumed)
	}

	if s.clearing != nil {
		groups, err := s.clearing.ClearingGroups(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("clearing groups: %w", err)
		}

		found, consumed := matchClearingGroups(sc, groups, ex)
		collect("clearing_groups", found, consumed)

		payments, err := s.clearing.ClearingPayments(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("clearing payments: %w", err)
		}

		found, consumed = matchClearingPayments(sc, payments, ex)
		collect("clearing_payments", found, consumed)
	}

	payments, err := s.candidates.Payments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}

	found, consumed := matchPaymentGroups(sc, payments, ex)
	collect("payment_groups", found, consumed)

	lines, err := s.candidates.MoveLines(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("move lines: %w", err)
	}

	found, consumed = matchMoveLines(sc, lines, ex)
	collect("move_lines", found, consumed)

	if text := o.RemittanceInformation(); text != "" {
		history, err := s.candidates.SimilarOrigins(ctx, HistoryQuery{
			JournalID:     o.JournalID,
			ExcludeOrigin: o.ID,
			Text:          text,
			Threshold:     journal.SimilarityThreshold,
		})
		if err != nil {
			return nil, fmt.Errorf("similar origins: %w", err)
		}

		collect("history", matchHistory(sc, history, journal.SimilarityThreshold), NewExclusions())
	}

	return proposals, nil
}
