package statement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=statement
type Repository interface {
	GetOrigin(ctx context.Context, id uuid.UUID) (*Origin, error)
	ListOrigins(ctx context.Context, filter ListFilter) ([]*Origin, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is a unit of work over origins and everything they own.
type Tx interface {
	// LockOrigins loads the origins with their lines and suggestions and
	// holds them until the transaction ends.
	LockOrigins(ctx context.Context, ids []uuid.UUID) ([]*Origin, error)
	ExistingReferences(ctx context.Context, journalID uuid.UUID, refs []string) (map[string]bool, error)

	CreateStatement(ctx context.Context, st *Statement) error
	CreateOrigins(ctx context.Context, origins []*Origin) error
	UpdateOriginState(ctx context.Context, id uuid.UUID, state OriginState) error
	DeleteOrigin(ctx context.Context, id uuid.UUID) error

	CreateLines(ctx context.Context, lines []*Line) error
	UpdateLine(ctx context.Context, line *Line) error
	DeleteLines(ctx context.Context, ids []uuid.UUID) error

	CreateSuggestions(ctx context.Context, suggestions []*SuggestedLine) error
	DeleteSuggestions(ctx context.Context, ids []uuid.UUID) error
	UpdateSuggestionStates(ctx context.Context, ids []uuid.UUID, state SuggestionState) error

	// Moves posts and reverses ledger moves as part of this transaction.
	Moves() Moves

	Commit() error
	Rollback() error
}

type ListFilter struct {
	StatementID *uuid.UUID
	JournalID   *uuid.UUID
	State       *OriginState
	StartDate   *time.Time
	EndDate     *time.Time
}

const (
	WarningPaidInvoices = "statement_origin_paid_invoices"
	WarningPostedMoves  = "statement_origin_posted_moves"
)

type Service struct {
	repo     Repository
	ledger   Ledger
	journals Journals
}

func NewService(repo Repository, ledger Ledger, journals Journals) *Service {
	return &Service{repo: repo, ledger: ledger, journals: journals}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Origin, error) {
	return s.repo.GetOrigin(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Origin, error) {
	return s.repo.ListOrigins(ctx, filter)
}

type ImportResult struct {
	Statement *Statement
	Imported  []*Origin
	Skipped   []string
}

// ImportOrigins stores new origins under st, skipping entry references the
// journal already knows. The statement is only created when at least one
// origin is new.
func (s *Service) ImportOrigins(ctx context.Context, st *Statement, origins []*Origin) (*ImportResult, error) {
	if len(origins) == 0 {
		return &ImportResult{}, nil
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	refs := make([]string, 0, len(origins))
	for _, o := range origins {
		refs = append(refs, o.EntryReference)
	}

	existing, err := tx.ExistingReferences(ctx, st.JournalID, refs)
	if err != nil {
		return nil, fmt.Errorf("find existing references: %w", err)
	}

	result := &ImportResult{}
	seen := make(map[string]bool, len(origins))

	for _, o := range origins {
		if existing[o.EntryReference] || seen[o.EntryReference] {
			result.Skipped = append(result.Skipped, o.EntryReference)
			continue
		}

		seen[o.EntryReference] = true
		result.Imported = append(result.Imported, o)
	}

	if len(result.Imported) == 0 {
		return result, nil
	}

	if err := tx.CreateStatement(ctx, st); err != nil {
		return nil, fmt.Errorf("create statement: %w", err)
	}

	for _, o := range result.Imported {
		o.StatementID = st.ID
		o.JournalID = st.JournalID
		o.State = OriginRegistered
	}

	if err := tx.CreateOrigins(ctx, result.Imported); err != nil {
		return nil, fmt.Errorf("create origins: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	result.Statement = st

	return result, nil
}

// Register reopens cancelled origins.
func (s *Service) Register(ctx context.Context, ids []uuid.UUID) error {
	return s.transition(ctx, ids, OriginRegistered, nil)
}

// Post checks every origin is fully allocated, posts a move per line and
// offers the owning statements for validation.
func (s *Service) Post(ctx context.Context, ids []uuid.UUID, confirmed bool) error {
	var statements []uuid.UUID

	err := s.transition(ctx, ids, OriginPosted, func(ctx context.Context, tx Tx, origins []*Origin) error {
		for _, o := range origins {
			if pending := o.PendingAmount(); !pending.IsZero() {
				return fmt.Errorf("origin %s has %s pending: %w", o.ID, pending, ErrAmountMismatch)
			}
		}

		if err := s.detachSettledInvoices(ctx, tx, origins, confirmed); err != nil {
			return err
		}

		seen := make(map[uuid.UUID]bool)

		for _, o := range origins {
			if err := s.postLines(ctx, tx, o); err != nil {
				return err
			}

			if !seen[o.StatementID] {
				seen[o.StatementID] = true
				statements = append(statements, o.StatementID)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range statements {
		if err := s.ledger.ValidateStatement(ctx, id); err != nil {
			slog.Warn("statement left open", "statement", id, "error", err)
		}
	}

	return nil
}

// Cancel reverses the moves generated by the origins' lines and marks them
// cancelled. Lines and suggestions are kept.
func (s *Service) Cancel(ctx context.Context, ids []uuid.UUID, confirmed bool) error {
	return s.transition(ctx, ids, OriginCancelled, func(ctx context.Context, tx Tx, origins []*Origin) error {
		var posted []*Line

		for _, o := range origins {
			for _, l := range o.Lines {
				if l.MoveID != nil {
					posted = append(posted, l)
				}
			}
		}

		if len(posted) > 0 && !confirmed {
			return &WarningError{
				Key:     WarningPostedMoves,
				Message: fmt.Sprintf("%d statement lines have posted moves that will be reversed", len(posted)),
			}
		}

		return s.reverseMoves(ctx, tx, posted)
	})
}

// Delete removes origins together with their lines and suggestions.
func (s *Service) Delete(ctx context.Context, ids []uuid.UUID) error {
	return s.withOrigins(ctx, ids, func(ctx context.Context, tx Tx, origins []*Origin) error {
		for _, o := range origins {
			if !o.Deletable() {
				return fmt.Errorf("origin %s is %s: %w", o.ID, o.State, ErrNotDeletable)
			}
		}

		for _, o := range origins {
			if err := tx.DeleteOrigin(ctx, o.ID); err != nil {
				return fmt.Errorf("delete origin %s: %w", o.ID, err)
			}
		}

		return nil
	})
}

// UseSuggestions accepts suggestions of an origin, creating its lines.
func (s *Service) UseSuggestions(ctx context.Context, originID uuid.UUID, ids []uuid.UUID) ([]*Line, error) {
	var lines []*Line

	err := s.withOrigins(ctx, []uuid.UUID{originID}, func(ctx context.Context, tx Tx, origins []*Origin) error {
		usage, err := Use(origins[0], ids)
		if err != nil {
			return err
		}

		if err := ApplyUsage(ctx, tx, usage); err != nil {
			return err
		}

		lines = usage.Lines

		return nil
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

// CreateLines allocates parts of a registered origin by hand. Lines need an
// account and a non-zero amount; date and description default to the
// origin's.
func (s *Service) CreateLines(ctx context.Context, originID uuid.UUID, lines []*Line) ([]*Line, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no lines: %w", ErrInvalidLine)
	}

	for i, l := range lines {
		if l.Amount.IsZero() {
			return nil, fmt.Errorf("line %d has no amount: %w", i, ErrInvalidLine)
		}

		if l.AccountID == nil {
			return nil, fmt.Errorf("line %d: %w", i, ErrMissingAccount)
		}

		if err := l.RelatedTo.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", i, ErrInvalidLine, err)
		}
	}

	err := s.withOrigins(ctx, []uuid.UUID{originID}, func(ctx context.Context, tx Tx, origins []*Origin) error {
		origin := origins[0]
		if origin.State != OriginRegistered {
			return fmt.Errorf("origin %s is %s: %w", origin.ID, origin.State, ErrOriginLocked)
		}

		for _, l := range lines {
			l.ID = uuid.New()
			l.OriginID = origin.ID
			l.StatementID = origin.StatementID
			l.SuggestionID = nil
			l.MoveID = nil

			if l.Date.IsZero() {
				l.Date = origin.Date
			}

			if l.Description == "" {
				l.Description = origin.RemittanceInformation()
			}
		}

		if err := tx.CreateLines(ctx, lines); err != nil {
			return fmt.Errorf("create lines: %w", err)
		}

		slog.Info("lines created", "origin", origin.ID, "count", len(lines))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

// ProposeSuggestions reopens used suggestions of an origin.
func (s *Service) ProposeSuggestions(ctx context.Context, originID uuid.UUID, ids []uuid.UUID) error {
	return s.withOrigins(ctx, []uuid.UUID{originID}, func(ctx context.Context, tx Tx, origins []*Origin) error {
		if err := Propose(origins[0], ids); err != nil {
			return err
		}

		if err := tx.UpdateSuggestionStates(ctx, ids, SuggestionProposed); err != nil {
			return fmt.Errorf("update suggestions: %w", err)
		}

		return nil
	})
}

// DeleteLines removes lines of a non-posted origin. Posted moves are reversed
// first and the suggestions that produced the lines are proposed again.
func (s *Service) DeleteLines(ctx context.Context, originID uuid.UUID, lineIDs []uuid.UUID, confirmed bool) error {
	return s.withOrigins(ctx, []uuid.UUID{originID}, func(ctx context.Context, tx Tx, origins []*Origin) error {
		origin := origins[0]
		if origin.State == OriginPosted {
			return fmt.Errorf("origin %s is posted: %w", origin.ID, ErrOriginLocked)
		}

		byID := make(map[uuid.UUID]*Line, len(origin.Lines))
		for _, l := range origin.Lines {
			byID[l.ID] = l
		}

		var (
			targets []*Line
			posted  []*Line
		)

		for _, id := range lineIDs {
			l, ok := byID[id]
			if !ok {
				return fmt.Errorf("line %s of origin %s: %w", id, origin.ID, ErrNotFound)
			}

			targets = append(targets, l)
			if l.MoveID != nil {
				posted = append(posted, l)
			}
		}

		if len(posted) > 0 && !confirmed {
			return &WarningError{
				Key:     WarningPostedMoves,
				Message: fmt.Sprintf("%d statement lines have posted moves that will be reversed", len(posted)),
			}
		}

		if err := s.reverseMoves(ctx, tx, posted); err != nil {
			return err
		}

		var reopened []uuid.UUID
		for _, l := range targets {
			reopened = append(reopened, Repropose(origin, l)...)
		}

		if len(reopened) > 0 {
			if err := tx.UpdateSuggestionStates(ctx, reopened, SuggestionProposed); err != nil {
				return fmt.Errorf("reopen suggestions: %w", err)
			}
		}

		if err := tx.DeleteLines(ctx, lineIDs); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}

		return nil
	})
}

// ApplyUsage persists the lines and suggestion states produced by Use.
func ApplyUsage(ctx context.Context, tx Tx, usage *Usage) error {
	if len(usage.Lines) > 0 {
		if err := tx.CreateLines(ctx, usage.Lines); err != nil {
			return fmt.Errorf("create lines: %w", err)
		}
	}

	if len(usage.Used) > 0 {
		if err := tx.UpdateSuggestionStates(ctx, usage.Used, SuggestionUsed); err != nil {
			return fmt.Errorf("mark suggestions used: %w", err)
		}
	}

	return nil
}

type originFunc func(ctx context.Context, tx Tx, origins []*Origin) error

func (s *Service) withOrigins(ctx context.Context, ids []uuid.UUID, fn originFunc) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	origins, err := tx.LockOrigins(ctx, ids)
	if err != nil {
		return fmt.Errorf("lock origins: %w", err)
	}

	if len(origins) != len(ids) {
		return fmt.Errorf("origins %v: %w", ids, ErrNotFound)
	}

	if err := fn(ctx, tx, origins); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Service) transition(ctx context.Context, ids []uuid.UUID, to OriginState, before originFunc) error {
	return s.withOrigins(ctx, ids, func(ctx context.Context, tx Tx, origins []*Origin) error {
		for _, o := range origins {
			if !o.State.CanTransition(to) {
				return fmt.Errorf("origin %s: %w", o.ID, transitionError("origin", o.State, to))
			}
		}

		if before != nil {
			if err := before(ctx, tx, origins); err != nil {
				return err
			}
		}

		for _, o := range origins {
			if err := tx.UpdateOriginState(ctx, o.ID, to); err != nil {
				return fmt.Errorf("update origin %s: %w", o.ID, err)
			}

			o.State = to
		}

		slog.Info("origins transitioned", "state", to, "count", len(origins))

		return nil
	})
}

func (s *Service) detachSettledInvoices(ctx context.Context, tx Tx, origins []*Origin, confirmed bool) error {
	var (
		invoiceIDs []uuid.UUID
		related    []*Line
	)

	for _, o := range origins {
		for _, l := range o.Lines {
			if l.RelatedTo.Kind == KindInvoice && l.MoveID == nil {
				invoiceIDs = append(invoiceIDs, l.RelatedTo.ID)
				related = append(related, l)
			}
		}
	}

	if len(invoiceIDs) == 0 {
		return nil
	}

	states, err := s.ledger.InvoiceStates(ctx, invoiceIDs)
	if err != nil {
		return fmt.Errorf("invoice states: %w", err)
	}

	var settled []*Line

	for _, l := range related {
		switch states[l.RelatedTo.ID] {
		case InvoicePaid, InvoiceCancelled:
			settled = append(settled, l)
		}
	}

	if len(settled) == 0 {
		return nil
	}

	if !confirmed {
		return &WarningError{
			Key:     WarningPaidInvoices,
			Message: fmt.Sprintf("%d statement lines point at paid or cancelled invoices and will be detached", len(settled)),
		}
	}

	for _, l := range settled {
		l.RelatedTo = RelatedTo{}
		if err := tx.UpdateLine(ctx, l); err != nil {
			return fmt.Errorf("detach line %s: %w", l.ID, err)
		}
	}

	return nil
}

func (s *Service) postLines(ctx context.Context, tx Tx, origin *Origin) error {
	journal, err := s.journals.Journal(ctx, origin.JournalID)
	if err != nil {
		return fmt.Errorf("journal %s: %w", origin.JournalID, err)
	}

	for _, l := range origin.Lines {
		if l.MoveID != nil {
			continue
		}

		if l.Date.IsZero() {
			l.Date = origin.Date
		}

		spec, err := BuildMove(journal, origin, l)
		if err != nil {
			return err
		}

		move, err := tx.Moves().PostMove(ctx, spec)
		if err != nil {
			return fmt.Errorf("post move for line %s: %w", l.ID, err)
		}

		l.MoveID = &move.ID
		if err := tx.UpdateLine(ctx, l); err != nil {
			return fmt.Errorf("link move to line %s: %w", l.ID, err)
		}
	}

	return nil
}

func (s *Service) reverseMoves(ctx context.Context, tx Tx, lines []*Line) error {
	for _, l := range lines {
		reversal, err := tx.Moves().CancelMove(ctx, *l.MoveID)
		if err != nil {
			return fmt.Errorf("cancel move %s: %w", *l.MoveID, err)
		}

		slog.Info("move reversed", "line", l.ID, "move", *l.MoveID, "reversal", reversal.ID)

		l.MoveID = nil
		if err := tx.UpdateLine(ctx, l); err != nil {
			return fmt.Errorf("unlink move from line %s: %w", l.ID, err)
		}
	}

	return nil
}
