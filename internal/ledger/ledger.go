// Package ledger stores accounting moves and journal settings in Postgres.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

var (
	ErrUnbalanced    = errors.New("move is not balanced")
	ErrStatementOpen = errors.New("statement still has origins that are not posted")
)

// Settings overrides the similarity thresholds of a journal.
type Settings struct {
	SimilarityThreshold  int
	AcceptableSimilarity int
}

type Store struct {
	db        *sql.DB
	overrides map[string]Settings
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// WithSettings applies per-journal threshold overrides keyed by journal name.
func (s *Store) WithSettings(overrides map[string]Settings) *Store {
	s.overrides = overrides
	return s
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const selectJournalColumns = `
	id, name, currency, bank_account_uid, account_id, similarity_threshold, acceptable_similarity, last_sync
`

func (s *Store) scanJournal(sc scanner) (*statement.Journal, error) {
	var (
		j        statement.Journal
		lastSync sql.NullTime
	)

	if err := sc.Scan(
		&j.ID, &j.Name, &j.Currency, &j.BankAccountUID, &j.AccountID,
		&j.SimilarityThreshold, &j.AcceptableSimilarity, &lastSync,
	); err != nil {
		return nil, err
	}

	if lastSync.Valid {
		j.LastSync = &lastSync.Time
	}

	if o, ok := s.overrides[j.Name]; ok {
		if o.SimilarityThreshold > 0 {
			j.SimilarityThreshold = o.SimilarityThreshold
		}

		if o.AcceptableSimilarity > 0 {
			j.AcceptableSimilarity = o.AcceptableSimilarity
		}
	}

	return &j, nil
}

func (s *Store) Journal(ctx context.Context, id uuid.UUID) (*statement.Journal, error) {
	query := `SELECT ` + selectJournalColumns + ` FROM journals WHERE id = $1`

	j, err := s.scanJournal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, statement.ErrNotFound
		}

		return nil, fmt.Errorf("getting journal: %w", err)
	}

	return j, nil
}

func (s *Store) ListJournals(ctx context.Context) ([]*statement.Journal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectJournalColumns+` FROM journals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	defer rows.Close()

	var journals []*statement.Journal

	for rows.Next() {
		j, err := s.scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}

		journals = append(journals, j)
	}

	return journals, rows.Err()
}

// MarkSynced records the time of the last successful synchronization.
func (s *Store) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE journals SET last_sync = $1 WHERE id = $2`, at, id); err != nil {
		return fmt.Errorf("marking journal synced: %w", err)
	}

	return nil
}

// Moves posts and reverses moves on a transaction owned by the caller.
// Nothing is committed here: the moves become visible together with
// whatever else the transaction writes.
type Moves struct {
	tx *sql.Tx
}

func NewMoves(tx *sql.Tx) *Moves {
	return &Moves{tx: tx}
}

func (m *Moves) PostMove(ctx context.Context, spec statement.MoveSpec) (*statement.Move, error) {
	if !spec.Balanced() {
		return nil, ErrUnbalanced
	}

	move, err := insertMove(ctx, m.tx, spec, nil)
	if err != nil {
		return nil, err
	}

	for _, l := range spec.Lines {
		if err := insertMoveLine(ctx, m.tx, move.ID, spec.Date, l); err != nil {
			return nil, err
		}

		if err := settle(ctx, m.tx, l.RelatedTo, true); err != nil {
			return nil, err
		}
	}

	return move, nil
}

// CancelMove posts the counter-move of moveID. Both moves keep the origin
// reference and whatever the original settled is reopened.
func (m *Moves) CancelMove(ctx context.Context, moveID uuid.UUID) (*statement.Move, error) {
	var (
		spec     statement.MoveSpec
		originID *uuid.UUID
		reversed bool
	)

	err := m.tx.QueryRowContext(ctx, `
		SELECT journal_id, date, description, origin_id, origin_reference, statement_line_id,
			EXISTS (SELECT 1 FROM moves r WHERE r.reversal_of = m.id)
		FROM moves m
		WHERE id = $1
		FOR UPDATE
	`, moveID).Scan(&spec.JournalID, &spec.Date, &spec.Description, &originID, &spec.OriginReference, &spec.LineID, &reversed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, statement.ErrNotFound
		}

		return nil, fmt.Errorf("loading move: %w", err)
	}

	if reversed {
		return nil, fmt.Errorf("move %s: %w", moveID, statement.ErrMoveReversed)
	}

	if originID != nil {
		spec.OriginID = *originID
	}

	lines, err := moveLines(ctx, m.tx, moveID)
	if err != nil {
		return nil, err
	}

	reversal, err := insertMove(ctx, m.tx, spec, &moveID)
	if err != nil {
		return nil, err
	}

	for _, l := range reverseLines(lines) {
		if err := insertMoveLine(ctx, m.tx, reversal.ID, spec.Date, l); err != nil {
			return nil, err
		}

		if err := settle(ctx, m.tx, l.RelatedTo, false); err != nil {
			return nil, err
		}
	}

	return reversal, nil
}

// reverseLines returns the counterpart of lines: debit and credit swapped
// and the second currency amount negated.
func reverseLines(lines []statement.MoveLineSpec) []statement.MoveLineSpec {
	out := make([]statement.MoveLineSpec, 0, len(lines))

	for _, l := range lines {
		l.Debit, l.Credit = l.Credit, l.Debit
		if l.AmountSecondCurrency.Valid {
			l.AmountSecondCurrency.Decimal = l.AmountSecondCurrency.Decimal.Neg()
		}

		out = append(out, l)
	}

	return out
}

func (s *Store) InvoiceStates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]statement.InvoiceState, error) {
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, id.String())
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, state FROM invoices WHERE id = ANY($1::uuid[])`, strs)
	if err != nil {
		return nil, fmt.Errorf("loading invoice states: %w", err)
	}
	defer rows.Close()

	states := make(map[uuid.UUID]statement.InvoiceState, len(ids))

	for rows.Next() {
		var (
			id    uuid.UUID
			state string
		)

		if err := rows.Scan(&id, &state); err != nil {
			return nil, fmt.Errorf("scanning invoice state: %w", err)
		}

		states[id] = statement.InvoiceState(state)
	}

	return states, rows.Err()
}

// ValidateStatement marks the statement validated once all its origins are
// posted.
func (s *Store) ValidateStatement(ctx context.Context, statementID uuid.UUID) error {
	var open int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM statement_origins WHERE statement_id = $1 AND state <> 'posted'`, statementID,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("counting open origins: %w", err)
	}

	if open > 0 {
		return fmt.Errorf("%d open origins: %w", open, ErrStatementOpen)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE statements SET state = 'validated' WHERE id = $1`, statementID); err != nil {
		return fmt.Errorf("validating statement: %w", err)
	}

	return nil
}

func insertMove(ctx context.Context, q execer, spec statement.MoveSpec, reversalOf *uuid.UUID) (*statement.Move, error) {
	var originID *uuid.UUID
	if spec.OriginID != uuid.Nil {
		originID = &spec.OriginID
	}

	move := &statement.Move{ID: uuid.New(), OriginID: spec.OriginID, ReversalOf: reversalOf}

	var number int64

	var lineID *uuid.UUID
	if spec.LineID != uuid.Nil {
		lineID = &spec.LineID
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO moves (
			id, journal_id, date, description, origin_id, origin_reference, statement_line_id, reversal_of, posted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING number, posted_at
	`, move.ID, spec.JournalID, spec.Date, spec.Description, originID, spec.OriginReference, lineID, reversalOf,
	).Scan(&number, &move.PostedAt)
	if err != nil {
		return nil, fmt.Errorf("creating move: %w", err)
	}

	move.Number = fmt.Sprintf("M%06d", number)

	return move, nil
}

func insertMoveLine(ctx context.Context, q execer, moveID uuid.UUID, date time.Time, l statement.MoveLineSpec) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO move_lines (
			move_id, account_id, party_id, description, date, debit, credit, currency,
			second_currency, amount_second_currency, related_to, reconciled
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, moveID, l.AccountID, l.PartyID, l.Description, date, l.Debit, l.Credit, l.Currency,
		l.SecondCurrency, l.AmountSecondCurrency, l.RelatedTo.String(), !l.RelatedTo.IsZero())
	if err != nil {
		return fmt.Errorf("creating move line: %w", err)
	}

	return nil
}

func moveLines(ctx context.Context, q *sql.Tx, moveID uuid.UUID) ([]statement.MoveLineSpec, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT account_id, party_id, debit, credit, currency, second_currency, amount_second_currency,
			related_to, description
		FROM move_lines
		WHERE move_id = $1
		ORDER BY id
	`, moveID)
	if err != nil {
		return nil, fmt.Errorf("loading move lines: %w", err)
	}
	defer rows.Close()

	var lines []statement.MoveLineSpec

	for rows.Next() {
		var (
			l       statement.MoveLineSpec
			related string
		)

		if err := rows.Scan(
			&l.AccountID, &l.PartyID, &l.Debit, &l.Credit, &l.Currency, &l.SecondCurrency,
			&l.AmountSecondCurrency, &related, &l.Description,
		); err != nil {
			return nil, fmt.Errorf("scanning move line: %w", err)
		}

		if l.RelatedTo, err = statement.ParseRelatedTo(related); err != nil {
			return nil, err
		}

		lines = append(lines, l)
	}

	return lines, rows.Err()
}

// settle marks what ref points at as reconciled, or reopens it.
func settle(ctx context.Context, q execer, ref statement.RelatedTo, done bool) error {
	for _, query := range settleQueries(ref.Kind) {
		if _, err := q.ExecContext(ctx, query, ref.ID, done); err != nil {
			return fmt.Errorf("settling %s: %w", ref, err)
		}
	}

	return nil
}

// settleQueries returns the statements that flip the reconciled state of a
// reference of kind. Each takes the reference id as $1 and the new state as
// $2.
func settleQueries(kind statement.Kind) []string {
	switch kind {
	case statement.KindMoveLine:
		return []string{`UPDATE move_lines SET reconciled = $2 WHERE id = $1`}
	case statement.KindPayment:
		return []string{
			`UPDATE move_lines SET reconciled = $2 WHERE id = (SELECT move_line_id FROM payments WHERE id = $1)`,
			`UPDATE payments SET state = CASE WHEN $2 THEN 'succeeded' ELSE 'processing' END WHERE id = $1`,
		}
	case statement.KindPaymentGroup:
		return []string{
			`UPDATE move_lines SET reconciled = $2 WHERE id IN (
				SELECT move_line_id FROM payments WHERE group_id = $1 AND state <> 'failed'
			)`,
			`UPDATE payments SET state = CASE WHEN $2 THEN 'succeeded' ELSE 'processing' END
				WHERE group_id = $1 AND state <> 'failed'`,
		}
	case statement.KindInvoice:
		return []string{
			`UPDATE invoices SET state = CASE WHEN $2 THEN 'paid' ELSE 'posted' END
				WHERE id = $1 AND state <> 'cancelled'`,
		}
	}

	return nil
}
