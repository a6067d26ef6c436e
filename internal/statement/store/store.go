package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/banksync/internal/ledger"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

const foreignKeyViolation = "23503"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOriginColumns = `
	o.id, o.statement_id, o.journal_id, o.entry_reference, o.amount, o.currency, o.date,
	o.information, o.state, o.created_at
`

// Expected column order: selectOriginColumns.
func scanOrigin(s scanner) (*statement.Origin, error) {
	var (
		o     statement.Origin
		info  []byte
		state string
	)

	if err := s.Scan(
		&o.ID, &o.StatementID, &o.JournalID, &o.EntryReference, &o.Amount, &o.Currency, &o.Date,
		&info, &state, &o.CreatedAt,
	); err != nil {
		return nil, err
	}

	o.State = statement.OriginState(state)
	o.Information = make(map[string]string)

	if len(info) > 0 {
		if err := json.Unmarshal(info, &o.Information); err != nil {
			return nil, fmt.Errorf("decoding information of origin %s: %w", o.ID, err)
		}
	}

	return &o, nil
}

const selectLineColumns = `
	id, origin_id, statement_id, date, amount, second_currency, amount_second_currency,
	party_id, account_id, related_to, description, suggestion_id, move_id, created_at
`

func scanLine(s scanner) (*statement.Line, error) {
	var (
		l       statement.Line
		related string
	)

	if err := s.Scan(
		&l.ID, &l.OriginID, &l.StatementID, &l.Date, &l.Amount, &l.SecondCurrency, &l.AmountSecondCurrency,
		&l.PartyID, &l.AccountID, &related, &l.Description, &l.SuggestionID, &l.MoveID, &l.CreatedAt,
	); err != nil {
		return nil, err
	}

	ref, err := statement.ParseRelatedTo(related)
	if err != nil {
		return nil, err
	}

	l.RelatedTo = ref

	return &l, nil
}

const selectSuggestionColumns = `
	id, origin_id, parent_id, name, party_id, account_id, date, amount, second_currency,
	amount_second_currency, related_to, similarity, state
`

func scanSuggestion(s scanner) (*statement.SuggestedLine, error) {
	var (
		sl      statement.SuggestedLine
		date    sql.NullTime
		related string
		state   string
	)

	if err := s.Scan(
		&sl.ID, &sl.OriginID, &sl.ParentID, &sl.Name, &sl.PartyID, &sl.AccountID, &date, &sl.Amount,
		&sl.SecondCurrency, &sl.AmountSecondCurrency, &related, &sl.Similarity, &state,
	); err != nil {
		return nil, err
	}

	ref, err := statement.ParseRelatedTo(related)
	if err != nil {
		return nil, err
	}

	sl.RelatedTo = ref
	sl.State = statement.SuggestionState(state)

	if date.Valid {
		sl.Date = date.Time
	}

	return &sl, nil
}

func (s *Store) GetOrigin(ctx context.Context, id uuid.UUID) (*statement.Origin, error) {
	query := `SELECT ` + selectOriginColumns + ` FROM statement_origins o WHERE o.id = $1`

	o, err := scanOrigin(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, statement.ErrNotFound
		}

		return nil, fmt.Errorf("getting origin: %w", err)
	}

	if err := loadChildren(ctx, s.db, []*statement.Origin{o}); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Store) ListOrigins(ctx context.Context, filter statement.ListFilter) ([]*statement.Origin, error) {
	query := `SELECT ` + selectOriginColumns + ` FROM statement_origins o WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StatementID != nil {
		query += fmt.Sprintf(" AND o.statement_id = $%d", argIdx)

		args = append(args, *filter.StatementID)
		argIdx++
	}

	if filter.JournalID != nil {
		query += fmt.Sprintf(" AND o.journal_id = $%d", argIdx)

		args = append(args, *filter.JournalID)
		argIdx++
	}

	if filter.State != nil {
		query += fmt.Sprintf(" AND o.state = $%d", argIdx)

		args = append(args, string(*filter.State))
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND o.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND o.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY o.date ASC, o.created_at ASC"

	origins, err := queryOrigins(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing origins: %w", err)
	}

	if err := loadChildren(ctx, s.db, origins); err != nil {
		return nil, err
	}

	return origins, nil
}

func (s *Store) Begin(ctx context.Context) (statement.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &pgTx{tx: dbTx}, nil
}

func queryOrigins(ctx context.Context, q querier, query string, args ...any) ([]*statement.Origin, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var origins []*statement.Origin

	for rows.Next() {
		o, err := scanOrigin(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning origin: %w", err)
		}

		origins = append(origins, o)
	}

	return origins, rows.Err()
}

// loadChildren fills the lines and suggestions of origins with two queries.
func loadChildren(ctx context.Context, q querier, origins []*statement.Origin) error {
	if len(origins) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*statement.Origin, len(origins))
	ids := make([]string, 0, len(origins))

	for _, o := range origins {
		byID[o.ID] = o
		ids = append(ids, o.ID.String())
	}

	lineRows, err := q.QueryContext(ctx,
		`SELECT `+selectLineColumns+` FROM statement_lines WHERE origin_id = ANY($1::uuid[]) ORDER BY created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("loading lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		l, err := scanLine(lineRows)
		if err != nil {
			return fmt.Errorf("scanning line: %w", err)
		}

		byID[l.OriginID].Lines = append(byID[l.OriginID].Lines, l)
	}

	if err := lineRows.Err(); err != nil {
		return fmt.Errorf("iterating lines: %w", err)
	}

	suggestionRows, err := q.QueryContext(ctx,
		`SELECT `+selectSuggestionColumns+` FROM suggested_lines WHERE origin_id = ANY($1::uuid[])
		ORDER BY similarity DESC, parent_id NULLS FIRST, id`, ids)
	if err != nil {
		return fmt.Errorf("loading suggestions: %w", err)
	}
	defer suggestionRows.Close()

	for suggestionRows.Next() {
		sl, err := scanSuggestion(suggestionRows)
		if err != nil {
			return fmt.Errorf("scanning suggestion: %w", err)
		}

		byID[sl.OriginID].Suggestions = append(byID[sl.OriginID].Suggestions, sl)
	}

	if err := suggestionRows.Err(); err != nil {
		return fmt.Errorf("iterating suggestions: %w", err)
	}

	return nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Commit() error   { return t.tx.Commit() }
func (t *pgTx) Rollback() error { return t.tx.Rollback() }

func (t *pgTx) Moves() statement.Moves { return ledger.NewMoves(t.tx) }

func (t *pgTx) LockOrigins(ctx context.Context, ids []uuid.UUID) ([]*statement.Origin, error) {
	query := `SELECT ` + selectOriginColumns + ` FROM statement_origins o
		WHERE o.id = ANY($1::uuid[])
		ORDER BY o.date ASC, o.id
		FOR UPDATE`

	origins, err := queryOrigins(ctx, t.tx, query, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("locking origins: %w", err)
	}

	if err := loadChildren(ctx, t.tx, origins); err != nil {
		return nil, err
	}

	return origins, nil
}

func (t *pgTx) ExistingReferences(ctx context.Context, journalID uuid.UUID, refs []string) (map[string]bool, error) {
	query := `
		SELECT entry_reference
		FROM statement_origins
		WHERE journal_id = $1 AND entry_reference = ANY($2::text[])
	`

	rows, err := t.tx.QueryContext(ctx, query, journalID, refs)
	if err != nil {
		return nil, fmt.Errorf("finding references: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool)

	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}

		found[ref] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}

	return found, nil
}

func (t *pgTx) CreateStatement(ctx context.Context, st *statement.Statement) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}

	if st.State == "" {
		st.State = "draft"
	}

	query := `
		INSERT INTO statements (id, journal_id, name, date, start_balance, end_balance, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		st.ID, st.JournalID, st.Name, st.Date, st.StartBalance, st.EndBalance, st.State,
	).Scan(&st.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating statement: %w", err)
	}

	return nil
}

func (t *pgTx) CreateOrigins(ctx context.Context, origins []*statement.Origin) error {
	query := `
		INSERT INTO statement_origins (id, statement_id, journal_id, entry_reference, amount, currency, date, information, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	for _, o := range origins {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}

		info, err := json.Marshal(o.Information)
		if err != nil {
			return fmt.Errorf("encoding information: %w", err)
		}

		err = t.tx.QueryRowContext(ctx, query,
			o.ID, o.StatementID, o.JournalID, o.EntryReference, o.Amount, o.Currency, o.Date, info, string(o.State),
		).Scan(&o.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating origin %s: %w", o.EntryReference, err)
		}
	}

	return nil
}

func (t *pgTx) UpdateOriginState(ctx context.Context, id uuid.UUID, state statement.OriginState) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE statement_origins SET state = $1 WHERE id = $2`, string(state), id)
	if err != nil {
		return fmt.Errorf("updating origin state: %w", err)
	}

	return expectRow(res)
}

func (t *pgTx) DeleteOrigin(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM statement_origins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting origin: %w", err)
	}

	return expectRow(res)
}

func (t *pgTx) CreateLines(ctx context.Context, lines []*statement.Line) error {
	query := `
		INSERT INTO statement_lines (
			id, origin_id, statement_id, date, amount, second_currency, amount_second_currency,
			party_id, account_id, related_to, description, suggestion_id, move_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING created_at
	`

	for _, l := range lines {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}

		err := t.tx.QueryRowContext(ctx, query,
			l.ID, l.OriginID, l.StatementID, l.Date, l.Amount, l.SecondCurrency, l.AmountSecondCurrency,
			l.PartyID, l.AccountID, l.RelatedTo.String(), l.Description, l.SuggestionID, l.MoveID,
		).Scan(&l.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating line: %w", err)
		}
	}

	return nil
}

func (t *pgTx) UpdateLine(ctx context.Context, l *statement.Line) error {
	query := `
		UPDATE statement_lines
		SET date = $1, amount = $2, second_currency = $3, amount_second_currency = $4, party_id = $5,
			account_id = $6, related_to = $7, description = $8, move_id = $9
		WHERE id = $10
	`

	res, err := t.tx.ExecContext(ctx, query,
		l.Date, l.Amount, l.SecondCurrency, l.AmountSecondCurrency, l.PartyID,
		l.AccountID, l.RelatedTo.String(), l.Description, l.MoveID, l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating line: %w", err)
	}

	return expectRow(res)
}

func (t *pgTx) DeleteLines(ctx context.Context, ids []uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM statement_lines WHERE id = ANY($1::uuid[])`, uuidStrings(ids)); err != nil {
		return fmt.Errorf("deleting lines: %w", err)
	}

	return nil
}

func (t *pgTx) CreateSuggestions(ctx context.Context, suggestions []*statement.SuggestedLine) error {
	query := `
		INSERT INTO suggested_lines (
			id, origin_id, parent_id, name, party_id, account_id, date, amount, second_currency,
			amount_second_currency, related_to, similarity, state
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for _, sl := range suggestions {
		var date sql.NullTime
		if !sl.Date.IsZero() {
			date = sql.NullTime{Time: sl.Date, Valid: true}
		}

		_, err := t.tx.ExecContext(ctx, query,
			sl.ID, sl.OriginID, sl.ParentID, sl.Name, sl.PartyID, sl.AccountID, date, sl.Amount, sl.SecondCurrency,
			sl.AmountSecondCurrency, sl.RelatedTo.String(), sl.Similarity, string(sl.State),
		)
		if err != nil {
			return fmt.Errorf("creating suggestion: %w", err)
		}
	}

	return nil
}

func (t *pgTx) DeleteSuggestions(ctx context.Context, ids []uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM suggested_lines WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("deleting suggestions: %w", statement.ErrSuggestionInUse)
		}

		return fmt.Errorf("deleting suggestions: %w", err)
	}

	return nil
}

func (t *pgTx) UpdateSuggestionStates(ctx context.Context, ids []uuid.UUID, state statement.SuggestionState) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE suggested_lines SET state = $1 WHERE id = ANY($2::uuid[])`, string(state), uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("updating suggestion states: %w", err)
	}

	return nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return statement.ErrNotFound
	}

	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}
