package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/banksync/internal/matching"
)

// partyPrefilter is the pg_trgm word similarity a party name needs before
// it is scored in Go.
const partyPrefilter = 0.3

const historyLimit = 10

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) Parties(ctx context.Context, hint string) ([]matching.Party, error) {
	if hint == "" {
		return nil, nil
	}

	query := `
		SELECT id, name, trade_name
		FROM parties
		WHERE word_similarity(name, $1) >= $2
			OR (trade_name <> '' AND word_similarity(trade_name, $1) >= $2)
		ORDER BY GREATEST(word_similarity(name, $1), word_similarity(trade_name, $1)) DESC
		LIMIT 50
	`

	rows, err := s.db.QueryContext(ctx, query, hint, partyPrefilter)
	if err != nil {
		return nil, fmt.Errorf("finding parties: %w", err)
	}
	defer rows.Close()

	var parties []matching.Party

	for rows.Next() {
		var p matching.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.TradeName); err != nil {
			return nil, fmt.Errorf("scanning party: %w", err)
		}

		parties = append(parties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parties: %w", err)
	}

	return parties, nil
}

const selectPaymentColumns = `
	p.id, p.group_id, p.party_id, p.account_id, p.move_line_id, p.kind, p.amount, p.currency,
	p.date, p.description, p.state = 'failed', COALESCE(ml.reconciled, FALSE)
`

func scanPayment(s scanner) (matching.Payment, error) {
	var (
		p    matching.Payment
		kind string
	)

	err := s.Scan(
		&p.ID, &p.GroupID, &p.PartyID, &p.AccountID, &p.MoveLineID, &kind, &p.Amount, &p.Currency,
		&p.Date, &p.Description, &p.Failed, &p.LineReconciled,
	)
	p.Kind = matching.Kind(kind)

	return p, err
}

func (s *Store) Payments(ctx context.Context, q matching.PoolQuery) ([]matching.Payment, error) {
	return s.openPayments(ctx, q, false)
}

func (s *Store) ClearingPayments(ctx context.Context, q matching.PoolQuery) ([]matching.Payment, error) {
	return s.openPayments(ctx, q, true)
}

// openPayments returns non-failed payments whose move line is still open,
// from groups with or without a clearing account.
func (s *Store) openPayments(ctx context.Context, q matching.PoolQuery, clearing bool) ([]matching.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments p
		JOIN payment_groups g ON g.id = p.group_id
		JOIN move_lines ml ON ml.id = p.move_line_id
		WHERE (g.clearing_account_id IS NOT NULL) = $1
			AND p.kind = $2 AND p.currency = $3
			AND p.state <> 'failed'
			AND NOT ml.reconciled
		ORDER BY p.date ASC, p.id`

	rows, err := s.db.QueryContext(ctx, query, clearing, string(q.Kind), q.Currency)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []matching.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}

func (s *Store) ClearingGroups(ctx context.Context, q matching.PoolQuery) ([]matching.PaymentGroup, error) {
	query := `
		SELECT g.id, g.number, g.kind, g.currency, g.date, g.clearing_account_id
		FROM payment_groups g
		WHERE g.clearing_account_id IS NOT NULL AND g.kind = $1 AND g.currency = $2
			AND EXISTS (
				SELECT 1 FROM payments p
				JOIN move_lines ml ON ml.id = p.move_line_id
				WHERE p.group_id = g.id AND NOT ml.reconciled
			)
		ORDER BY g.date ASC, g.id
	`

	rows, err := s.db.QueryContext(ctx, query, string(q.Kind), q.Currency)
	if err != nil {
		return nil, fmt.Errorf("listing clearing groups: %w", err)
	}
	defer rows.Close()

	var (
		groups []matching.PaymentGroup
		ids    []string
	)

	for rows.Next() {
		var (
			g    matching.PaymentGroup
			kind string
		)

		if err := rows.Scan(&g.ID, &g.Number, &kind, &g.Currency, &g.Date, &g.ClearingAccountID); err != nil {
			return nil, fmt.Errorf("scanning clearing group: %w", err)
		}

		g.Kind = matching.Kind(kind)
		groups = append(groups, g)
		ids = append(ids, g.ID.String())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clearing groups: %w", err)
	}

	if len(groups) == 0 {
		return nil, nil
	}

	members, err := s.groupPayments(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		groups[i].Payments = members[groups[i].ID]
	}

	return groups, nil
}

// groupPayments returns every payment of the groups, failed ones included.
func (s *Store) groupPayments(ctx context.Context, groupIDs []string) (map[uuid.UUID][]matching.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments p
		LEFT JOIN move_lines ml ON ml.id = p.move_line_id
		WHERE p.group_id = ANY($1::uuid[])
		ORDER BY p.date ASC, p.id`

	rows, err := s.db.QueryContext(ctx, query, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("listing group payments: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]matching.Payment)

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		out[*p.GroupID] = append(out[*p.GroupID], p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group payments: %w", err)
	}

	return out, nil
}

func (s *Store) MoveLines(ctx context.Context, q matching.PoolQuery) ([]matching.MoveLine, error) {
	query := `
		SELECT ml.id, ml.move_id, ml.document, ml.party_id, ml.account_id, ml.date, ml.maturity_date,
			ml.debit, ml.credit, ml.second_currency, ml.amount_second_currency, ml.description
		FROM move_lines ml
		JOIN accounts a ON a.id = ml.account_id
		JOIN moves m ON m.id = ml.move_id
		WHERE NOT ml.reconciled
			AND a.reconcilable
			AND a.type IN ('receivable', 'payable')
			AND NOT ml.invoice_tax
			AND ml.currency = $1
			AND m.reversal_of IS NULL
			AND NOT EXISTS (SELECT 1 FROM moves r WHERE r.reversal_of = m.id)
		ORDER BY COALESCE(ml.maturity_date, ml.date) ASC, ml.id
	`

	rows, err := s.db.QueryContext(ctx, query, q.Currency)
	if err != nil {
		return nil, fmt.Errorf("listing move lines: %w", err)
	}
	defer rows.Close()

	var lines []matching.MoveLine

	for rows.Next() {
		var (
			l        matching.MoveLine
			maturity sql.NullTime
		)

		if err := rows.Scan(
			&l.ID, &l.MoveID, &l.Document, &l.PartyID, &l.AccountID, &l.Date, &maturity,
			&l.Debit, &l.Credit, &l.SecondCurrency, &l.AmountSecondCurrency, &l.Description,
		); err != nil {
			return nil, fmt.Errorf("scanning move line: %w", err)
		}

		if maturity.Valid {
			l.MaturityDate = &maturity.Time
		}

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating move lines: %w", err)
	}

	return lines, nil
}

func (s *Store) SimilarOrigins(ctx context.Context, q matching.HistoryQuery) ([]matching.HistoricalOrigin, error) {
	query := `
		SELECT o.id, o.information ->> 'remittance_information',
			similarity(o.information ->> 'remittance_information', $2) AS score, o.amount
		FROM statement_origins o
		WHERE o.journal_id = $1 AND o.id <> $3 AND o.state = 'posted'
			AND similarity(o.information ->> 'remittance_information', $2) >= $4
		ORDER BY score DESC, o.date DESC
		LIMIT $5
	`

	rows, err := s.db.QueryContext(ctx, query, q.JournalID, q.Text, q.ExcludeOrigin, float64(q.Threshold)/10, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("finding similar origins: %w", err)
	}
	defer rows.Close()

	var (
		history []matching.HistoricalOrigin
		ids     []string
	)

	for rows.Next() {
		var (
			h     matching.HistoricalOrigin
			score float64
		)

		if err := rows.Scan(&h.OriginID, &h.Remittance, &score, &h.Amount); err != nil {
			return nil, fmt.Errorf("scanning similar origin: %w", err)
		}

		h.Similarity = int(math.Round(score * 10))
		history = append(history, h)
		ids = append(ids, h.OriginID.String())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating similar origins: %w", err)
	}

	if len(history) == 0 {
		return nil, nil
	}

	shapes, err := s.lineShapes(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range history {
		history[i].Lines = shapes[history[i].OriginID]
	}

	return history, nil
}

func (s *Store) lineShapes(ctx context.Context, originIDs []string) (map[uuid.UUID][]matching.HistoricalLine, error) {
	query := `
		SELECT origin_id, party_id, account_id, amount, description
		FROM statement_lines
		WHERE origin_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, originIDs)
	if err != nil {
		return nil, fmt.Errorf("loading line shapes: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]matching.HistoricalLine)

	for rows.Next() {
		var (
			originID uuid.UUID
			l        matching.HistoricalLine
		)

		if err := rows.Scan(&originID, &l.PartyID, &l.AccountID, &l.Amount, &l.Description); err != nil {
			return nil, fmt.Errorf("scanning line shape: %w", err)
		}

		out[originID] = append(out[originID], l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line shapes: %w", err)
	}

	return out, nil
}
