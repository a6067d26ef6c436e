package banksync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/banksync/internal/matching"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

// Config holds the synchronization settings.
type Config struct {
	DateField  DateField
	OffsetDays int
}

type Service struct {
	client    Client
	journals  Journals
	importer  Importer
	suggester Suggester
	cfg       Config
	now       func() time.Time
}

func NewService(client Client, journals Journals, importer Importer, suggester Suggester, cfg Config) *Service {
	if cfg.DateField == "" {
		cfg.DateField = BookingDate
	}

	return &Service{
		client:    client,
		journals:  journals,
		importer:  importer,
		suggester: suggester,
		cfg:       cfg,
		now:       time.Now,
	}
}

type Result struct {
	Statement *statement.Statement
	Imported  int
	Skipped   int
	Outcomes  []matching.Outcome

	originIDs []uuid.UUID
}

// Sync fetches the journal's transactions since its last synchronization,
// stores the new ones as origins of a fresh statement and computes their
// suggestions.
func (s *Service) Sync(ctx context.Context, journalID uuid.UUID) (*Result, error) {
	journal, err := s.journals.Journal(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("loading journal: %w", err)
	}

	if journal.BankAccountUID == "" {
		return nil, fmt.Errorf("journal %s: %w", journal.Name, ErrAccountNotFound)
	}

	now := s.now()
	from := s.dateFrom(journal, now)

	txs, err := s.fetch(ctx, journal.BankAccountUID, from)
	if err != nil {
		return nil, err
	}

	result, err := s.store(ctx, journal, txs)
	if err != nil {
		return nil, err
	}

	if err := s.journals.MarkSynced(ctx, journal.ID, now); err != nil {
		return nil, err
	}

	slog.Info("journal synchronized",
		"journal", journal.Name, "from", from.Format(time.DateOnly),
		"fetched", len(txs), "imported", result.Imported, "skipped", result.Skipped)

	return s.suggest(ctx, result)
}

// store converts txs into origins and imports them in a new statement.
func (s *Service) store(ctx context.Context, journal *statement.Journal, txs []Transaction) (*Result, error) {
	origins := make([]*statement.Origin, 0, len(txs))

	for _, t := range txs {
		o, err := s.origin(journal, t)
		if err != nil {
			return nil, err
		}

		origins = append(origins, o)
	}

	now := s.now()

	st := &statement.Statement{
		JournalID: journal.ID,
		Name:      fmt.Sprintf("%s %s", journal.Name, now.Format("2006-01-02 15:04")),
		Date:      now,
	}

	imported, err := s.importer.ImportOrigins(ctx, st, origins)
	if err != nil {
		return nil, fmt.Errorf("importing origins: %w", err)
	}

	result := &Result{
		Statement: imported.Statement,
		Imported:  len(imported.Imported),
		Skipped:   len(imported.Skipped),
	}

	for _, o := range imported.Imported {
		result.originIDs = append(result.originIDs, o.ID)
	}

	return result, nil
}

func (s *Service) suggest(ctx context.Context, result *Result) (*Result, error) {
	if len(result.originIDs) == 0 {
		return result, nil
	}

	var err error
	if result.Outcomes, err = s.suggester.Search(ctx, result.originIDs); err != nil {
		return nil, fmt.Errorf("computing suggestions: %w", err)
	}

	return result, nil
}

func (s *Service) dateFrom(journal *statement.Journal, now time.Time) time.Time {
	base := now
	if journal.LastSync != nil {
		base = *journal.LastSync
	}

	y, m, d := base.AddDate(0, 0, -s.cfg.OffsetDays).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) fetch(ctx context.Context, accountUID string, from time.Time) ([]Transaction, error) {
	var (
		all []Transaction
		q   = TransactionQuery{DateFrom: from}
	)

	for {
		page, err := s.client.Transactions(ctx, accountUID, q)
		if err != nil {
			return nil, fmt.Errorf("fetching transactions: %w", err)
		}

		all = append(all, page.Transactions...)

		if page.ContinuationKey == "" {
			return all, nil
		}

		q.ContinuationKey = page.ContinuationKey
	}
}

func (s *Service) origin(journal *statement.Journal, t Transaction) (*statement.Origin, error) {
	if t.Currency != "" && !strings.EqualFold(t.Currency, journal.Currency) {
		return nil, fmt.Errorf("transaction %s in %s: %w", t.EntryReference, t.Currency, ErrCurrencyMismatch)
	}

	amount := t.Amount.Abs()
	if t.Indicator == Debit {
		amount = amount.Neg()
	}

	ref := t.EntryReference
	if ref == "" {
		ref = t.TransactionID
	}

	info := map[string]string{}
	if remittance := strings.Join(t.RemittanceInformation, " "); remittance != "" {
		info[statement.InfoRemittance] = remittance
	}

	for key, value := range map[string]string{
		statement.InfoDebtorName:          t.DebtorName,
		statement.InfoCreditorName:        t.CreditorName,
		statement.InfoBankTransactionCode: t.BankTransactionCode,
	} {
		if value != "" {
			info[key] = value
		}
	}

	return &statement.Origin{
		ID:             uuid.New(),
		JournalID:      journal.ID,
		EntryReference: ref,
		Amount:         amount.Round(2),
		Currency:       journal.Currency,
		Date:           s.date(t),
		Information:    info,
	}, nil
}

// date picks the configured date field, falling back to the other one.
func (s *Service) date(t Transaction) time.Time {
	first, second := t.BookingDate, t.ValueDate
	if s.cfg.DateField == ValueDate {
		first, second = second, first
	}

	switch {
	case first != nil:
		return *first
	case second != nil:
		return *second
	}

	return s.now()
}
