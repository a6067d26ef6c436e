// Package enablebanking is the Enable Banking aggregator client.
package enablebanking

import (
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/banksync/internal/banksync"
	"github.com/MrJamesThe3rd/banksync/internal/encoding"
)

const (
	DefaultBaseURL = "https://api.enablebanking.com"

	tokenTTL    = time.Hour
	tokenMargin = 5 * time.Minute
)

type Config struct {
	BaseURL       string
	ApplicationID string
	PrivateKey    *rsa.PrivateKey
}

type Client struct {
	cfg    Config
	client *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// LoadPrivateKey reads the PEM encoded RSA key of the application.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	return key, nil
}

type amount struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type party struct {
	Name string `json:"name"`
}

type transactionCode struct {
	Code        string `json:"code"`
	SubCode     string `json:"sub_code"`
	Description string `json:"description"`
}

type transaction struct {
	EntryReference        string           `json:"entry_reference"`
	TransactionID         string           `json:"transaction_id"`
	TransactionAmount     amount           `json:"transaction_amount"`
	CreditDebitIndicator  string           `json:"credit_debit_indicator"`
	BookingDate           string           `json:"booking_date"`
	ValueDate             string           `json:"value_date"`
	RemittanceInformation []string         `json:"remittance_information"`
	Debtor                *party           `json:"debtor"`
	Creditor              *party           `json:"creditor"`
	BankTransactionCode   *transactionCode `json:"bank_transaction_code"`
}

type transactionsResponse struct {
	Transactions    []transaction `json:"transactions"`
	ContinuationKey string        `json:"continuation_key"`
}

type errorResponse struct {
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

// Transactions fetches one page of the account's transactions.
func (c *Client) Transactions(ctx context.Context, accountUID string, q banksync.TransactionQuery) (*banksync.Page, error) {
	params := url.Values{}
	if !q.DateFrom.IsZero() {
		params.Set("date_from", q.DateFrom.Format(time.DateOnly))
	}

	if q.ContinuationKey != "" {
		params.Set("continuation_key", q.ContinuationKey)
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/transactions", c.cfg.BaseURL, url.PathEscape(accountUID))
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body transactionsResponse
	if err := c.get(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	page := &banksync.Page{
		Transactions:    make([]banksync.Transaction, 0, len(body.Transactions)),
		ContinuationKey: body.ContinuationKey,
	}

	for _, t := range body.Transactions {
		tx, err := convert(t)
		if err != nil {
			return nil, err
		}

		page.Transactions = append(page.Transactions, tx)
	}

	return page, nil
}

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	token, err := c.bearer()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode != http.StatusOK {
		return upstreamError(resp.StatusCode, resp.Body, contentType)
	}

	return encoding.DecodeJSON(resp.Body, contentType, v)
}

func upstreamError(status int, body io.Reader, contentType string) error {
	var e errorResponse
	if err := encoding.DecodeJSON(body, contentType, &e); err != nil || e.Message == "" {
		return &banksync.UpstreamError{Status: status, Message: http.StatusText(status)}
	}

	msg := e.Message
	if e.Detail != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Detail)
	}

	return &banksync.UpstreamError{Status: status, Message: msg}
}

// bearer returns the cached application token, signing a new one shortly
// before the current one expires.
func (c *Client) bearer() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.token != "" && now.Add(tokenMargin).Before(c.expiresAt) {
		return c.token, nil
	}

	if c.cfg.PrivateKey == nil {
		return "", fmt.Errorf("enable banking private key not configured")
	}

	expiresAt := now.Add(tokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    "enablebanking.com",
		Audience:  jwt.ClaimStrings{"api.enablebanking.com"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = c.cfg.ApplicationID

	signed, err := token.SignedString(c.cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	c.token, c.expiresAt = signed, expiresAt

	return signed, nil
}

func convert(t transaction) (banksync.Transaction, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(t.TransactionAmount.Amount))
	if err != nil {
		return banksync.Transaction{}, fmt.Errorf("transaction %s amount %q: %w", t.EntryReference, t.TransactionAmount.Amount, err)
	}

	out := banksync.Transaction{
		EntryReference:        t.EntryReference,
		TransactionID:         t.TransactionID,
		Amount:                value,
		Currency:              t.TransactionAmount.Currency,
		Indicator:             banksync.Indicator(t.CreditDebitIndicator),
		RemittanceInformation: t.RemittanceInformation,
	}

	if out.BookingDate, err = parseDate(t.BookingDate); err != nil {
		return banksync.Transaction{}, err
	}

	if out.ValueDate, err = parseDate(t.ValueDate); err != nil {
		return banksync.Transaction{}, err
	}

	if t.Debtor != nil {
		out.DebtorName = t.Debtor.Name
	}

	if t.Creditor != nil {
		out.CreditorName = t.Creditor.Name
	}

	if code := t.BankTransactionCode; code != nil {
		out.BankTransactionCode = code.Description
		if out.BankTransactionCode == "" {
			out.BankTransactionCode = strings.Trim(code.Code+"-"+code.SubCode, "-")
		}
	}

	return out, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return &d, nil
}
