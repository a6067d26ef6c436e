package matching

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

// Exclusions holds the candidates already claimed by an earlier strategy.
type Exclusions struct {
	Groups    map[uuid.UUID]bool
	Payments  map[uuid.UUID]bool
	MoveLines map[uuid.UUID]bool
}

func NewExclusions() *Exclusions {
	return &Exclusions{
		Groups:    make(map[uuid.UUID]bool),
		Payments:  make(map[uuid.UUID]bool),
		MoveLines: make(map[uuid.UUID]bool),
	}
}

func (e *Exclusions) Merge(other *Exclusions) {
	for id := range other.Groups {
		e.Groups[id] = true
	}

	for id := range other.Payments {
		e.Payments[id] = true
	}

	for id := range other.MoveLines {
		e.MoveLines[id] = true
	}
}

func (e *Exclusions) claimPayment(p Payment) {
	e.Payments[p.ID] = true
	if p.MoveLineID != nil {
		e.MoveLines[*p.MoveLineID] = true
	}
}

func (e *Exclusions) paymentClaimed(p Payment) bool {
	if e.Payments[p.ID] {
		return true
	}

	if p.GroupID != nil && e.Groups[*p.GroupID] {
		return true
	}

	return p.MoveLineID != nil && e.MoveLines[*p.MoveLineID]
}

// search is what every strategy knows about the origin being reconciled.
type search struct {
	origin     *statement.Origin
	pending    decimal.Decimal
	kind       Kind
	parties    map[uuid.UUID]int
	acceptable int
	window     int
}

func (s *search) target() decimal.Decimal {
	return s.pending.Abs()
}

// signed gives a positive candidate amount the sign of the pending amount.
func (s *search) signed(amount decimal.Decimal) decimal.Decimal {
	if s.pending.IsNegative() {
		return amount.Neg()
	}

	return amount
}

func (s *search) dateScore(d time.Time, base int) int {
	return BoostByDate(d, s.origin.Date, base, s.window)
}

func (s *search) partyScore(party *uuid.UUID, base int) int {
	return BoostByParty(party, s.parties, base, s.acceptable)
}

// matchClearingGroups proposes clearing payment groups whose total settles
// the pending amount.
func matchClearingGroups(s *search, groups []PaymentGroup, ex *Exclusions) ([]Proposal, *Exclusions) {
	var proposals []Proposal

	consumed := NewExclusions()

	for _, g := range groups {
		if ex.Groups[g.ID] || g.Kind != s.kind || g.Currency != s.origin.Currency {
			continue
		}

		if g.blocked() || !g.Total().Equal(s.target()) {
			continue
		}

		proposals = append(proposals, Proposal{
			Name:       g.Number,
			AccountID:  g.ClearingAccountID,
			Date:       g.Date,
			Amount:     s.pending,
			RelatedTo:  statement.PaymentGroupRef(g.ID),
			Similarity: s.dateScore(g.Date, s.acceptable),
		})

		consumed.Groups[g.ID] = true
		for _, p := range g.Payments {
			consumed.claimPayment(p)
		}
	}

	return proposals, consumed
}

// matchClearingPayments proposes single clearing payments settling the
// pending amount.
func matchClearingPayments(s *search, payments []Payment, ex *Exclusions) ([]Proposal, *Exclusions) {
	var proposals []Proposal

	consumed := NewExclusions()

	for _, p := range payments {
		if ex.paymentClaimed(p) || p.Kind != s.kind || p.Currency != s.origin.Currency {
			continue
		}

		if !p.Amount.Equal(s.target()) {
			continue
		}

		proposals = append(proposals, paymentProposal(s, p, s.pending))
		consumed.claimPayment(p)
	}

	return proposals, consumed
}

func paymentProposal(s *search, p Payment, amount decimal.Decimal) Proposal {
	return Proposal{
		Name:       p.Description,
		PartyID:    p.PartyID,
		AccountID:  p.AccountID,
		Date:       p.Date,
		Amount:     amount,
		RelatedTo:  statement.PaymentRef(p.ID),
		Similarity: s.partyScore(p.PartyID, s.dateScore(p.Date, s.acceptable)),
	}
}

type bucket struct {
	group    uuid.UUID
	date     time.Time
	payments []Payment
}

func (b *bucket) total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.payments {
		total = total.Add(p.Amount)
	}

	return total
}

// matchPaymentGroups looks for grouped payments adding up to the pending
// amount, first across every group and then per group and date.
func matchPaymentGroups(s *search, payments []Payment, ex *Exclusions) ([]Proposal, *Exclusions) {
	var eligible []Payment

	for _, p := range payments {
		if p.GroupID == nil || p.MoveLineID == nil || p.Failed {
			continue
		}

		if ex.paymentClaimed(p) || p.Kind != s.kind || p.Currency != s.origin.Currency {
			continue
		}

		eligible = append(eligible, p)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Date.Before(eligible[j].Date)
	})

	consumed := NewExclusions()
	if len(eligible) == 0 {
		return nil, consumed
	}

	var (
		buckets []*bucket
		total   = decimal.Zero
		groups  = make(map[uuid.UUID]bool)
	)

	index := make(map[string]*bucket)

	for _, p := range eligible {
		total = total.Add(p.Amount)
		groups[*p.GroupID] = true

		k := p.GroupID.String() + "|" + day(p.Date).Format(time.DateOnly)

		b, ok := index[k]
		if !ok {
			b = &bucket{group: *p.GroupID, date: p.Date}
			index[k] = b
			buckets = append(buckets, b)
		}

		b.payments = append(b.payments, p)
	}

	if len(groups) > 1 && total.Equal(s.target()) {
		proposal := combinedPayments(s, eligible)

		for _, p := range eligible {
			consumed.claimPayment(p)
		}

		for id := range groups {
			consumed.Groups[id] = true
		}

		return []Proposal{proposal}, consumed
	}

	var proposals []Proposal

	for _, b := range buckets {
		if !b.total().Equal(s.target()) {
			continue
		}

		if len(b.payments) == 1 {
			proposals = append(proposals, paymentProposal(s, b.payments[0], s.pending))
		} else {
			proposals = append(proposals, Proposal{
				Name:       "Payment group",
				Date:       b.date,
				Amount:     s.pending,
				RelatedTo:  statement.PaymentGroupRef(b.group),
				Similarity: s.dateScore(b.date, s.acceptable),
				Children:   paymentChildren(s, b.payments),
			})
		}

		consumed.Groups[b.group] = true
		for _, p := range b.payments {
			consumed.claimPayment(p)
		}
	}

	return proposals, consumed
}

func combinedPayments(s *search, payments []Payment) Proposal {
	date := payments[0].Date
	score := s.acceptable

	shared := true
	for _, p := range payments[1:] {
		if !sameDay(p.Date, date) {
			shared = false
			break
		}
	}

	if shared {
		score = s.dateScore(date, score)
	} else {
		date = s.origin.Date
	}

	return Proposal{
		Name:       "Payment groups",
		Date:       date,
		Amount:     s.pending,
		Similarity: score,
		Children:   paymentChildren(s, payments),
	}
}

func paymentChildren(s *search, payments []Payment) []Proposal {
	children := make([]Proposal, 0, len(payments))

	for _, p := range payments {
		children = append(children, Proposal{
			Name:      p.Description,
			PartyID:   p.PartyID,
			AccountID: p.AccountID,
			Date:      p.Date,
			Amount:    s.signed(p.Amount),
			RelatedTo: statement.PaymentRef(p.ID),
		})
	}

	return children
}

type accumulation struct {
	lines []MoveLine
}

func (a *accumulation) total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range a.lines {
		total = total.Add(l.Amount())
	}

	return total
}

// matchMoveLines proposes open ledger lines: single lines with the exact
// pending amount, then lines of one document or one party adding up to it.
func matchMoveLines(s *search, lines []MoveLine, ex *Exclusions) ([]Proposal, *Exclusions) {
	var (
		proposals []Proposal
		byDoc     []*accumulation
		byParty   []*accumulation
	)

	consumed := NewExclusions()
	docIndex := make(map[string]*accumulation)
	partyIndex := make(map[uuid.UUID]*accumulation)

	for _, l := range lines {
		if ex.MoveLines[l.ID] {
			continue
		}

		if l.Amount().Equal(s.pending) {
			proposals = append(proposals, moveLineProposal(s, l))
			consumed.MoveLines[l.ID] = true

			continue
		}

		if l.Document != "" {
			a, ok := docIndex[l.Document]
			if !ok {
				a = &accumulation{}
				docIndex[l.Document] = a
				byDoc = append(byDoc, a)
			}

			a.lines = append(a.lines, l)
		}

		if l.PartyID != nil {
			a, ok := partyIndex[*l.PartyID]
			if !ok {
				a = &accumulation{}
				partyIndex[*l.PartyID] = a
				byParty = append(byParty, a)
			}

			a.lines = append(a.lines, l)
		}
	}

	for _, a := range append(byDoc, byParty...) {
		if len(a.lines) < 2 || !a.total().Equal(s.pending) {
			continue
		}

		proposals = append(proposals, groupedMoveLines(s, a.lines))
		for _, l := range a.lines {
			consumed.MoveLines[l.ID] = true
		}
	}

	return proposals, consumed
}

func moveLineProposal(s *search, l MoveLine) Proposal {
	account := l.AccountID
	name := l.Description
	if name == "" {
		name = l.Document
	}

	return Proposal{
		Name:                 name,
		PartyID:              l.PartyID,
		AccountID:            &account,
		Date:                 l.DueDate(),
		Amount:               l.Amount(),
		SecondCurrency:       l.SecondCurrency,
		AmountSecondCurrency: l.AmountSecondCurrency,
		RelatedTo:            statement.MoveLineRef(l.ID),
		Similarity:           s.partyScore(l.PartyID, s.dateScore(l.DueDate(), s.acceptable)),
	}
}

func groupedMoveLines(s *search, lines []MoveLine) Proposal {
	score := s.acceptable
	date := s.origin.Date

	if due := lines[0].DueDate(); allLines(lines, func(l MoveLine) bool { return sameDay(l.DueDate(), due) }) {
		date = due
		score = s.dateScore(due, score)
	}

	var party *uuid.UUID
	if first := lines[0].PartyID; first != nil && allLines(lines, func(l MoveLine) bool {
		return l.PartyID != nil && *l.PartyID == *first
	}) {
		party = first
		score = s.partyScore(party, score)
	}

	children := make([]Proposal, 0, len(lines))
	for _, l := range lines {
		child := moveLineProposal(s, l)
		child.Similarity = 0
		children = append(children, child)
	}

	return Proposal{
		Name:       documentNames(lines),
		PartyID:    party,
		Date:       date,
		Amount:     s.pending,
		Similarity: score,
		Children:   children,
	}
}

func allLines(lines []MoveLine, fn func(MoveLine) bool) bool {
	for _, l := range lines {
		if !fn(l) {
			return false
		}
	}

	return true
}

func documentNames(lines []MoveLine) string {
	var names []string

	seen := make(map[string]bool)
	for _, l := range lines {
		if l.Document == "" || seen[l.Document] {
			continue
		}

		seen[l.Document] = true
		names = append(names, l.Document)
	}

	return strings.Join(names, ", ")
}

// matchHistory replicates how similar posted origins were allocated. It
// never claims candidates.
func matchHistory(s *search, history []HistoricalOrigin, threshold int) []Proposal {
	var proposals []Proposal

	for _, h := range history {
		if h.Similarity < threshold || len(h.Lines) == 0 {
			continue
		}

		if len(h.Lines) == 1 {
			proposals = append(proposals, historicalLine(s, h, h.Lines[0], s.pending, h.Similarity))
			continue
		}

		if h.Amount.IsZero() {
			continue
		}

		children := make([]Proposal, 0, len(h.Lines))
		remaining := s.pending

		for i, l := range h.Lines {
			amount := remaining
			if i < len(h.Lines)-1 {
				amount = s.pending.Mul(l.Amount).Div(h.Amount).Round(2)
				remaining = remaining.Sub(amount)
			}

			children = append(children, historicalLine(s, h, l, amount, 0))
		}

		proposals = append(proposals, Proposal{
			Name:       h.Remittance,
			Date:       s.origin.Date,
			Amount:     s.pending,
			Similarity: h.Similarity,
			Children:   children,
		})
	}

	return proposals
}

func historicalLine(s *search, h HistoricalOrigin, l HistoricalLine, amount decimal.Decimal, score int) Proposal {
	name := l.Description
	if name == "" {
		name = h.Remittance
	}

	return Proposal{
		Name:       name,
		PartyID:    l.PartyID,
		AccountID:  l.AccountID,
		Date:       s.origin.Date,
		Amount:     amount,
		Similarity: score,
	}
}
