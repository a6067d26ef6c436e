// Package statementtest provides an in-memory statement.Repository for tests.
package statementtest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

var (
	errTxDone     = errors.New("statementtest: transaction already finished")
	errUnbalanced = errors.New("statementtest: move is not balanced")
)

type state struct {
	statements map[uuid.UUID]*statement.Statement
	origins    map[uuid.UUID]*statement.Origin
	moves      []*Move
}

// Move is a move held by the in-memory ledger.
type Move struct {
	statement.Move
	Spec statement.MoveSpec
}

// Repository keeps statements and origins in memory. Transactions work on a
// copy that replaces the committed state on Commit.
type Repository struct {
	mu    sync.Mutex
	state *state

	// FailCreateSuggestions, when set, is returned by Tx.CreateSuggestions.
	FailCreateSuggestions error

	// MoveFailure, when set, is called before every move a transaction
	// writes with its 1-based position in that transaction. A non-nil
	// result fails the write.
	MoveFailure func(n int) error
}

func NewRepository() *Repository {
	return &Repository{state: &state{
		statements: make(map[uuid.UUID]*statement.Statement),
		origins:    make(map[uuid.UUID]*statement.Origin),
	}}
}

// AddOrigin stores a copy of o, assigning ids where missing.
func (r *Repository) AddOrigin(o *statement.Origin) *statement.Origin {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	if o.State == "" {
		o.State = statement.OriginRegistered
	}

	for _, l := range o.Lines {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}

		l.OriginID = o.ID
	}

	r.state.origins[o.ID] = cloneOrigin(o)

	return o
}

func (r *Repository) GetOrigin(_ context.Context, id uuid.UUID) (*statement.Origin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.state.origins[id]
	if !ok {
		return nil, statement.ErrNotFound
	}

	return cloneOrigin(o), nil
}

func (r *Repository) ListOrigins(_ context.Context, filter statement.ListFilter) ([]*statement.Origin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*statement.Origin

	for _, o := range r.state.origins {
		if filter.StatementID != nil && o.StatementID != *filter.StatementID {
			continue
		}

		if filter.JournalID != nil && o.JournalID != *filter.JournalID {
			continue
		}

		if filter.State != nil && o.State != *filter.State {
			continue
		}

		if filter.StartDate != nil && o.Date.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && o.Date.After(*filter.EndDate) {
			continue
		}

		out = append(out, cloneOrigin(o))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

// AddMove stores a committed move built from spec and returns its id.
func (r *Repository) AddMove(spec statement.MoveSpec) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := &Move{Move: statement.Move{ID: uuid.New(), OriginID: spec.OriginID}, Spec: spec}
	r.state.moves = append(r.state.moves, m)

	return m.ID
}

// PostedMoves returns the committed moves in posting order.
func (r *Repository) PostedMoves() []Move {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Move, 0, len(r.state.moves))
	for _, m := range r.state.moves {
		out = append(out, *m)
	}

	return out
}

// Statements returns the committed statements.
func (r *Repository) Statements() []*statement.Statement {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*statement.Statement, 0, len(r.state.statements))
	for _, st := range r.state.statements {
		cp := *st
		out = append(out, &cp)
	}

	return out
}

func (r *Repository) Begin(_ context.Context) (statement.Tx, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &tx{repo: r, state: cloneState(r.state)}, nil
}

type tx struct {
	repo   *Repository
	state  *state
	done   bool
	writes int
}

func (t *tx) Commit() error {
	if t.done {
		return errTxDone
	}

	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	t.repo.state = t.state
	t.done = true

	return nil
}

func (t *tx) Moves() statement.Moves {
	return (*moves)(t)
}

func (t *tx) Rollback() error {
	t.done = true
	return nil
}

func (t *tx) LockOrigins(_ context.Context, ids []uuid.UUID) ([]*statement.Origin, error) {
	out := make([]*statement.Origin, 0, len(ids))

	for _, id := range ids {
		o, ok := t.state.origins[id]
		if !ok {
			continue
		}

		out = append(out, cloneOrigin(o))
	}

	return out, nil
}

func (t *tx) ExistingReferences(_ context.Context, journalID uuid.UUID, refs []string) (map[string]bool, error) {
	wanted := make(map[string]bool, len(refs))
	for _, ref := range refs {
		wanted[ref] = true
	}

	found := make(map[string]bool)

	for _, o := range t.state.origins {
		if o.JournalID == journalID && wanted[o.EntryReference] {
			found[o.EntryReference] = true
		}
	}

	return found, nil
}

func (t *tx) CreateStatement(_ context.Context, st *statement.Statement) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}

	cp := *st
	t.state.statements[st.ID] = &cp

	return nil
}

func (t *tx) CreateOrigins(_ context.Context, origins []*statement.Origin) error {
	for _, o := range origins {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}

		t.state.origins[o.ID] = cloneOrigin(o)
	}

	return nil
}

func (t *tx) UpdateOriginState(_ context.Context, id uuid.UUID, s statement.OriginState) error {
	o, ok := t.state.origins[id]
	if !ok {
		return statement.ErrNotFound
	}

	o.State = s

	return nil
}

func (t *tx) DeleteOrigin(_ context.Context, id uuid.UUID) error {
	if _, ok := t.state.origins[id]; !ok {
		return statement.ErrNotFound
	}

	delete(t.state.origins, id)

	return nil
}

func (t *tx) CreateLines(_ context.Context, lines []*statement.Line) error {
	for _, l := range lines {
		o, ok := t.state.origins[l.OriginID]
		if !ok {
			return statement.ErrNotFound
		}

		cp := *l
		o.Lines = append(o.Lines, &cp)
	}

	return nil
}

func (t *tx) UpdateLine(_ context.Context, line *statement.Line) error {
	o, ok := t.state.origins[line.OriginID]
	if !ok {
		return statement.ErrNotFound
	}

	for i, l := range o.Lines {
		if l.ID == line.ID {
			cp := *line
			o.Lines[i] = &cp

			return nil
		}
	}

	return statement.ErrNotFound
}

func (t *tx) DeleteLines(_ context.Context, ids []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	for _, o := range t.state.origins {
		kept := o.Lines[:0]
		for _, l := range o.Lines {
			if !drop[l.ID] {
				kept = append(kept, l)
			}
		}

		o.Lines = kept
	}

	return nil
}

func (t *tx) CreateSuggestions(_ context.Context, suggestions []*statement.SuggestedLine) error {
	if t.repo.FailCreateSuggestions != nil {
		return t.repo.FailCreateSuggestions
	}

	for _, s := range suggestions {
		o, ok := t.state.origins[s.OriginID]
		if !ok {
			return statement.ErrNotFound
		}

		cp := *s
		o.Suggestions = append(o.Suggestions, &cp)
	}

	return nil
}

func (t *tx) DeleteSuggestions(_ context.Context, ids []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	for _, o := range t.state.origins {
		for _, l := range o.Lines {
			if l.SuggestionID != nil && drop[*l.SuggestionID] {
				return statement.ErrSuggestionInUse
			}
		}

		kept := o.Suggestions[:0]
		for _, s := range o.Suggestions {
			if !drop[s.ID] {
				kept = append(kept, s)
			}
		}

		o.Suggestions = kept
	}

	return nil
}

func (t *tx) UpdateSuggestionStates(_ context.Context, ids []uuid.UUID, s statement.SuggestionState) error {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	for _, o := range t.state.origins {
		for _, sl := range o.Suggestions {
			if set[sl.ID] {
				sl.State = s
			}
		}
	}

	return nil
}

// moves writes to the ledger copy of its transaction.
type moves tx

func (m *moves) write() error {
	m.writes++

	if m.repo.MoveFailure != nil {
		return m.repo.MoveFailure(m.writes)
	}

	return nil
}

func (m *moves) PostMove(_ context.Context, spec statement.MoveSpec) (*statement.Move, error) {
	if err := m.write(); err != nil {
		return nil, err
	}

	if !spec.Balanced() {
		return nil, errUnbalanced
	}

	mv := &Move{Move: statement.Move{ID: uuid.New(), OriginID: spec.OriginID}, Spec: spec}
	m.state.moves = append(m.state.moves, mv)

	out := mv.Move

	return &out, nil
}

func (m *moves) CancelMove(_ context.Context, moveID uuid.UUID) (*statement.Move, error) {
	if err := m.write(); err != nil {
		return nil, err
	}

	var original *Move

	for _, mv := range m.state.moves {
		if mv.ID == moveID {
			original = mv
		}

		if mv.ReversalOf != nil && *mv.ReversalOf == moveID {
			return nil, statement.ErrMoveReversed
		}
	}

	if original == nil {
		return nil, statement.ErrNotFound
	}

	id := moveID
	reversal := &Move{
		Move: statement.Move{ID: uuid.New(), OriginID: original.OriginID, ReversalOf: &id},
		Spec: original.Spec,
	}
	m.state.moves = append(m.state.moves, reversal)

	out := reversal.Move

	return &out, nil
}

func cloneState(s *state) *state {
	out := &state{
		statements: make(map[uuid.UUID]*statement.Statement, len(s.statements)),
		origins:    make(map[uuid.UUID]*statement.Origin, len(s.origins)),
		moves:      append([]*Move(nil), s.moves...),
	}

	for id, st := range s.statements {
		cp := *st
		out.statements[id] = &cp
	}

	for id, o := range s.origins {
		out.origins[id] = cloneOrigin(o)
	}

	return out
}

func cloneOrigin(o *statement.Origin) *statement.Origin {
	cp := *o

	cp.Information = make(map[string]string, len(o.Information))
	for k, v := range o.Information {
		cp.Information[k] = v
	}

	cp.Lines = make([]*statement.Line, 0, len(o.Lines))
	for _, l := range o.Lines {
		lc := *l
		cp.Lines = append(cp.Lines, &lc)
	}

	cp.Suggestions = make([]*statement.SuggestedLine, 0, len(o.Suggestions))
	for _, s := range o.Suggestions {
		sc := *s
		cp.Suggestions = append(cp.Suggestions, &sc)
	}

	return &cp
}
