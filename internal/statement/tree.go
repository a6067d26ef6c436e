package statement

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tree indexes the suggested lines of an origin by id and by parent.
type Tree struct {
	nodes    map[uuid.UUID]*SuggestedLine
	children map[uuid.UUID][]*SuggestedLine
	roots    []*SuggestedLine
}

func NewTree(lines []*SuggestedLine) *Tree {
	t := &Tree{
		nodes:    make(map[uuid.UUID]*SuggestedLine, len(lines)),
		children: make(map[uuid.UUID][]*SuggestedLine),
	}

	for _, l := range lines {
		t.nodes[l.ID] = l
	}

	for _, l := range lines {
		if l.ParentID == nil {
			t.roots = append(t.roots, l)
			continue
		}

		t.children[*l.ParentID] = append(t.children[*l.ParentID], l)
	}

	return t
}

func (t *Tree) Get(id uuid.UUID) (*SuggestedLine, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

func (t *Tree) Children(id uuid.UUID) []*SuggestedLine {
	return t.children[id]
}

// Leaves returns the children of id, or the node itself when it has none.
func (t *Tree) Leaves(id uuid.UUID) []*SuggestedLine {
	if c := t.children[id]; len(c) > 0 {
		return c
	}

	if n, ok := t.nodes[id]; ok {
		return []*SuggestedLine{n}
	}

	return nil
}

// TopLevel returns the root suggestions ordered by similarity, highest first.
func (t *Tree) TopLevel() []*SuggestedLine {
	roots := make([]*SuggestedLine, len(t.roots))
	copy(roots, t.roots)

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].Similarity > roots[j].Similarity
	})

	return roots
}

// Family returns the root of id together with all its descendants.
func (t *Tree) Family(id uuid.UUID) []*SuggestedLine {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}

	for n.ParentID != nil {
		parent, ok := t.nodes[*n.ParentID]
		if !ok {
			break
		}

		n = parent
	}

	family := []*SuggestedLine{n}
	family = append(family, t.children[n.ID]...)

	return family
}

// ChildrenSum returns the amount the children of id add up to.
func (t *Tree) ChildrenSum(id uuid.UUID) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range t.children[id] {
		sum = sum.Add(c.Amount)
	}

	return sum
}
