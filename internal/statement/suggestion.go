package statement

import (
	"fmt"

	"github.com/google/uuid"
)

// Usage holds the effect of using suggestions on an origin.
type Usage struct {
	Lines []*Line
	Used  []uuid.UUID
}

// Use turns the given suggestions into statement lines. A top-level node is
// expanded to its children; each child that is neither used nor already
// allocated by a line produces one line.
// The origin is updated in memory; the caller persists Usage.
func Use(origin *Origin, ids []uuid.UUID) (*Usage, error) {
	if origin.State != OriginRegistered {
		return nil, fmt.Errorf("origin %s is %s: %w", origin.ID, origin.State, ErrOriginLocked)
	}

	tree := origin.Tree()
	usage := &Usage{}
	allocated := ReferencedSuggestions(origin)

	for _, id := range ids {
		node, ok := tree.Get(id)
		if !ok {
			return nil, fmt.Errorf("suggestion %s of origin %s: %w", id, origin.ID, ErrNotFound)
		}

		if !node.State.CanTransition(SuggestionUsed) {
			return nil, transitionError("suggestion", node.State, SuggestionUsed)
		}

		leaves := tree.Leaves(id)
		for _, leaf := range leaves {
			if leaf.State == SuggestionUsed || allocated[leaf.ID] {
				continue
			}

			allocated[leaf.ID] = true

			line := lineFromSuggestion(origin, leaf)
			usage.Lines = append(usage.Lines, line)
			origin.Lines = append(origin.Lines, line)
		}

		node.State = SuggestionUsed
		usage.Used = append(usage.Used, node.ID)

		if len(leaves) > 1 {
			for _, leaf := range leaves {
				leaf.State = SuggestionUsed
				usage.Used = append(usage.Used, leaf.ID)
			}
		}
	}

	return usage, nil
}

// Propose reopens used suggestions.
func Propose(origin *Origin, ids []uuid.UUID) error {
	tree := origin.Tree()

	for _, id := range ids {
		node, ok := tree.Get(id)
		if !ok {
			return fmt.Errorf("suggestion %s of origin %s: %w", id, origin.ID, ErrNotFound)
		}

		if !node.State.CanTransition(SuggestionProposed) {
			return transitionError("suggestion", node.State, SuggestionProposed)
		}

		node.State = SuggestionProposed
	}

	return nil
}

// Repropose puts the suggestion family that produced line back to proposed
// and returns the ids it changed.
func Repropose(origin *Origin, line *Line) []uuid.UUID {
	if line.SuggestionID == nil {
		return nil
	}

	var changed []uuid.UUID

	for _, s := range origin.Tree().Family(*line.SuggestionID) {
		if s.State != SuggestionUsed {
			continue
		}

		s.State = SuggestionProposed
		changed = append(changed, s.ID)
	}

	return changed
}

// ReferencedSuggestions returns the suggestion ids that lines point at.
func ReferencedSuggestions(origin *Origin) map[uuid.UUID]bool {
	refs := make(map[uuid.UUID]bool)

	for _, l := range origin.Lines {
		if l.SuggestionID != nil {
			refs[*l.SuggestionID] = true
		}
	}

	return refs
}

func lineFromSuggestion(origin *Origin, s *SuggestedLine) *Line {
	suggestionID := s.ID

	date := s.Date
	if date.IsZero() {
		date = origin.Date
	}

	return &Line{
		ID:                   uuid.New(),
		OriginID:             origin.ID,
		StatementID:          origin.StatementID,
		Date:                 date,
		Amount:               s.Amount,
		SecondCurrency:       s.SecondCurrency,
		AmountSecondCurrency: s.AmountSecondCurrency,
		PartyID:              s.PartyID,
		AccountID:            s.AccountID,
		RelatedTo:            s.RelatedTo,
		Description:          origin.RemittanceInformation(),
		SuggestionID:         &suggestionID,
	}
}
