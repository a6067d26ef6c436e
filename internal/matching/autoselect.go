package matching

import "github.com/MrJamesThe3rd/banksync/internal/statement"

// SelectBest returns the top-level suggestion to use automatically: the one
// holding the strict maximum score, provided it reaches acceptable. A tie for
// the maximum selects nothing.
func SelectBest(tree *statement.Tree, acceptable int) *statement.SuggestedLine {
	var best *statement.SuggestedLine

	for _, s := range tree.TopLevel() {
		if s.State != statement.SuggestionProposed {
			continue
		}

		if s.Similarity < acceptable {
			break
		}

		if best == nil {
			best = s
			continue
		}

		if s.Similarity == best.Similarity {
			return nil
		}

		break
	}

	return best
}
