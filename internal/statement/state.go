package statement

import (
	"errors"
	"fmt"
)

// OriginState represents the lifecycle state of an origin.
type OriginState string

const (
	OriginRegistered OriginState = "registered"
	OriginCancelled  OriginState = "cancelled"
	OriginPosted     OriginState = "posted"
)

// SuggestionState represents whether a suggestion has been applied.
type SuggestionState string

const (
	SuggestionProposed SuggestionState = "proposed"
	SuggestionUsed     SuggestionState = "used"
)

var originTransitions = map[OriginState][]OriginState{
	OriginRegistered: {OriginPosted, OriginCancelled},
	OriginCancelled:  {OriginRegistered},
	OriginPosted:     {OriginCancelled},
}

var suggestionTransitions = map[SuggestionState][]SuggestionState{
	SuggestionProposed: {SuggestionUsed},
	SuggestionUsed:     {SuggestionProposed},
}

// Valid reports whether s is a known origin state.
func (s OriginState) Valid() bool {
	_, ok := originTransitions[s]
	return ok
}

func (s OriginState) CanTransition(to OriginState) bool {
	for _, allowed := range originTransitions[s] {
		if allowed == to {
			return true
		}
	}

	return false
}

func (s SuggestionState) CanTransition(to SuggestionState) bool {
	for _, allowed := range suggestionTransitions[s] {
		if allowed == to {
			return true
		}
	}

	return false
}

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrAmountMismatch    = errors.New("lines do not add up to the origin amount")
	ErrSuggestionInUse   = errors.New("suggestion is referenced by a statement line")
	ErrNotDeletable      = errors.New("origin can only be deleted when registered or cancelled")
	ErrOriginLocked      = errors.New("origin does not accept line changes in its current state")
	ErrMoveReversed      = errors.New("move is already reversed")
	ErrInvalidLine       = errors.New("invalid statement line")
)

// WarningError is returned when an operation needs the user to confirm it.
// Repeating the call with confirmation proceeds.
type WarningError struct {
	Key     string
	Message string
}

func (e *WarningError) Error() string {
	return e.Message
}

// IsWarning reports whether err carries a confirmable warning.
func IsWarning(err error) bool {
	var w *WarningError
	return errors.As(err, &w)
}

func transitionError(kind string, from, to any) error {
	return fmt.Errorf("%s %v -> %v: %w", kind, from, to, ErrInvalidTransition)
}
