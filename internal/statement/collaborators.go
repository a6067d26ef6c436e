package statement

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=collaborators.go -destination=collaborators_mock.go -package=statement

// Moves writes accounting moves inside the transaction that links them to
// statement lines, so a rollback discards both.
type Moves interface {
	PostMove(ctx context.Context, spec MoveSpec) (*Move, error)
	// CancelMove posts a counter-move for moveID and returns it. The
	// original move keeps its origin reference. A move is reversed at most
	// once.
	CancelMove(ctx context.Context, moveID uuid.UUID) (*Move, error)
}

// Ledger is the accounting subsystem statement lines are posted to.
type Ledger interface {
	InvoiceStates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]InvoiceState, error)
	// ValidateStatement posts the statement when its own checks pass.
	ValidateStatement(ctx context.Context, statementID uuid.UUID) error
}

// Journals provides the reconciliation settings of a journal.
type Journals interface {
	Journal(ctx context.Context, id uuid.UUID) (*Journal, error)
}
