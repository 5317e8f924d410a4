package usecases

import (
	"context"
)

// TransactionRunner executes fn inside a storage transaction. Repositories
// resolve the transaction from the context they receive.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type ApplyTransitionExecutor interface {
	Execute(ctx context.Context, cmd ApplyTransitionCommand) (*ApplyTransitionResult, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, cmd GetTicketCommand) (*GetTicketResult, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, cmd ListTicketsCommand) (*ListTicketsResult, error)
}

type ListTransitionsExecutor interface {
	Execute(ctx context.Context, cmd ListTransitionsCommand) (*ListTransitionsResult, error)
}
