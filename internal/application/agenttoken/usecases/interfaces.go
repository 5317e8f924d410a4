package usecases

import (
	"context"
	"time"
)

// IdempotencyStore fences duplicate requests. TryAcquire returns true the
// first time a key is seen inside the window and false for every retry
// while the key is still held. Release gives a key back when the fenced
// work did not take effect, so the caller's retry is not absorbed as a
// duplicate of an attempt that never landed.
type IdempotencyStore interface {
	TryAcquire(ctx context.Context, key string, window time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type IssueTokenExecutor interface {
	Execute(ctx context.Context, cmd IssueTokenCommand) (*IssueTokenResult, error)
}

type ValidateTokenExecutor interface {
	Execute(ctx context.Context, cmd ValidateTokenCommand) (*ValidateTokenResult, error)
}

type RecordUsageExecutor interface {
	Execute(ctx context.Context, cmd RecordUsageCommand) (*RecordUsageResult, error)
}

type SetTokenActiveExecutor interface {
	Execute(ctx context.Context, cmd SetTokenActiveCommand) (*SetTokenActiveResult, error)
}

type DeleteTokenExecutor interface {
	Execute(ctx context.Context, cmd DeleteTokenCommand) error
}

type ListTokensExecutor interface {
	Execute(ctx context.Context, cmd ListTokensCommand) (*ListTokensResult, error)
}

type GetUsageHistoryExecutor interface {
	Execute(ctx context.Context, cmd GetUsageHistoryCommand) (*GetUsageHistoryResult, error)
}
