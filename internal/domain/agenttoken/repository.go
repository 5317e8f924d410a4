package agenttoken

import (
	"context"
	"time"
)

// TokenRepository is the durable installation token store. Update carries
// the same optimistic-concurrency contract as the ticket store: the write
// is conditioned on the loaded version.
type TokenRepository interface {
	Save(ctx context.Context, token *AgentToken) error
	Update(ctx context.Context, token *AgentToken) error
	Delete(ctx context.Context, tokenID uint) error
	GetByID(ctx context.Context, tokenID uint) (*AgentToken, error)
	GetByValue(ctx context.Context, value string) (*AgentToken, error)
	ListByScope(ctx context.Context, clientID, siteID uint) ([]*AgentToken, error)
}

// UsageAttempt is one enrollment attempt, successful or not.
type UsageAttempt struct {
	TokenID    uint
	Success    bool
	Reason     string
	DeviceInfo string
	AttemptAt  time.Time
}

// UsageLogRepository is the append-only usage-history log. Every
// enrollment attempt lands here for audit, including the rejected ones
// that never touch the token's counters.
type UsageLogRepository interface {
	Append(ctx context.Context, attempt UsageAttempt) error
	GetByTokenID(ctx context.Context, tokenID uint) ([]UsageAttempt, error)
}
