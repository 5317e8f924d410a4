package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type RecordUsageCommand struct {
	TokenID        uint
	IdempotencyKey string
	Success        bool
	FailureReason  string
	DeviceInfo     string
}

type RecordUsageResult struct {
	// Duplicate reports whether this call was fenced as a retry of an
	// attempt already recorded inside the dedup window.
	Duplicate bool
}

// RecordUsageUseCase records one enrollment attempt. Successful attempts
// bump the token's counters; failed ones only land in the usage log.
// Network retries carrying the same idempotency key are absorbed without
// double-incrementing.
type RecordUsageUseCase struct {
	tokenRepo   agenttoken.TokenRepository
	usageLog    agenttoken.UsageLogRepository
	idempotency IdempotencyStore
	dedupWindow time.Duration
	logger      logger.Interface
}

func NewRecordUsageUseCase(
	tokenRepo agenttoken.TokenRepository,
	usageLog agenttoken.UsageLogRepository,
	idempotency IdempotencyStore,
	dedupWindow time.Duration,
	logger logger.Interface,
) *RecordUsageUseCase {
	return &RecordUsageUseCase{
		tokenRepo:   tokenRepo,
		usageLog:    usageLog,
		idempotency: idempotency,
		dedupWindow: dedupWindow,
		logger:      logger,
	}
}

func (uc *RecordUsageUseCase) Execute(ctx context.Context, cmd RecordUsageCommand) (*RecordUsageResult, error) {
	if cmd.TokenID == 0 {
		return nil, errors.NewValidationError("token ID is required")
	}
	key := strings.TrimSpace(cmd.IdempotencyKey)
	if key == "" {
		return nil, errors.NewMissingFieldError("idempotency_key")
	}

	fenceKey := fmt.Sprintf("token-usage:%d:%s", cmd.TokenID, key)
	acquired, err := uc.idempotency.TryAcquire(ctx, fenceKey, uc.dedupWindow)
	if err != nil {
		uc.logger.Errorw("idempotency check failed", "token_id", cmd.TokenID, "error", err)
		return nil, errors.NewStoreError("failed to check idempotency key", err)
	}
	if !acquired {
		uc.logger.Infow("duplicate usage report absorbed", "token_id", cmd.TokenID, "key", key)
		return &RecordUsageResult{Duplicate: true}, nil
	}

	if cmd.Success {
		token, terr := uc.tokenRepo.GetByID(ctx, cmd.TokenID)
		if terr != nil {
			uc.releaseFence(ctx, fenceKey)
			return nil, terr
		}
		token.RecordUsage()
		if uerr := uc.tokenRepo.Update(ctx, token); uerr != nil {
			// The increment never landed; give the key back so the agent's
			// retry is a fresh attempt instead of an absorbed duplicate.
			uc.logger.Errorw("failed to persist usage counters", "token_id", cmd.TokenID, "error", uerr)
			uc.releaseFence(ctx, fenceKey)
			return nil, uerr
		}
	}

	attempt := agenttoken.UsageAttempt{
		TokenID:    cmd.TokenID,
		Success:    cmd.Success,
		Reason:     strings.TrimSpace(cmd.FailureReason),
		DeviceInfo: strings.TrimSpace(cmd.DeviceInfo),
		AttemptAt:  biztime.NowUTC(),
	}
	if err := uc.usageLog.Append(ctx, attempt); err != nil {
		uc.logger.Errorw("failed to append usage log", "token_id", cmd.TokenID, "error", err)
		if !cmd.Success {
			// Nothing landed for a failed attempt, so the retry may start over.
			uc.releaseFence(ctx, fenceKey)
		}
		// After a successful attempt the counters already moved and the key
		// stays held: a retry must read as a duplicate, not increment twice.
		return nil, errors.NewStoreError("failed to append usage log", err)
	}

	return &RecordUsageResult{}, nil
}

// releaseFence is best-effort: if the release itself fails the key simply
// ages out at the end of the dedup window.
func (uc *RecordUsageUseCase) releaseFence(ctx context.Context, fenceKey string) {
	if rerr := uc.idempotency.Release(ctx, fenceKey); rerr != nil {
		uc.logger.Warnw("failed to release idempotency key", "key", fenceKey, "error", rerr)
	}
}
