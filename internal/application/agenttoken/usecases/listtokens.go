package usecases

import (
	"context"

	"helpdesk/internal/application/agenttoken/dto"
	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ListTokensCommand struct {
	Actor    authorization.Actor
	ClientID uint
	SiteID   uint
}

type ListTokensResult struct {
	Tokens []*dto.AgentTokenDTO
}

// ListTokensUseCase lists tokens in a client/site scope. Values come back
// masked; the raw value is only ever shown at issuance.
type ListTokensUseCase struct {
	tokenRepo agenttoken.TokenRepository
	logger    logger.Interface
}

func NewListTokensUseCase(tokenRepo agenttoken.TokenRepository, logger logger.Interface) *ListTokensUseCase {
	return &ListTokensUseCase{tokenRepo: tokenRepo, logger: logger}
}

func (uc *ListTokensUseCase) Execute(ctx context.Context, cmd ListTokensCommand) (*ListTokensResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}
	if !cmd.Actor.Role.CanManageTokens() {
		return nil, errors.NewForbiddenError("role cannot view installation tokens")
	}
	if cmd.ClientID == 0 {
		return nil, errors.NewValidationError("client ID is required")
	}

	tokens, err := uc.tokenRepo.ListByScope(ctx, cmd.ClientID, cmd.SiteID)
	if err != nil {
		uc.logger.Errorw("failed to list tokens", "client_id", cmd.ClientID, "error", err)
		return nil, errors.NewStoreError("failed to list tokens", err)
	}

	dtos := make([]*dto.AgentTokenDTO, 0, len(tokens))
	for _, t := range tokens {
		dtos = append(dtos, dto.ToAgentTokenDTO(t, false))
	}
	return &ListTokensResult{Tokens: dtos}, nil
}

type GetUsageHistoryCommand struct {
	Actor   authorization.Actor
	TokenID uint
}

type GetUsageHistoryResult struct {
	Attempts []dto.UsageAttemptDTO
}

type GetUsageHistoryUseCase struct {
	tokenRepo agenttoken.TokenRepository
	usageLog  agenttoken.UsageLogRepository
	logger    logger.Interface
}

func NewGetUsageHistoryUseCase(
	tokenRepo agenttoken.TokenRepository,
	usageLog agenttoken.UsageLogRepository,
	logger logger.Interface,
) *GetUsageHistoryUseCase {
	return &GetUsageHistoryUseCase{
		tokenRepo: tokenRepo,
		usageLog:  usageLog,
		logger:    logger,
	}
}

func (uc *GetUsageHistoryUseCase) Execute(ctx context.Context, cmd GetUsageHistoryCommand) (*GetUsageHistoryResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}
	if !cmd.Actor.Role.CanManageTokens() {
		return nil, errors.NewForbiddenError("role cannot view token usage history")
	}
	if cmd.TokenID == 0 {
		return nil, errors.NewValidationError("token ID is required")
	}

	// Resolve first so unknown IDs surface as not-found rather than an
	// empty history.
	token, err := uc.tokenRepo.GetByID(ctx, cmd.TokenID)
	if err != nil {
		return nil, err
	}

	attempts, err := uc.usageLog.GetByTokenID(ctx, token.ID())
	if err != nil {
		uc.logger.Errorw("failed to load usage history", "token_id", cmd.TokenID, "error", err)
		return nil, errors.NewStoreError("failed to load usage history", err)
	}

	dtos := make([]dto.UsageAttemptDTO, 0, len(attempts))
	for _, a := range attempts {
		dtos = append(dtos, dto.ToUsageAttemptDTO(a))
	}
	return &GetUsageHistoryResult{Attempts: dtos}, nil
}
