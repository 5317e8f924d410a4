package usecases

import (
	"context"
	"strings"

	"helpdesk/internal/application/agenttoken/dto"
	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ValidateTokenCommand struct {
	TokenValue string
}

type ValidateTokenResult struct {
	Scope *dto.TokenScopeDTO
}

// ValidateTokenUseCase answers the enrollment question: is this token
// value usable right now, and for which client/site. It takes no actor;
// the agent installer presents nothing but the token.
type ValidateTokenUseCase struct {
	tokenRepo agenttoken.TokenRepository
	logger    logger.Interface
}

func NewValidateTokenUseCase(tokenRepo agenttoken.TokenRepository, logger logger.Interface) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{tokenRepo: tokenRepo, logger: logger}
}

func (uc *ValidateTokenUseCase) Execute(ctx context.Context, cmd ValidateTokenCommand) (*ValidateTokenResult, error) {
	value := strings.TrimSpace(cmd.TokenValue)
	// Malformed values never reach the store; they read as unknown tokens
	// so probing reveals nothing about the format's structure.
	if !agenttoken.IsValidTokenValue(value) {
		return nil, errors.NewNotFoundError("token not found")
	}

	token, err := uc.tokenRepo.GetByValue(ctx, value)
	if err != nil {
		return nil, err
	}

	if err := token.ValidateForEnrollment(biztime.NowUTC()); err != nil {
		uc.logger.Infow("token rejected for enrollment",
			"token_id", token.ID(),
			"masked", agenttoken.MaskTokenValue(token.Value()),
			"reason", errors.GetAppError(err).Type,
		)
		return nil, err
	}

	return &ValidateTokenResult{
		Scope: &dto.TokenScopeDTO{
			TokenID:  token.ID(),
			ClientID: token.ClientID(),
			SiteID:   token.SiteID(),
		},
	}, nil
}
