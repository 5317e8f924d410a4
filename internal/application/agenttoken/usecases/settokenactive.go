package usecases

import (
	"context"

	"helpdesk/internal/application/agenttoken/dto"
	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type SetTokenActiveCommand struct {
	Actor    authorization.Actor
	TokenID  uint
	IsActive bool
}

type SetTokenActiveResult struct {
	Token *dto.AgentTokenDTO
}

type SetTokenActiveUseCase struct {
	tokenRepo  agenttoken.TokenRepository
	dispatcher events.EventPublisher
	logger     logger.Interface
}

func NewSetTokenActiveUseCase(
	tokenRepo agenttoken.TokenRepository,
	dispatcher events.EventPublisher,
	logger logger.Interface,
) *SetTokenActiveUseCase {
	return &SetTokenActiveUseCase{
		tokenRepo:  tokenRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *SetTokenActiveUseCase) Execute(ctx context.Context, cmd SetTokenActiveCommand) (*SetTokenActiveResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}
	if !cmd.Actor.Role.CanManageTokens() {
		return nil, errors.NewForbiddenError("role cannot manage installation tokens")
	}
	if cmd.TokenID == 0 {
		return nil, errors.NewValidationError("token ID is required")
	}

	token, err := uc.tokenRepo.GetByID(ctx, cmd.TokenID)
	if err != nil {
		return nil, err
	}

	token.SetActive(cmd.IsActive, cmd.Actor.UserID)

	if err := uc.tokenRepo.Update(ctx, token); err != nil {
		uc.logger.Errorw("failed to persist activation change", "token_id", cmd.TokenID, "error", err)
		return nil, err
	}

	if uc.dispatcher != nil {
		if perr := uc.dispatcher.PublishAll(token.GetEvents()); perr != nil {
			uc.logger.Warnw("failed to publish token events", "token_id", token.ID(), "error", perr)
		}
		token.ClearEvents()
	}

	uc.logger.Infow("token activation changed",
		"token_id", token.ID(),
		"is_active", cmd.IsActive,
		"changed_by", cmd.Actor.UserID,
	)

	return &SetTokenActiveResult{Token: dto.ToAgentTokenDTO(token, false)}, nil
}

type DeleteTokenCommand struct {
	Actor   authorization.Actor
	TokenID uint
}

type DeleteTokenUseCase struct {
	tokenRepo  agenttoken.TokenRepository
	dispatcher events.EventPublisher
	logger     logger.Interface
}

func NewDeleteTokenUseCase(
	tokenRepo agenttoken.TokenRepository,
	dispatcher events.EventPublisher,
	logger logger.Interface,
) *DeleteTokenUseCase {
	return &DeleteTokenUseCase{
		tokenRepo:  tokenRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *DeleteTokenUseCase) Execute(ctx context.Context, cmd DeleteTokenCommand) error {
	if cmd.Actor.UserID == 0 {
		return errors.NewValidationError("actor is required")
	}
	if !cmd.Actor.Role.CanDeleteTokens() {
		return errors.NewForbiddenError("only superadmin may delete installation tokens")
	}
	if cmd.TokenID == 0 {
		return errors.NewValidationError("token ID is required")
	}

	token, err := uc.tokenRepo.GetByID(ctx, cmd.TokenID)
	if err != nil {
		return err
	}

	if err := uc.tokenRepo.Delete(ctx, token.ID()); err != nil {
		uc.logger.Errorw("failed to delete token", "token_id", cmd.TokenID, "error", err)
		return err
	}

	if uc.dispatcher != nil {
		event := agenttoken.NewTokenDeletedEvent(token.ID(), cmd.Actor.UserID, biztime.NowUTC())
		if perr := uc.dispatcher.Publish(event); perr != nil {
			uc.logger.Warnw("failed to publish token deleted event", "token_id", token.ID(), "error", perr)
		}
	}

	uc.logger.Infow("token deleted", "token_id", cmd.TokenID, "deleted_by", cmd.Actor.UserID)
	return nil
}
