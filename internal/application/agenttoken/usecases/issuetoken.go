package usecases

import (
	"context"
	"strings"
	"time"

	"helpdesk/internal/application/agenttoken/dto"
	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type IssueTokenCommand struct {
	Actor       authorization.Actor
	ClientID    uint
	SiteID      uint
	ExpiresDays *int
	Notes       string
}

type IssueTokenResult struct {
	Token *dto.AgentTokenDTO
}

type IssueTokenUseCase struct {
	tokenRepo         agenttoken.TokenRepository
	clientDir         directory.ClientDirectory
	dispatcher        events.EventPublisher
	defaultExpiryDays int
	logger            logger.Interface
}

func NewIssueTokenUseCase(
	tokenRepo agenttoken.TokenRepository,
	clientDir directory.ClientDirectory,
	dispatcher events.EventPublisher,
	defaultExpiryDays int,
	logger logger.Interface,
) *IssueTokenUseCase {
	return &IssueTokenUseCase{
		tokenRepo:         tokenRepo,
		clientDir:         clientDir,
		dispatcher:        dispatcher,
		defaultExpiryDays: defaultExpiryDays,
		logger:            logger,
	}
}

func (uc *IssueTokenUseCase) Execute(ctx context.Context, cmd IssueTokenCommand) (*IssueTokenResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}
	if !cmd.Actor.Role.CanManageTokens() {
		return nil, errors.NewForbiddenError("role cannot issue installation tokens")
	}
	if cmd.ClientID == 0 {
		return nil, errors.NewValidationError("client ID is required")
	}
	if cmd.SiteID == 0 {
		return nil, errors.NewValidationError("site ID is required")
	}
	if cmd.ExpiresDays != nil && *cmd.ExpiresDays <= 0 {
		return nil, errors.NewValidationError("expires_days must be positive")
	}

	belongs, err := uc.clientDir.SiteBelongsToClient(ctx, cmd.ClientID, cmd.SiteID)
	if err != nil {
		uc.logger.Errorw("failed to verify site scope", "client_id", cmd.ClientID, "site_id", cmd.SiteID, "error", err)
		return nil, errors.NewStoreError("failed to verify site", err)
	}
	if !belongs {
		return nil, errors.NewInvalidScopeError("site does not belong to the given client")
	}

	expiresAt := uc.expiry(cmd.ExpiresDays)
	token, err := agenttoken.NewAgentToken(cmd.ClientID, cmd.SiteID, expiresAt, strings.TrimSpace(cmd.Notes), cmd.Actor.UserID)
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}

	if err := uc.tokenRepo.Save(ctx, token); err != nil {
		uc.logger.Errorw("failed to save token", "client_id", cmd.ClientID, "site_id", cmd.SiteID, "error", err)
		return nil, errors.NewStoreError("failed to save token", err)
	}

	if uc.dispatcher != nil {
		if perr := uc.dispatcher.PublishAll(token.GetEvents()); perr != nil {
			uc.logger.Warnw("failed to publish token events", "token_id", token.ID(), "error", perr)
		}
		token.ClearEvents()
	}

	uc.logger.Infow("installation token issued",
		"token_id", token.ID(),
		"client_id", cmd.ClientID,
		"site_id", cmd.SiteID,
		"issued_by", cmd.Actor.UserID,
	)

	// The raw value is returned exactly once, at issuance.
	return &IssueTokenResult{Token: dto.ToAgentTokenDTO(token, true)}, nil
}

func (uc *IssueTokenUseCase) expiry(expiresDays *int) *time.Time {
	days := uc.defaultExpiryDays
	if expiresDays != nil {
		days = *expiresDays
	}
	if days <= 0 {
		// Tokens without a configured horizon never expire.
		return nil
	}
	at := biztime.NowUTC().AddDate(0, 0, days)
	return &at
}
