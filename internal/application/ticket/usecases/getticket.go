package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type GetTicketCommand struct {
	Actor    authorization.Actor
	TicketID uint
}

type GetTicketResult struct {
	Ticket *dto.TicketDTO
}

type GetTicketUseCase struct {
	ticketRepo  ticket.TicketRepository
	commentRepo ticket.CommentRepository
	userDir     directory.UserDirectory
	logger      logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	commentRepo ticket.CommentRepository,
	userDir directory.UserDirectory,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:  ticketRepo,
		commentRepo: commentRepo,
		userDir:     userDir,
		logger:      logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, cmd GetTicketCommand) (*GetTicketResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	loaded, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	var actorClientID uint
	if cmd.Actor.Role.IsClientSide() {
		user, uerr := uc.userDir.GetByID(ctx, cmd.Actor.UserID)
		if uerr != nil {
			return nil, uerr
		}
		actorClientID = user.ClientID
	}
	if !loaded.CanBeViewedBy(cmd.Actor.UserID, cmd.Actor.Role, actorClientID) {
		return nil, errors.NewForbiddenError("no access to this ticket")
	}

	comments, err := uc.commentRepo.GetByTicketID(ctx, loaded.ID())
	if err != nil {
		uc.logger.Warnw("failed to load comments", "ticket_id", loaded.ID(), "error", err)
		comments = nil
	}

	return &GetTicketResult{
		Ticket: dto.ToTicketDTO(loaded, comments, cmd.Actor.Role.IsClientSide()),
	}, nil
}
