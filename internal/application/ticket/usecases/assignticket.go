package usecases

import (
	"context"
	"fmt"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type AssignTicketCommand struct {
	Actor      authorization.Actor
	TicketID   uint
	AssigneeID uint
}

type AssignTicketResult struct {
	Ticket *dto.TicketDTO
}

// AssignTicketUseCase assigns or reassigns a ticket. On a fresh ticket it
// doubles as the nuevo->asignado transition; on an already-assigned ticket
// it swaps the assignee without touching the status.
type AssignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	userDir    directory.UserDirectory
	dispatcher events.EventPublisher
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userDir directory.UserDirectory,
	dispatcher events.EventPublisher,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		userDir:    userDir,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	// Authorization precedes everything payload-related: a role that may
	// not assign gets the same rejection whether the assignee is missing,
	// nonexistent or valid.
	if !cmd.Actor.Role.CanAssignTickets() {
		return nil, errors.NewForbiddenError(
			"you do not have permission to perform this action",
			fmt.Sprintf("role %s may not assign tickets", cmd.Actor.Role),
		)
	}

	if cmd.AssigneeID == 0 {
		return nil, errors.NewMissingFieldError("assigned_to")
	}

	assignee, err := uc.userDir.GetByID(ctx, cmd.AssigneeID)
	if err != nil {
		return nil, err
	}
	if !assignee.CanBeAssigned() {
		return nil, errors.NewValidationError("user cannot be assigned tickets")
	}

	loaded, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	if err := loaded.AssignTo(cmd.AssigneeID, cmd.Actor); err != nil {
		return nil, err
	}

	if err := uc.ticketRepo.Update(ctx, loaded); err != nil {
		uc.logger.Errorw("failed to persist assignment", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	if uc.dispatcher != nil {
		if perr := uc.dispatcher.PublishAll(loaded.GetEvents()); perr != nil {
			uc.logger.Warnw("failed to publish ticket events", "ticket_id", loaded.ID(), "error", perr)
		}
		loaded.ClearEvents()
	}

	uc.logger.Infow("ticket assigned",
		"ticket_id", loaded.ID(),
		"assigned_to", cmd.AssigneeID,
		"actor_id", cmd.Actor.UserID,
	)

	return &AssignTicketResult{
		Ticket: dto.ToTicketDTO(loaded, nil, cmd.Actor.Role.IsClientSide()),
	}, nil
}
