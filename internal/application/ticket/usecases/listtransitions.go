package usecases

import (
	"context"

	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ListTransitionsCommand struct {
	Actor    authorization.Actor
	TicketID uint
}

// AvailableTransition is one move the acting user may make from the
// ticket's current status, with the field the move requires (if any).
type AvailableTransition struct {
	To            string `json:"to"`
	RequiredField string `json:"required_field,omitempty"`
}

type ListTransitionsResult struct {
	CurrentStatus string
	Transitions   []AvailableTransition
}

// ListTransitionsUseCase reports the moves available to the actor, straight
// from the same table the write path enforces. UIs render buttons from this
// instead of hardcoding the state machine.
type ListTransitionsUseCase struct {
	ticketRepo ticket.TicketRepository
	userDir    directory.UserDirectory
	logger     logger.Interface
}

func NewListTransitionsUseCase(
	ticketRepo ticket.TicketRepository,
	userDir directory.UserDirectory,
	logger logger.Interface,
) *ListTransitionsUseCase {
	return &ListTransitionsUseCase{
		ticketRepo: ticketRepo,
		userDir:    userDir,
		logger:     logger,
	}
}

func (uc *ListTransitionsUseCase) Execute(ctx context.Context, cmd ListTransitionsCommand) (*ListTransitionsResult, error) {
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

	rules := loaded.Status().TransitionsFor(cmd.Actor.Role)
	transitions := make([]AvailableTransition, 0, len(rules))
	for _, rule := range rules {
		transitions = append(transitions, AvailableTransition{
			To:            rule.To.String(),
			RequiredField: string(rule.Requires),
		})
	}

	return &ListTransitionsResult{
		CurrentStatus: loaded.Status().String(),
		Transitions:   transitions,
	}, nil
}
