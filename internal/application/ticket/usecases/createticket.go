package usecases

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type CreateTicketCommand struct {
	Actor            authorization.Actor
	ActorClientID    uint
	ClientID         uint
	SiteID           uint
	CategoryID       *uint
	Subject          string
	Description      string
	AffectedPerson   string
	ContactEmail     string
	ContactPhone     string
	AdditionalEmails []string
	Priority         string
}

type CreateTicketResult struct {
	Ticket *dto.TicketDTO
}

type CreateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	clientDir  directory.ClientDirectory
	numberGen  ticket.NumberGenerator
	dispatcher events.EventPublisher
	sanitizer  *bluemonday.Policy
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	clientDir directory.ClientDirectory,
	numberGen ticket.NumberGenerator,
	dispatcher events.EventPublisher,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo: ticketRepo,
		clientDir:  clientDir,
		numberGen:  numberGen,
		dispatcher: dispatcher,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	// Client-side actors only open tickets for their own organization.
	if cmd.Actor.Role.IsClientSide() && cmd.ActorClientID != cmd.ClientID {
		return nil, errors.NewInvalidScopeError("cannot create tickets for another client")
	}

	belongs, err := uc.clientDir.SiteBelongsToClient(ctx, cmd.ClientID, cmd.SiteID)
	if err != nil {
		uc.logger.Errorw("failed to verify site scope", "client_id", cmd.ClientID, "site_id", cmd.SiteID, "error", err)
		return nil, errors.NewStoreError("failed to verify site", err)
	}
	if !belongs {
		return nil, errors.NewInvalidScopeError("site does not belong to the given client")
	}

	priority := vo.PriorityMedia
	if cmd.Priority != "" {
		priority, err = vo.NewPriority(cmd.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	newTicket, err := ticket.NewTicket(ticket.NewTicketParams{
		ClientID:         cmd.ClientID,
		SiteID:           cmd.SiteID,
		CategoryID:       cmd.CategoryID,
		Subject:          uc.sanitizer.Sanitize(strings.TrimSpace(cmd.Subject)),
		Description:      uc.sanitizer.Sanitize(strings.TrimSpace(cmd.Description)),
		AffectedPerson:   uc.sanitizer.Sanitize(strings.TrimSpace(cmd.AffectedPerson)),
		ContactEmail:     strings.TrimSpace(cmd.ContactEmail),
		ContactPhone:     strings.TrimSpace(cmd.ContactPhone),
		AdditionalEmails: cmd.AdditionalEmails,
		Priority:         priority,
		CreatedBy:        cmd.Actor.UserID,
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	number, err := uc.numberGen.Generate(ctx)
	if err != nil {
		uc.logger.Errorw("failed to generate ticket number", "error", err)
		return nil, errors.NewStoreError("failed to generate ticket number", err)
	}
	if err := newTicket.SetNumber(number); err != nil {
		return nil, errors.NewInternalError(err.Error())
	}

	if err := uc.ticketRepo.Save(ctx, newTicket); err != nil {
		uc.logger.Errorw("failed to save ticket", "number", number, "error", err)
		return nil, errors.NewStoreError("failed to save ticket", err)
	}

	uc.publishEvents(newTicket)

	uc.logger.Infow("ticket created",
		"ticket_id", newTicket.ID(),
		"number", newTicket.Number(),
		"client_id", newTicket.ClientID(),
		"created_by", cmd.Actor.UserID,
	)

	return &CreateTicketResult{
		Ticket: dto.ToTicketDTO(newTicket, nil, cmd.Actor.Role.IsClientSide()),
	}, nil
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) error {
	if cmd.Actor.UserID == 0 {
		return errors.NewValidationError("actor is required")
	}
	if cmd.ClientID == 0 {
		return errors.NewValidationError("client ID is required")
	}
	if cmd.SiteID == 0 {
		return errors.NewValidationError("site ID is required")
	}
	if strings.TrimSpace(cmd.Subject) == "" {
		return errors.NewMissingFieldError("subject")
	}
	if strings.TrimSpace(cmd.Description) == "" {
		return errors.NewMissingFieldError("description")
	}
	if strings.TrimSpace(cmd.AffectedPerson) == "" {
		return errors.NewMissingFieldError("affected_person")
	}
	return nil
}

func (uc *CreateTicketUseCase) publishEvents(t *ticket.Ticket) {
	if uc.dispatcher == nil {
		return
	}
	if err := uc.dispatcher.PublishAll(t.GetEvents()); err != nil {
		uc.logger.Warnw("failed to publish ticket events", "ticket_id", t.ID(), "error", err)
	}
	t.ClearEvents()
}
