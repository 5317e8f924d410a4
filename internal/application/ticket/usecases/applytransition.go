package usecases

import (
	"context"
	"strings"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ApplyTransitionCommand struct {
	Actor        authorization.Actor
	TicketID     uint
	TargetStatus string

	// Payload fields. Which one is consumed depends on the target status;
	// the aggregate rejects missing or irrelevant values.
	AssigneeID      uint
	ResolutionNotes string
	ReopenReason    string
}

type ApplyTransitionResult struct {
	Ticket *dto.TicketDTO
}

type ApplyTransitionUseCase struct {
	ticketRepo  ticket.TicketRepository
	commentRepo ticket.CommentRepository
	userDir     directory.UserDirectory
	txRunner    TransactionRunner
	dispatcher  events.EventPublisher
	logger      logger.Interface
}

func NewApplyTransitionUseCase(
	ticketRepo ticket.TicketRepository,
	commentRepo ticket.CommentRepository,
	userDir directory.UserDirectory,
	txRunner TransactionRunner,
	dispatcher events.EventPublisher,
	logger logger.Interface,
) *ApplyTransitionUseCase {
	return &ApplyTransitionUseCase{
		ticketRepo:  ticketRepo,
		commentRepo: commentRepo,
		userDir:     userDir,
		txRunner:    txRunner,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

func (uc *ApplyTransitionUseCase) Execute(ctx context.Context, cmd ApplyTransitionCommand) (*ApplyTransitionResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	targetStatus, err := vo.NewTicketStatus(cmd.TargetStatus)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	loaded, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	// Edge and role guards run before the assignee directory lookup, so an
	// actor who may not perform the transition learns nothing about which
	// assignees exist.
	if _, err := loaded.AuthorizeTransition(targetStatus, cmd.Actor); err != nil {
		return nil, err
	}

	if targetStatus.IsAsignado() {
		if err := uc.checkAssignee(ctx, cmd.AssigneeID); err != nil {
			return nil, err
		}
	}

	payload := buildPayload(targetStatus, cmd)
	if err := loaded.ApplyTransition(targetStatus, cmd.Actor, payload); err != nil {
		return nil, err
	}

	// Reopening writes the reason as a client-visible comment in the same
	// transaction as the status change; neither lands without the other.
	if targetStatus.IsReabierto() {
		comment, cerr := ticket.NewComment(loaded.ID(), cmd.Actor.UserID, strings.TrimSpace(cmd.ReopenReason), false)
		if cerr != nil {
			return nil, errors.NewValidationError(cerr.Error())
		}
		err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
			if serr := uc.commentRepo.Save(txCtx, comment); serr != nil {
				return errors.NewStoreError("failed to save reopen comment", serr)
			}
			return uc.ticketRepo.Update(txCtx, loaded)
		})
	} else {
		err = uc.ticketRepo.Update(ctx, loaded)
	}
	if err != nil {
		uc.logger.Errorw("failed to persist transition",
			"ticket_id", cmd.TicketID,
			"target_status", cmd.TargetStatus,
			"error", err,
		)
		return nil, err
	}

	uc.publishEvents(loaded)

	uc.logger.Infow("ticket transitioned",
		"ticket_id", loaded.ID(),
		"number", loaded.Number(),
		"status", loaded.Status().String(),
		"actor_id", cmd.Actor.UserID,
	)

	comments, err := uc.commentRepo.GetByTicketID(ctx, loaded.ID())
	if err != nil {
		uc.logger.Warnw("failed to load comments for snapshot", "ticket_id", loaded.ID(), "error", err)
		comments = nil
	}

	return &ApplyTransitionResult{
		Ticket: dto.ToTicketDTO(loaded, comments, cmd.Actor.Role.IsClientSide()),
	}, nil
}

func (uc *ApplyTransitionUseCase) validateCommand(cmd ApplyTransitionCommand) error {
	if cmd.Actor.UserID == 0 {
		return errors.NewValidationError("actor is required")
	}
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if strings.TrimSpace(cmd.TargetStatus) == "" {
		return errors.NewValidationError("target status is required")
	}
	return nil
}

func (uc *ApplyTransitionUseCase) checkAssignee(ctx context.Context, assigneeID uint) error {
	if assigneeID == 0 {
		// Leave the missing-field report to the aggregate.
		return nil
	}
	assignee, err := uc.userDir.GetByID(ctx, assigneeID)
	if err != nil {
		return err
	}
	if !assignee.CanBeAssigned() {
		return errors.NewValidationError("user cannot be assigned tickets")
	}
	return nil
}

func (uc *ApplyTransitionUseCase) publishEvents(t *ticket.Ticket) {
	if uc.dispatcher == nil {
		return
	}
	if err := uc.dispatcher.PublishAll(t.GetEvents()); err != nil {
		uc.logger.Warnw("failed to publish ticket events", "ticket_id", t.ID(), "error", err)
	}
	t.ClearEvents()
}

// buildPayload picks the payload variant the target status consumes.
func buildPayload(target vo.TicketStatus, cmd ApplyTransitionCommand) ticket.TransitionPayload {
	switch target {
	case vo.StatusAsignado:
		return ticket.AssignPayload{AssigneeID: cmd.AssigneeID}
	case vo.StatusResuelto:
		return ticket.ResolvePayload{Notes: cmd.ResolutionNotes}
	case vo.StatusReabierto:
		return ticket.ReopenPayload{Reason: cmd.ReopenReason}
	default:
		return ticket.EmptyPayload{}
	}
}
