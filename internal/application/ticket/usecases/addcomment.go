package usecases

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type AddCommentCommand struct {
	Actor      authorization.Actor
	TicketID   uint
	Content    string
	IsInternal bool
}

type AddCommentResult struct {
	Comment *dto.CommentDTO
}

type AddCommentUseCase struct {
	ticketRepo  ticket.TicketRepository
	commentRepo ticket.CommentRepository
	userDir     directory.UserDirectory
	dispatcher  events.EventPublisher
	sanitizer   *bluemonday.Policy
	logger      logger.Interface
}

func NewAddCommentUseCase(
	ticketRepo ticket.TicketRepository,
	commentRepo ticket.CommentRepository,
	userDir directory.UserDirectory,
	dispatcher events.EventPublisher,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		ticketRepo:  ticketRepo,
		commentRepo: commentRepo,
		userDir:     userDir,
		dispatcher:  dispatcher,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger,
	}
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return nil, errors.NewMissingFieldError("content")
	}

	// Internal notes are a staff facility.
	if cmd.IsInternal && !cmd.Actor.Role.IsStaff() {
		return nil, errors.NewForbiddenError("only staff may add internal comments")
	}

	loaded, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkViewAccess(ctx, cmd.Actor, loaded); err != nil {
		return nil, err
	}

	if loaded.Status().IsTerminal() && !loaded.Status().IsCerrado() {
		return nil, errors.NewValidationError("cannot comment on a cancelled ticket")
	}

	comment, err := ticket.NewComment(cmd.TicketID, cmd.Actor.UserID, uc.sanitizer.Sanitize(content), cmd.IsInternal)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.commentRepo.Save(ctx, comment); err != nil {
		uc.logger.Errorw("failed to save comment", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewStoreError("failed to save comment", err)
	}

	if uc.dispatcher != nil {
		event := ticket.NewCommentAddedEvent(loaded.ID(), comment.ID(), comment.AuthorID(), comment.IsInternal(), comment.CreatedAt())
		if perr := uc.dispatcher.Publish(event); perr != nil {
			uc.logger.Warnw("failed to publish comment event", "ticket_id", cmd.TicketID, "error", perr)
		}
	}

	return &AddCommentResult{
		Comment: &dto.CommentDTO{
			ID:         comment.ID(),
			AuthorID:   comment.AuthorID(),
			Content:    comment.Content(),
			IsInternal: comment.IsInternal(),
			CreatedAt:  comment.CreatedAt(),
		},
	}, nil
}

func (uc *AddCommentUseCase) checkViewAccess(ctx context.Context, actor authorization.Actor, t *ticket.Ticket) error {
	var actorClientID uint
	if actor.Role.IsClientSide() {
		user, err := uc.userDir.GetByID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		actorClientID = user.ClientID
	}
	if !t.CanBeViewedBy(actor.UserID, actor.Role, actorClientID) {
		return errors.NewForbiddenError("no access to this ticket")
	}
	return nil
}
