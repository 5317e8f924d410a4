package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ListTicketsCommand struct {
	Actor      authorization.Actor
	Status     string
	Priority   string
	ClientID   *uint
	SiteID     *uint
	AssigneeID *uint
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

type ListTicketsResult struct {
	Tickets  []dto.TicketListItemDTO
	Total    int64
	Page     int
	PageSize int
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	userDir    directory.UserDirectory
	logger     logger.Interface
}

func NewListTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	userDir directory.UserDirectory,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		userDir:    userDir,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, cmd ListTicketsCommand) (*ListTicketsResult, error) {
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor is required")
	}

	filter := ticket.TicketFilter{
		ClientID:   cmd.ClientID,
		SiteID:     cmd.SiteID,
		AssigneeID: cmd.AssigneeID,
		Page:       cmd.Page,
		PageSize:   cmd.PageSize,
		SortBy:     cmd.SortBy,
		SortOrder:  cmd.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if cmd.Status != "" {
		status, err := vo.NewTicketStatus(cmd.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Status = &status
	}
	if cmd.Priority != "" {
		priority, err := vo.NewPriority(cmd.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Priority = &priority
	}

	// Client-side actors never see outside their own organization; a
	// solicitante is further pinned to their own tickets.
	if cmd.Actor.Role.IsClientSide() {
		user, err := uc.userDir.GetByID(ctx, cmd.Actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.ClientID = &user.ClientID
		if cmd.Actor.Role == authorization.RoleSolicitante {
			creatorID := cmd.Actor.UserID
			filter.CreatorID = &creatorID
		}
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, errors.NewStoreError("failed to list tickets", err)
	}

	items := make([]dto.TicketListItemDTO, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.ToTicketListItemDTO(t))
	}

	return &ListTicketsResult{
		Tickets:  items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
