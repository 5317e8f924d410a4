package ticket

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/ticket/usecases"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
)

type CreateTicketRequest struct {
	ClientID         uint     `json:"client_id" binding:"required"`
	SiteID           uint     `json:"site_id" binding:"required"`
	CategoryID       *uint    `json:"category_id,omitempty"`
	Subject          string   `json:"subject" binding:"required,max=200"`
	Description      string   `json:"description" binding:"required,max=5000"`
	AffectedPerson   string   `json:"affected_person" binding:"required,max=120"`
	ContactEmail     string   `json:"contact_email,omitempty" binding:"omitempty,email"`
	ContactPhone     string   `json:"contact_phone,omitempty" binding:"omitempty,max=32"`
	AdditionalEmails []string `json:"additional_emails,omitempty" binding:"omitempty,dive,email"`
	Priority         string   `json:"priority,omitempty"`
}

func (r *CreateTicketRequest) ToCommand(actor authorization.Actor, actorClientID uint) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Actor:            actor,
		ActorClientID:    actorClientID,
		ClientID:         r.ClientID,
		SiteID:           r.SiteID,
		CategoryID:       r.CategoryID,
		Subject:          r.Subject,
		Description:      r.Description,
		AffectedPerson:   r.AffectedPerson,
		ContactEmail:     r.ContactEmail,
		ContactPhone:     r.ContactPhone,
		AdditionalEmails: r.AdditionalEmails,
		Priority:         r.Priority,
	}
}

type ApplyTransitionRequest struct {
	Status          string `json:"status" binding:"required"`
	AssigneeID      uint   `json:"assigned_to,omitempty"`
	ResolutionNotes string `json:"resolution_notes,omitempty" binding:"omitempty,max=5000"`
	ReopenReason    string `json:"reopen_reason,omitempty" binding:"omitempty,max=2000"`
}

type AssignTicketRequest struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

type AddCommentRequest struct {
	Content    string `json:"content" binding:"required,max=10000"`
	IsInternal bool   `json:"is_internal"`
}

type ListTicketsRequest struct {
	Page       int
	PageSize   int
	Status     string
	Priority   string
	ClientID   *uint
	SiteID     *uint
	AssigneeID *uint
	SortBy     string
	SortOrder  string
}

func (r *ListTicketsRequest) ToCommand(actor authorization.Actor) usecases.ListTicketsCommand {
	return usecases.ListTicketsCommand{
		Actor:      actor,
		Status:     r.Status,
		Priority:   r.Priority,
		ClientID:   r.ClientID,
		SiteID:     r.SiteID,
		AssigneeID: r.AssigneeID,
		Page:       r.Page,
		PageSize:   r.PageSize,
		SortBy:     r.SortBy,
		SortOrder:  r.SortOrder,
	}
}

func parseListTicketsRequest(c *gin.Context) (*ListTicketsRequest, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	req := &ListTicketsRequest{
		Page:      page,
		PageSize:  pageSize,
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if clientIDStr := c.Query("client_id"); clientIDStr != "" {
		clientID, err := strconv.ParseUint(clientIDStr, 10, 32)
		if err != nil {
			return nil, errors.NewValidationError("Invalid client_id")
		}
		id := uint(clientID)
		req.ClientID = &id
	}

	if siteIDStr := c.Query("site_id"); siteIDStr != "" {
		siteID, err := strconv.ParseUint(siteIDStr, 10, 32)
		if err != nil {
			return nil, errors.NewValidationError("Invalid site_id")
		}
		id := uint(siteID)
		req.SiteID = &id
	}

	if assigneeIDStr := c.Query("assignee_id"); assigneeIDStr != "" {
		assigneeID, err := strconv.ParseUint(assigneeIDStr, 10, 32)
		if err != nil {
			return nil, errors.NewValidationError("Invalid assignee_id")
		}
		id := uint(assigneeID)
		req.AssigneeID = &id
	}

	return req, nil
}

func parseTicketID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid ticket ID")
	}
	return uint(id), nil
}
