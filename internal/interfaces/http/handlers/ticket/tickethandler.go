package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/ticket/usecases"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC    usecases.CreateTicketExecutor
	applyTransitionUC usecases.ApplyTransitionExecutor
	assignTicketUC    usecases.AssignTicketExecutor
	addCommentUC      usecases.AddCommentExecutor
	getTicketUC       usecases.GetTicketExecutor
	listTicketsUC     usecases.ListTicketsExecutor
	listTransitionsUC usecases.ListTransitionsExecutor
	userDir           directory.UserDirectory
	logger            logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	applyTransitionUC usecases.ApplyTransitionExecutor,
	assignTicketUC usecases.AssignTicketExecutor,
	addCommentUC usecases.AddCommentExecutor,
	getTicketUC usecases.GetTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	listTransitionsUC usecases.ListTransitionsExecutor,
	userDir directory.UserDirectory,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:    createTicketUC,
		applyTransitionUC: applyTransitionUC,
		assignTicketUC:    assignTicketUC,
		addCommentUC:      addCommentUC,
		getTicketUC:       getTicketUC,
		listTicketsUC:     listTicketsUC,
		listTransitionsUC: listTransitionsUC,
		userDir:           userDir,
		logger:            logger.NewLogger().With("component", "ticket_handler"),
	}
}

// CreateTicket handles POST /tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	actorClientID, err := h.resolveActorClient(c, actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(actor, actorClientID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Ticket, "Ticket created successfully")
}

// GetTicket handles GET /tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Ticket)
}

// ListTickets handles GET /tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	req, err := parseListTicketsRequest(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), req.ToCommand(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// ApplyTransition handles POST /tickets/:id/transitions
func (h *TicketHandler) ApplyTransition(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ApplyTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for transition", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.applyTransitionUC.Execute(c.Request.Context(), usecases.ApplyTransitionCommand{
		Actor:           actor,
		TicketID:        ticketID,
		TargetStatus:    req.Status,
		AssigneeID:      req.AssigneeID,
		ResolutionNotes: req.ResolutionNotes,
		ReopenReason:    req.ReopenReason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated successfully", result.Ticket)
}

// ListTransitions handles GET /tickets/:id/transitions
func (h *TicketHandler) ListTransitions(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listTransitionsUC.Execute(c.Request.Context(), usecases.ListTransitionsCommand{
		Actor:    actor,
		TicketID: ticketID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"current_status": result.CurrentStatus,
		"transitions":    result.Transitions,
	})
}

// AssignTicket handles POST /tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		Actor:      actor,
		TicketID:   ticketID,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result.Ticket)
}

// AddComment handles POST /tickets/:id/comments
func (h *TicketHandler) AddComment(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.addCommentUC.Execute(c.Request.Context(), usecases.AddCommentCommand{
		Actor:      actor,
		TicketID:   ticketID,
		Content:    req.Content,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Comment, "Comment added successfully")
}

// resolveActorClient looks up the acting user's own client for scope
// checks. Staff actors are not bound to a client.
func (h *TicketHandler) resolveActorClient(c *gin.Context, actor authorization.Actor) (uint, error) {
	if actor.Role.IsStaff() {
		return 0, nil
	}

	user, err := h.userDir.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.logger.Errorw("failed to resolve acting user", "user_id", actor.UserID, "error", err)
		return 0, errors.NewStoreError("failed to resolve acting user", err)
	}

	return user.ClientID, nil
}
