package ticket

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/application/ticket/usecases"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/interfaces/http/handlers/testutil"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateTicketUC struct {
	got    usecases.CreateTicketCommand
	result *usecases.CreateTicketResult
	err    error
}

func (m *mockCreateTicketUC) Execute(_ context.Context, cmd usecases.CreateTicketCommand) (*usecases.CreateTicketResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockApplyTransitionUC struct {
	got    usecases.ApplyTransitionCommand
	result *usecases.ApplyTransitionResult
	err    error
}

func (m *mockApplyTransitionUC) Execute(_ context.Context, cmd usecases.ApplyTransitionCommand) (*usecases.ApplyTransitionResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockAssignTicketUC struct {
	got    usecases.AssignTicketCommand
	result *usecases.AssignTicketResult
	err    error
}

func (m *mockAssignTicketUC) Execute(_ context.Context, cmd usecases.AssignTicketCommand) (*usecases.AssignTicketResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockAddCommentUC struct {
	got    usecases.AddCommentCommand
	result *usecases.AddCommentResult
	err    error
}

func (m *mockAddCommentUC) Execute(_ context.Context, cmd usecases.AddCommentCommand) (*usecases.AddCommentResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetTicketUC struct {
	result *usecases.GetTicketResult
	err    error
}

func (m *mockGetTicketUC) Execute(_ context.Context, _ usecases.GetTicketCommand) (*usecases.GetTicketResult, error) {
	return m.result, m.err
}

type mockListTicketsUC struct {
	got    usecases.ListTicketsCommand
	result *usecases.ListTicketsResult
	err    error
}

func (m *mockListTicketsUC) Execute(_ context.Context, cmd usecases.ListTicketsCommand) (*usecases.ListTicketsResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockListTransitionsUC struct {
	result *usecases.ListTransitionsResult
	err    error
}

func (m *mockListTransitionsUC) Execute(_ context.Context, _ usecases.ListTransitionsCommand) (*usecases.ListTransitionsResult, error) {
	return m.result, m.err
}

type mockUserDirectory struct {
	user *directory.User
	err  error
}

func (m *mockUserDirectory) GetByID(_ context.Context, _ uint) (*directory.User, error) {
	return m.user, m.err
}

// =====================================================================
// Test helper
// =====================================================================

type testDeps struct {
	createTicketUC    usecases.CreateTicketExecutor
	applyTransitionUC usecases.ApplyTransitionExecutor
	assignTicketUC    usecases.AssignTicketExecutor
	addCommentUC      usecases.AddCommentExecutor
	getTicketUC       usecases.GetTicketExecutor
	listTicketsUC     usecases.ListTicketsExecutor
	listTransitionsUC usecases.ListTransitionsExecutor
	userDir           directory.UserDirectory
}

func newTestTicketHandler(deps testDeps) *TicketHandler {
	if deps.userDir == nil {
		deps.userDir = &mockUserDirectory{user: &directory.User{ID: 1, Role: authorization.RoleAdmin, Active: true}}
	}
	return NewTicketHandler(
		deps.createTicketUC,
		deps.applyTransitionUC,
		deps.assignTicketUC,
		deps.addCommentUC,
		deps.getTicketUC,
		deps.listTicketsUC,
		deps.listTransitionsUC,
		deps.userDir,
	)
}

func snapshotDTO() *ticketdto.TicketDTO {
	now := time.Now().UTC()
	return &ticketdto.TicketDTO{
		ID:             1,
		Number:         "TKT-20260101-0001",
		ClientID:       3,
		SiteID:         7,
		Subject:        "Printer offline",
		Description:    "The warehouse printer stopped responding",
		AffectedPerson: "Laura Mendez",
		Priority:       "media",
		Status:         "nuevo",
		CreatedBy:      100,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func validCreateRequest() CreateTicketRequest {
	return CreateTicketRequest{
		ClientID:       3,
		SiteID:         7,
		Subject:        "Printer offline",
		Description:    "The warehouse printer stopped responding",
		AffectedPerson: "Laura Mendez",
		Priority:       "media",
	}
}

// =====================================================================
// CreateTicket
// =====================================================================

func TestTicketHandler_CreateTicket_Success(t *testing.T) {
	mockUC := &mockCreateTicketUC{result: &usecases.CreateTicketResult{Ticket: snapshotDTO()}}
	handler := newTestTicketHandler(testDeps{createTicketUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", validCreateRequest())
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint(10), mockUC.got.Actor.UserID)
	// Staff actors are not bound to a client.
	assert.Zero(t, mockUC.got.ActorClientID)
}

func TestTicketHandler_CreateTicket_ClientActorCarriesOwnClient(t *testing.T) {
	mockUC := &mockCreateTicketUC{result: &usecases.CreateTicketResult{Ticket: snapshotDTO()}}
	dir := &mockUserDirectory{user: &directory.User{ID: 10, Role: authorization.RoleClientAdmin, ClientID: 3, Active: true}}
	handler := newTestTicketHandler(testDeps{createTicketUC: mockUC, userDir: dir})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", validCreateRequest())
	testutil.SetAuthContext(c, 10, authorization.RoleClientAdmin)

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), mockUC.got.ActorClientID)
}

func TestTicketHandler_CreateTicket_BindError(t *testing.T) {
	handler := newTestTicketHandler(testDeps{})

	// Missing required fields
	reqBody := map[string]interface{}{"subject": "only subject"}
	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", reqBody)
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
}

func TestTicketHandler_CreateTicket_NotAuthenticated(t *testing.T) {
	handler := newTestTicketHandler(testDeps{})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", validCreateRequest())
	// No auth context set

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTicketHandler_CreateTicket_UseCaseError(t *testing.T) {
	mockUC := &mockCreateTicketUC{err: errors.NewInvalidScopeError("site does not belong to the given client")}
	handler := newTestTicketHandler(testDeps{createTicketUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", validCreateRequest())
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)

	handler.CreateTicket(c)

	assert.NotEqual(t, http.StatusCreated, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
}

// =====================================================================
// GetTicket
// =====================================================================

func TestTicketHandler_GetTicket_Success(t *testing.T) {
	mockUC := &mockGetTicketUC{result: &usecases.GetTicketResult{Ticket: snapshotDTO()}}
	handler := newTestTicketHandler(testDeps{getTicketUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/1", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetURLParam(c, "id", "1")

	handler.GetTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTicketHandler_GetTicket_InvalidID(t *testing.T) {
	handler := newTestTicketHandler(testDeps{})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/abc", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetURLParam(c, "id", "abc")

	handler.GetTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketHandler_GetTicket_NotFound(t *testing.T) {
	mockUC := &mockGetTicketUC{err: errors.NewNotFoundError("ticket not found")}
	handler := newTestTicketHandler(testDeps{getTicketUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/99", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetURLParam(c, "id", "99")

	handler.GetTicket(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =====================================================================
// ListTickets
// =====================================================================

func TestTicketHandler_ListTickets_ForwardsFilters(t *testing.T) {
	mockUC := &mockListTicketsUC{result: &usecases.ListTicketsResult{
		Tickets:  []ticketdto.TicketListItemDTO{},
		Total:    0,
		Page:     2,
		PageSize: 10,
	}}
	handler := newTestTicketHandler(testDeps{listTicketsUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetQueryParams(c, map[string]string{
		"status":    "en_proceso",
		"priority":  "alta",
		"client_id": "3",
		"page":      "2",
		"page_size": "10",
	})

	handler.ListTickets(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en_proceso", mockUC.got.Status)
	assert.Equal(t, "alta", mockUC.got.Priority)
	require.NotNil(t, mockUC.got.ClientID)
	assert.Equal(t, uint(3), *mockUC.got.ClientID)
	assert.Equal(t, 2, mockUC.got.Page)
	assert.Equal(t, 10, mockUC.got.PageSize)
}

func TestTicketHandler_ListTickets_InvalidClientID(t *testing.T) {
	handler := newTestTicketHandler(testDeps{})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetQueryParams(c, map[string]string{"client_id": "abc"})

	handler.ListTickets(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// ApplyTransition
// =====================================================================

func TestTicketHandler_ApplyTransition_Success(t *testing.T) {
	resolved := snapshotDTO()
	resolved.Status = "resuelto"
	mockUC := &mockApplyTransitionUC{result: &usecases.ApplyTransitionResult{Ticket: resolved}}
	handler := newTestTicketHandler(testDeps{applyTransitionUC: mockUC})

	reqBody := ApplyTransitionRequest{Status: "resuelto", ResolutionNotes: "Replaced the fuser"}
	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/1/transitions", reqBody)
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetURLParam(c, "id", "1")

	handler.ApplyTransition(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "resuelto", mockUC.got.TargetStatus)
	assert.Equal(t, "Replaced the fuser", mockUC.got.ResolutionNotes)
	assert.Equal(t, uint(1), mockUC.got.TicketID)
}

func TestTicketHandler_ApplyTransition_ForbiddenSurfaces403(t *testing.T) {
	mockUC := &mockApplyTransitionUC{err: errors.NewForbiddenError("role solicitante may not make this transition")}
	handler := newTestTicketHandler(testDeps{applyTransitionUC: mockUC})

	reqBody := ApplyTransitionRequest{Status: "resuelto", ResolutionNotes: "done"}
	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/1/transitions", reqBody)
	testutil.SetAuthContext(c, 10, authorization.RoleSolicitante)
	testutil.SetURLParam(c, "id", "1")

	handler.ApplyTransition(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTicketHandler_ApplyTransition_ConflictSurfaces409(t *testing.T) {
	mockUC := &mockApplyTransitionUC{err: errors.NewConflictingStateError("ticket was modified concurrently")}
	handler := newTestTicketHandler(testDeps{applyTransitionUC: mockUC})

	reqBody := ApplyTransitionRequest{Status: "en_proceso"}
	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/1/transitions", reqBody)
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetURLParam(c, "id", "1")

	handler.ApplyTransition(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// =====================================================================
// ListTransitions
// =====================================================================

func TestTicketHandler_ListTransitions_Success(t *testing.T) {
	mockUC := &mockListTransitionsUC{result: &usecases.ListTransitionsResult{
		CurrentStatus: "resuelto",
		Transitions: []usecases.AvailableTransition{
			{To: "cerrado"},
			{To: "reabierto", RequiredField: "reopen_reason"},
		},
	}}
	handler := newTestTicketHandler(testDeps{listTransitionsUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/1/transitions", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetURLParam(c, "id", "1")

	handler.ListTransitions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reopen_reason")
}

// =====================================================================
// AssignTicket
// =====================================================================

func TestTicketHandler_AssignTicket_Success(t *testing.T) {
	assigned := snapshotDTO()
	assigned.Status = "asignado"
	mockUC := &mockAssignTicketUC{result: &usecases.AssignTicketResult{Ticket: assigned}}
	handler := newTestTicketHandler(testDeps{assignTicketUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/1/assign", AssignTicketRequest{AssigneeID: 55})
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetURLParam(c, "id", "1")

	handler.AssignTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(55), mockUC.got.AssigneeID)
}

func TestTicketHandler_AssignTicket_MissingAssignee(t *testing.T) {
	handler := newTestTicketHandler(testDeps{})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/1/assign", map[string]interface{}{})
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)
	testutil.SetURLParam(c, "id", "1")

	handler.AssignTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// AddComment
// =====================================================================

func TestTicketHandler_AddComment_Success(t *testing.T) {
	mockUC := &mockAddCommentUC{result: &usecases.AddCommentResult{Comment: &ticketdto.CommentDTO{
		ID:       12,
		AuthorID: 10,
		Content:  "Looking into it",
	}}}
	handler := newTestTicketHandler(testDeps{addCommentUC: mockUC})

	reqBody := AddCommentRequest{Content: "Looking into it", IsInternal: true}
	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/1/comments", reqBody)
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetURLParam(c, "id", "1")

	handler.AddComment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockUC.got.IsInternal)
	assert.Equal(t, uint(1), mockUC.got.TicketID)
}

func TestTicketHandler_AddComment_EmptyContent(t *testing.T) {
	handler := newTestTicketHandler(testDeps{})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets/1/comments", map[string]interface{}{"content": ""})
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetURLParam(c, "id", "1")

	handler.AddComment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
