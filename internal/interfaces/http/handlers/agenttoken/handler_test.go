package agenttoken

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokendto "helpdesk/internal/application/agenttoken/dto"
	"helpdesk/internal/application/agenttoken/usecases"
	"helpdesk/internal/interfaces/http/handlers/testutil"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockIssueTokenUC struct {
	got    usecases.IssueTokenCommand
	result *usecases.IssueTokenResult
	err    error
}

func (m *mockIssueTokenUC) Execute(_ context.Context, cmd usecases.IssueTokenCommand) (*usecases.IssueTokenResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockValidateTokenUC struct {
	got    usecases.ValidateTokenCommand
	result *usecases.ValidateTokenResult
	err    error
}

func (m *mockValidateTokenUC) Execute(_ context.Context, cmd usecases.ValidateTokenCommand) (*usecases.ValidateTokenResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockRecordUsageUC struct {
	got    usecases.RecordUsageCommand
	result *usecases.RecordUsageResult
	err    error
}

func (m *mockRecordUsageUC) Execute(_ context.Context, cmd usecases.RecordUsageCommand) (*usecases.RecordUsageResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockSetTokenActiveUC struct {
	got    usecases.SetTokenActiveCommand
	result *usecases.SetTokenActiveResult
	err    error
}

func (m *mockSetTokenActiveUC) Execute(_ context.Context, cmd usecases.SetTokenActiveCommand) (*usecases.SetTokenActiveResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockDeleteTokenUC struct {
	got usecases.DeleteTokenCommand
	err error
}

func (m *mockDeleteTokenUC) Execute(_ context.Context, cmd usecases.DeleteTokenCommand) error {
	m.got = cmd
	return m.err
}

type mockListTokensUC struct {
	result *usecases.ListTokensResult
	err    error
}

func (m *mockListTokensUC) Execute(_ context.Context, _ usecases.ListTokensCommand) (*usecases.ListTokensResult, error) {
	return m.result, m.err
}

type mockGetUsageHistoryUC struct {
	result *usecases.GetUsageHistoryResult
	err    error
}

func (m *mockGetUsageHistoryUC) Execute(_ context.Context, _ usecases.GetUsageHistoryCommand) (*usecases.GetUsageHistoryResult, error) {
	return m.result, m.err
}

// =====================================================================
// Test helper
// =====================================================================

type testDeps struct {
	issueTokenUC      usecases.IssueTokenExecutor
	validateTokenUC   usecases.ValidateTokenExecutor
	recordUsageUC     usecases.RecordUsageExecutor
	setTokenActiveUC  usecases.SetTokenActiveExecutor
	deleteTokenUC     usecases.DeleteTokenExecutor
	listTokensUC      usecases.ListTokensExecutor
	getUsageHistoryUC usecases.GetUsageHistoryExecutor
}

func newTestTokenHandler(deps testDeps) *TokenHandler {
	return NewTokenHandler(
		deps.issueTokenUC,
		deps.validateTokenUC,
		deps.recordUsageUC,
		deps.setTokenActiveUC,
		deps.deleteTokenUC,
		deps.listTokensUC,
		deps.getUsageHistoryUC,
	)
}

func issuedTokenDTO() *tokendto.AgentTokenDTO {
	now := time.Now().UTC()
	return &tokendto.AgentTokenDTO{
		ID:          7,
		Value:       "LANET-AB12-CD34-EF56GH",
		MaskedValue: "LANET-****-****-EF56GH",
		ClientID:    3,
		SiteID:      9,
		IsActive:    true,
		CreatedBy:   10,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// =====================================================================
// IssueToken
// =====================================================================

func TestTokenHandler_IssueToken_Success(t *testing.T) {
	mockUC := &mockIssueTokenUC{result: &usecases.IssueTokenResult{Token: issuedTokenDTO()}}
	handler := newTestTokenHandler(testDeps{issueTokenUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/agent-tokens", IssueTokenRequest{ClientID: 3, SiteID: 9})
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)

	handler.IssueToken(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), mockUC.got.ClientID)
	assert.Equal(t, uint(9), mockUC.got.SiteID)
	// The raw value is part of the issuance response.
	assert.Contains(t, w.Body.String(), "LANET-AB12-CD34-EF56GH")
}

func TestTokenHandler_IssueToken_BindError(t *testing.T) {
	handler := newTestTokenHandler(testDeps{})

	c, w := testutil.NewTestContext(http.MethodPost, "/agent-tokens", map[string]interface{}{"client_id": 3})
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)

	handler.IssueToken(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenHandler_IssueToken_ForbiddenRole(t *testing.T) {
	mockUC := &mockIssueTokenUC{err: errors.NewForbiddenError("role admin may not manage installation tokens")}
	handler := newTestTokenHandler(testDeps{issueTokenUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/agent-tokens", IssueTokenRequest{ClientID: 3, SiteID: 9})
	testutil.SetAuthContext(c, 10, authorization.RoleAdmin)

	handler.IssueToken(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// =====================================================================
// ValidateToken (unauthenticated enrollment endpoint)
// =====================================================================

func TestTokenHandler_ValidateToken_Success(t *testing.T) {
	mockUC := &mockValidateTokenUC{result: &usecases.ValidateTokenResult{
		Scope: &tokendto.TokenScopeDTO{TokenID: 7, ClientID: 3, SiteID: 9},
	}}
	handler := newTestTokenHandler(testDeps{validateTokenUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/agent/enroll/validate", ValidateTokenRequest{Token: "LANET-AB12-CD34-EF56GH"})

	handler.ValidateToken(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LANET-AB12-CD34-EF56GH", mockUC.got.TokenValue)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
}

func TestTokenHandler_ValidateToken_Expired(t *testing.T) {
	mockUC := &mockValidateTokenUC{err: errors.NewTokenExpiredError("token expired")}
	handler := newTestTokenHandler(testDeps{validateTokenUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/agent/enroll/validate", ValidateTokenRequest{Token: "LANET-AB12-CD34-EF56GH"})

	handler.ValidateToken(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
}

// =====================================================================
// RecordUsage
// =====================================================================

func TestTokenHandler_RecordUsage_Success(t *testing.T) {
	mockUC := &mockRecordUsageUC{result: &usecases.RecordUsageResult{}}
	handler := newTestTokenHandler(testDeps{recordUsageUC: mockUC})

	reqBody := RecordUsageRequest{TokenID: 7, IdempotencyKey: "install-42", Success: true, DeviceInfo: "WS-MX-0042"}
	c, w := testutil.NewTestContext(http.MethodPost, "/agent/enroll/usage", reqBody)

	handler.RecordUsage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "install-42", mockUC.got.IdempotencyKey)
	assert.True(t, mockUC.got.Success)
}

func TestTokenHandler_RecordUsage_KeyFromHeader(t *testing.T) {
	mockUC := &mockRecordUsageUC{result: &usecases.RecordUsageResult{}}
	handler := newTestTokenHandler(testDeps{recordUsageUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/agent/enroll/usage", RecordUsageRequest{TokenID: 7, Success: true})
	c.Request.Header.Set("X-Idempotency-Key", "header-key-9")

	handler.RecordUsage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "header-key-9", mockUC.got.IdempotencyKey)
}

func TestTokenHandler_RecordUsage_DuplicateReported(t *testing.T) {
	mockUC := &mockRecordUsageUC{result: &usecases.RecordUsageResult{Duplicate: true}}
	handler := newTestTokenHandler(testDeps{recordUsageUC: mockUC})

	reqBody := RecordUsageRequest{TokenID: 7, IdempotencyKey: "install-42", Success: true}
	c, w := testutil.NewTestContext(http.MethodPost, "/agent/enroll/usage", reqBody)

	handler.RecordUsage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duplicate":true`)
}

// =====================================================================
// SetTokenActive / DeleteToken
// =====================================================================

func TestTokenHandler_SetTokenActive_Deactivate(t *testing.T) {
	deactivated := issuedTokenDTO()
	deactivated.Value = ""
	deactivated.IsActive = false
	mockUC := &mockSetTokenActiveUC{result: &usecases.SetTokenActiveResult{Token: deactivated}}
	handler := newTestTokenHandler(testDeps{setTokenActiveUC: mockUC})

	inactive := false
	c, w := testutil.NewTestContext(http.MethodPatch, "/agent-tokens/7/active", SetTokenActiveRequest{IsActive: &inactive})
	testutil.SetAuthContext(c, 10, authorization.RoleSuperadmin)
	testutil.SetURLParam(c, "id", "7")

	handler.SetTokenActive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mockUC.got.IsActive)
	assert.Equal(t, uint(7), mockUC.got.TokenID)
	assert.NotContains(t, w.Body.String(), "LANET-AB12-CD34-EF56GH")
}

func TestTokenHandler_SetTokenActive_MissingFlag(t *testing.T) {
	handler := newTestTokenHandler(testDeps{})

	c, w := testutil.NewTestContext(http.MethodPatch, "/agent-tokens/7/active", map[string]interface{}{})
	testutil.SetAuthContext(c, 10, authorization.RoleSuperadmin)
	testutil.SetURLParam(c, "id", "7")

	handler.SetTokenActive(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenHandler_DeleteToken_Success(t *testing.T) {
	mockUC := &mockDeleteTokenUC{}
	handler := newTestTokenHandler(testDeps{deleteTokenUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodDelete, "/agent-tokens/7", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleSuperadmin)
	testutil.SetURLParam(c, "id", "7")

	handler.DeleteToken(c)
	// Flush gin's deferred status header, as the engine would after the handler chain.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint(7), mockUC.got.TokenID)
}

func TestTokenHandler_DeleteToken_Forbidden(t *testing.T) {
	mockUC := &mockDeleteTokenUC{err: errors.NewForbiddenError("only superadmin may delete installation tokens")}
	handler := newTestTokenHandler(testDeps{deleteTokenUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodDelete, "/agent-tokens/7", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetURLParam(c, "id", "7")

	handler.DeleteToken(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// =====================================================================
// ListTokens / GetUsageHistory
// =====================================================================

func TestTokenHandler_ListTokens_Success(t *testing.T) {
	masked := issuedTokenDTO()
	masked.Value = ""
	mockUC := &mockListTokensUC{result: &usecases.ListTokensResult{Tokens: []*tokendto.AgentTokenDTO{masked}}}
	handler := newTestTokenHandler(testDeps{listTokensUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/agent-tokens", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetQueryParams(c, map[string]string{"client_id": "3"})

	handler.ListTokens(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LANET-****-****-EF56GH")
	assert.NotContains(t, w.Body.String(), "LANET-AB12-CD34-EF56GH")
}

func TestTokenHandler_GetUsageHistory_Success(t *testing.T) {
	mockUC := &mockGetUsageHistoryUC{result: &usecases.GetUsageHistoryResult{
		Attempts: []tokendto.UsageAttemptDTO{
			{TokenID: 7, Success: true, DeviceInfo: "WS-MX-0042", AttemptAt: time.Now().UTC()},
		},
	}}
	handler := newTestTokenHandler(testDeps{getUsageHistoryUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/agent-tokens/7/usage", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetURLParam(c, "id", "7")

	handler.GetUsageHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "WS-MX-0042")
}

func TestTokenHandler_GetUsageHistory_UnknownToken(t *testing.T) {
	mockUC := &mockGetUsageHistoryUC{err: errors.NewNotFoundError("token not found")}
	handler := newTestTokenHandler(testDeps{getUsageHistoryUC: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/agent-tokens/99/usage", nil)
	testutil.SetAuthContext(c, 10, authorization.RoleTechnician)
	testutil.SetURLParam(c, "id", "99")

	handler.GetUsageHistory(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
