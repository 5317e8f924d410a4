package agenttoken

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/agenttoken/usecases"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type TokenHandler struct {
	issueTokenUC      usecases.IssueTokenExecutor
	validateTokenUC   usecases.ValidateTokenExecutor
	recordUsageUC     usecases.RecordUsageExecutor
	setTokenActiveUC  usecases.SetTokenActiveExecutor
	deleteTokenUC     usecases.DeleteTokenExecutor
	listTokensUC      usecases.ListTokensExecutor
	getUsageHistoryUC usecases.GetUsageHistoryExecutor
	logger            logger.Interface
}

func NewTokenHandler(
	issueTokenUC usecases.IssueTokenExecutor,
	validateTokenUC usecases.ValidateTokenExecutor,
	recordUsageUC usecases.RecordUsageExecutor,
	setTokenActiveUC usecases.SetTokenActiveExecutor,
	deleteTokenUC usecases.DeleteTokenExecutor,
	listTokensUC usecases.ListTokensExecutor,
	getUsageHistoryUC usecases.GetUsageHistoryExecutor,
) *TokenHandler {
	return &TokenHandler{
		issueTokenUC:      issueTokenUC,
		validateTokenUC:   validateTokenUC,
		recordUsageUC:     recordUsageUC,
		setTokenActiveUC:  setTokenActiveUC,
		deleteTokenUC:     deleteTokenUC,
		listTokensUC:      listTokensUC,
		getUsageHistoryUC: getUsageHistoryUC,
		logger:            logger.NewLogger().With("component", "agent_token_handler"),
	}
}

// IssueToken handles POST /agent-tokens
func (h *TokenHandler) IssueToken(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for issue token", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.issueTokenUC.Execute(c.Request.Context(), req.ToCommand(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Token, "Installation token issued")
}

// ValidateToken handles POST /agent/enroll/validate. Unauthenticated: the
// installer presents nothing but the token value.
func (h *TokenHandler) ValidateToken(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.validateTokenUC.Execute(c.Request.Context(), usecases.ValidateTokenCommand{
		TokenValue: req.Token,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Scope)
}

// RecordUsage handles POST /agent/enroll/usage. Unauthenticated; retries
// carrying the same idempotency key are absorbed.
func (h *TokenHandler) RecordUsage(c *gin.Context) {
	var req RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("X-Idempotency-Key")
	}

	result, err := h.recordUsageUC.Execute(c.Request.Context(), usecases.RecordUsageCommand{
		TokenID:        req.TokenID,
		IdempotencyKey: key,
		Success:        req.Success,
		FailureReason:  req.FailureReason,
		DeviceInfo:     req.DeviceInfo,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"duplicate": result.Duplicate})
}

// SetTokenActive handles PATCH /agent-tokens/:id/active
func (h *TokenHandler) SetTokenActive(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	tokenID, err := parseTokenID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SetTokenActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.setTokenActiveUC.Execute(c.Request.Context(), usecases.SetTokenActiveCommand{
		Actor:    actor,
		TokenID:  tokenID,
		IsActive: *req.IsActive,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token updated", result.Token)
}

// DeleteToken handles DELETE /agent-tokens/:id
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	tokenID, err := parseTokenID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteTokenUC.Execute(c.Request.Context(), usecases.DeleteTokenCommand{
		Actor:   actor,
		TokenID: tokenID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTokens handles GET /agent-tokens
func (h *TokenHandler) ListTokens(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	clientID, err := parseUintQuery(c, "client_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	siteID, err := parseUintQuery(c, "site_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listTokensUC.Execute(c.Request.Context(), usecases.ListTokensCommand{
		Actor:    actor,
		ClientID: clientID,
		SiteID:   siteID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Tokens)
}

// GetUsageHistory handles GET /agent-tokens/:id/usage
func (h *TokenHandler) GetUsageHistory(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication context")
		return
	}

	tokenID, err := parseTokenID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUsageHistoryUC.Execute(c.Request.Context(), usecases.GetUsageHistoryCommand{
		Actor:   actor,
		TokenID: tokenID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Attempts)
}

func parseUintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("Invalid " + name)
	}
	return uint(v), nil
}
