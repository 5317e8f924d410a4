package agenttoken

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"helpdesk/internal/application/agenttoken/usecases"
	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/errors"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("lanettoken", func(fl validator.FieldLevel) bool {
			return agenttoken.IsValidTokenValue(fl.Field().String())
		})
	}
}

type IssueTokenRequest struct {
	ClientID    uint   `json:"client_id" binding:"required"`
	SiteID      uint   `json:"site_id" binding:"required"`
	ExpiresDays *int   `json:"expires_days,omitempty"`
	Notes       string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

func (r *IssueTokenRequest) ToCommand(actor authorization.Actor) usecases.IssueTokenCommand {
	return usecases.IssueTokenCommand{
		Actor:       actor,
		ClientID:    r.ClientID,
		SiteID:      r.SiteID,
		ExpiresDays: r.ExpiresDays,
		Notes:       r.Notes,
	}
}

type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required,lanettoken"`
}

type RecordUsageRequest struct {
	TokenID        uint   `json:"token_id" binding:"required"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	Success        bool   `json:"success"`
	FailureReason  string `json:"failure_reason,omitempty" binding:"omitempty,max=100"`
	DeviceInfo     string `json:"device_info,omitempty" binding:"omitempty,max=255"`
}

type SetTokenActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func parseTokenID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid token ID")
	}
	return uint(id), nil
}
