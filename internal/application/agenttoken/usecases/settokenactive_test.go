package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/shared/authorization"
	apperrors "helpdesk/internal/shared/errors"
)

func TestSetTokenActive_Deactivate(t *testing.T) {
	token := storedToken(t)
	var updated *agenttoken.AgentToken
	repo := &mockTokenRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*agenttoken.AgentToken, error) { return token, nil },
		UpdateFunc:  func(ctx context.Context, tk *agenttoken.AgentToken) error { updated = tk; return nil },
	}
	publisher := &mockEventPublisher{}

	uc := NewSetTokenActiveUseCase(repo, publisher, &mockLogger{})
	result, err := uc.Execute(context.Background(), SetTokenActiveCommand{
		Actor:    authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		TokenID:  7,
		IsActive: false,
	})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, result.Token.IsActive)
	assert.Len(t, publisher.Published, 1)

	// Raw value never leaves the issue call.
	assert.Empty(t, result.Token.Value)
	assert.Equal(t, "LANET-****-****-EF56GH", result.Token.MaskedValue)
}

func TestSetTokenActive_RoleGuard(t *testing.T) {
	for _, role := range []authorization.UserRole{authorization.RoleAdmin, authorization.RoleClientAdmin, authorization.RoleSolicitante} {
		uc := NewSetTokenActiveUseCase(&mockTokenRepository{}, &mockEventPublisher{}, &mockLogger{})
		_, err := uc.Execute(context.Background(), SetTokenActiveCommand{
			Actor:    authorization.Actor{UserID: 100, Role: role},
			TokenID:  7,
			IsActive: false,
		})
		require.Error(t, err, "role %s must not manage tokens", role)
		assert.True(t, apperrors.IsForbiddenError(err))
	}
}

func TestDeleteToken_SuperadminOnly(t *testing.T) {
	token := storedToken(t)
	deleted := false
	repo := &mockTokenRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*agenttoken.AgentToken, error) { return token, nil },
		DeleteFunc:  func(ctx context.Context, tokenID uint) error { deleted = true; return nil },
	}

	uc := NewDeleteTokenUseCase(repo, &mockEventPublisher{}, &mockLogger{})
	err := uc.Execute(context.Background(), DeleteTokenCommand{
		Actor:   authorization.Actor{UserID: 1, Role: authorization.RoleSuperadmin},
		TokenID: 7,
	})

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteToken_TechnicianForbidden(t *testing.T) {
	repo := &mockTokenRepository{
		DeleteFunc: func(ctx context.Context, tokenID uint) error {
			t.Fatal("delete must not run for a forbidden actor")
			return nil
		},
	}

	uc := NewDeleteTokenUseCase(repo, &mockEventPublisher{}, &mockLogger{})
	err := uc.Execute(context.Background(), DeleteTokenCommand{
		Actor:   authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		TokenID: 7,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))
}

func TestListTokens_ValuesAreMasked(t *testing.T) {
	repo := &mockTokenRepository{
		ListByScopeFunc: func(ctx context.Context, clientID, siteID uint) ([]*agenttoken.AgentToken, error) {
			return []*agenttoken.AgentToken{storedToken(t)}, nil
		},
	}

	uc := NewListTokensUseCase(repo, &mockLogger{})
	result, err := uc.Execute(context.Background(), ListTokensCommand{
		Actor:    authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		ClientID: 3,
	})

	require.NoError(t, err)
	require.Len(t, result.Tokens, 1)
	assert.Empty(t, result.Tokens[0].Value)
	assert.Equal(t, "LANET-****-****-EF56GH", result.Tokens[0].MaskedValue)
}

func TestGetUsageHistory(t *testing.T) {
	token := storedToken(t)
	repo := &mockTokenRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*agenttoken.AgentToken, error) { return token, nil },
	}
	usageLog := &mockUsageLogRepository{
		GetByTokenIDFunc: func(ctx context.Context, tokenID uint) ([]agenttoken.UsageAttempt, error) {
			return []agenttoken.UsageAttempt{
				{TokenID: tokenID, Success: true, DeviceInfo: "LAB-PC-04"},
				{TokenID: tokenID, Success: false, Reason: "token_inactive"},
			}, nil
		},
	}

	uc := NewGetUsageHistoryUseCase(repo, usageLog, &mockLogger{})
	result, err := uc.Execute(context.Background(), GetUsageHistoryCommand{
		Actor:   authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		TokenID: 7,
	})

	require.NoError(t, err)
	require.Len(t, result.Attempts, 2)
	assert.True(t, result.Attempts[0].Success)
	assert.Equal(t, "token_inactive", result.Attempts[1].Reason)
}

func TestGetUsageHistory_UnknownToken(t *testing.T) {
	repo := &mockTokenRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*agenttoken.AgentToken, error) {
			return nil, apperrors.NewNotFoundError("token not found")
		},
	}

	uc := NewGetUsageHistoryUseCase(repo, &mockUsageLogRepository{}, &mockLogger{})
	_, err := uc.Execute(context.Background(), GetUsageHistoryCommand{
		Actor:   authorization.Actor{UserID: 1, Role: authorization.RoleSuperadmin},
		TokenID: 404,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
