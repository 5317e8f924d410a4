package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/shared/authorization"
	apperrors "helpdesk/internal/shared/errors"
)

func storedToken(t *testing.T, mutate ...func(*agenttoken.ReconstructAgentTokenParams)) *agenttoken.AgentToken {
	t.Helper()
	params := agenttoken.ReconstructAgentTokenParams{
		ID:         7,
		Value:      "LANET-AB12-CD34-EF56GH",
		ClientID:   3,
		SiteID:     9,
		IsActive:   true,
		UsageCount: 2,
		Version:    1,
		CreatedBy:  1,
		CreatedAt:  time.Now().Add(-24 * time.Hour).UTC(),
		UpdatedAt:  time.Now().Add(-24 * time.Hour).UTC(),
	}
	for _, m := range mutate {
		m(&params)
	}
	token, err := agenttoken.ReconstructAgentToken(params)
	require.NoError(t, err)
	return token
}

func newIssueUseCase(repo *mockTokenRepository, clientDir *mockClientDirectory) *IssueTokenUseCase {
	if clientDir == nil {
		clientDir = &mockClientDirectory{}
	}
	return NewIssueTokenUseCase(repo, clientDir, &mockEventPublisher{}, 30, &mockLogger{})
}

func TestIssueToken_Success(t *testing.T) {
	var saved *agenttoken.AgentToken
	repo := &mockTokenRepository{
		SaveFunc: func(ctx context.Context, token *agenttoken.AgentToken) error {
			saved = token
			return token.SetID(7)
		},
	}

	uc := newIssueUseCase(repo, nil)
	result, err := uc.Execute(context.Background(), IssueTokenCommand{
		Actor:    authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		ClientID: 3,
		SiteID:   9,
		Notes:    "lab machines",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, result.Token.IsActive)
	assert.True(t, agenttoken.IsValidTokenValue(result.Token.Value))
	assert.Equal(t, uint(3), result.Token.ClientID)
	assert.Equal(t, uint(9), result.Token.SiteID)

	// Default expiry horizon applies when the caller does not set one.
	require.NotNil(t, result.Token.ExpiresAt)
	expected := time.Now().UTC().AddDate(0, 0, 30)
	assert.WithinDuration(t, expected, *result.Token.ExpiresAt, time.Minute)
}

func TestIssueToken_ExplicitExpiry(t *testing.T) {
	repo := &mockTokenRepository{
		SaveFunc: func(ctx context.Context, token *agenttoken.AgentToken) error { return token.SetID(7) },
	}

	days := 7
	uc := newIssueUseCase(repo, nil)
	result, err := uc.Execute(context.Background(), IssueTokenCommand{
		Actor:       authorization.Actor{UserID: 1, Role: authorization.RoleSuperadmin},
		ClientID:    3,
		SiteID:      9,
		ExpiresDays: &days,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Token.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 7), *result.Token.ExpiresAt, time.Minute)
}

func TestIssueToken_RoleGuard(t *testing.T) {
	roles := []authorization.UserRole{
		authorization.RoleAdmin,
		authorization.RoleClientAdmin,
		authorization.RoleSolicitante,
	}
	for _, role := range roles {
		uc := newIssueUseCase(&mockTokenRepository{}, nil)
		_, err := uc.Execute(context.Background(), IssueTokenCommand{
			Actor:    authorization.Actor{UserID: 100, Role: role},
			ClientID: 3,
			SiteID:   9,
		})
		require.Error(t, err, "role %s must not issue tokens", role)
		assert.True(t, apperrors.IsForbiddenError(err))
	}
}

func TestIssueToken_SiteOutsideClient(t *testing.T) {
	clientDir := &mockClientDirectory{
		SiteBelongsToClientFunc: func(ctx context.Context, clientID, siteID uint) (bool, error) {
			return false, nil
		},
	}

	uc := newIssueUseCase(&mockTokenRepository{}, clientDir)
	_, err := uc.Execute(context.Background(), IssueTokenCommand{
		Actor:    authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		ClientID: 3,
		SiteID:   999,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidScopeError(err))
}

func TestIssueToken_NonPositiveExpiryRejected(t *testing.T) {
	days := 0
	uc := newIssueUseCase(&mockTokenRepository{}, nil)
	_, err := uc.Execute(context.Background(), IssueTokenCommand{
		Actor:       authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		ClientID:    3,
		SiteID:      9,
		ExpiresDays: &days,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}
