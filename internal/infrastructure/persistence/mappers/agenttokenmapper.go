package mappers

import (
	"time"

	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/infrastructure/persistence/models"
)

type AgentTokenMapper interface {
	ToModel(t *agenttoken.AgentToken) *models.AgentTokenModel
	ToDomain(model *models.AgentTokenModel) (*agenttoken.AgentToken, error)
	UsageToModel(attempt agenttoken.UsageAttempt) *models.TokenUsageLogModel
	UsageToDomain(model *models.TokenUsageLogModel) agenttoken.UsageAttempt
}

type AgentTokenMapperImpl struct{}

func NewAgentTokenMapper() AgentTokenMapper {
	return &AgentTokenMapperImpl{}
}

func (m *AgentTokenMapperImpl) ToModel(t *agenttoken.AgentToken) *models.AgentTokenModel {
	return &models.AgentTokenModel{
		ID:         t.ID(),
		Value:      t.Value(),
		ClientID:   t.ClientID(),
		SiteID:     t.SiteID(),
		Notes:      t.Notes(),
		IsActive:   t.IsActive(),
		UsageCount: t.UsageCount(),
		Version:    t.Version(),
		CreatedBy:  t.CreatedBy(),
		CreatedAt:  t.CreatedAt().UnixMilli(),
		UpdatedAt:  t.UpdatedAt().UnixMilli(),
		ExpiresAt:  toMilliPtr(t.ExpiresAt()),
		LastUsedAt: toMilliPtr(t.LastUsedAt()),
	}
}

func (m *AgentTokenMapperImpl) ToDomain(model *models.AgentTokenModel) (*agenttoken.AgentToken, error) {
	return agenttoken.ReconstructAgentToken(agenttoken.ReconstructAgentTokenParams{
		ID:         model.ID,
		Value:      model.Value,
		ClientID:   model.ClientID,
		SiteID:     model.SiteID,
		Notes:      model.Notes,
		IsActive:   model.IsActive,
		UsageCount: model.UsageCount,
		Version:    model.Version,
		CreatedBy:  model.CreatedBy,
		CreatedAt:  time.UnixMilli(model.CreatedAt).UTC(),
		UpdatedAt:  time.UnixMilli(model.UpdatedAt).UTC(),
		ExpiresAt:  fromMilliPtr(model.ExpiresAt),
		LastUsedAt: fromMilliPtr(model.LastUsedAt),
	})
}

func (m *AgentTokenMapperImpl) UsageToModel(attempt agenttoken.UsageAttempt) *models.TokenUsageLogModel {
	return &models.TokenUsageLogModel{
		TokenID:    attempt.TokenID,
		Success:    attempt.Success,
		Reason:     attempt.Reason,
		DeviceInfo: attempt.DeviceInfo,
		AttemptAt:  attempt.AttemptAt.UnixMilli(),
	}
}

func (m *AgentTokenMapperImpl) UsageToDomain(model *models.TokenUsageLogModel) agenttoken.UsageAttempt {
	return agenttoken.UsageAttempt{
		TokenID:    model.TokenID,
		Success:    model.Success,
		Reason:     model.Reason,
		DeviceInfo: model.DeviceInfo,
		AttemptAt:  time.UnixMilli(model.AttemptAt).UTC(),
	}
}
