package usecases

import (
	"context"
	"time"

	"helpdesk/internal/domain/agenttoken"
	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/shared/logger"
)

type mockTokenRepository struct {
	SaveFunc        func(ctx context.Context, token *agenttoken.AgentToken) error
	UpdateFunc      func(ctx context.Context, token *agenttoken.AgentToken) error
	DeleteFunc      func(ctx context.Context, tokenID uint) error
	GetByIDFunc     func(ctx context.Context, tokenID uint) (*agenttoken.AgentToken, error)
	GetByValueFunc  func(ctx context.Context, value string) (*agenttoken.AgentToken, error)
	ListByScopeFunc func(ctx context.Context, clientID, siteID uint) ([]*agenttoken.AgentToken, error)
}

func (m *mockTokenRepository) Save(ctx context.Context, token *agenttoken.AgentToken) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, token)
	}
	return nil
}

func (m *mockTokenRepository) Update(ctx context.Context, token *agenttoken.AgentToken) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, token)
	}
	return nil
}

func (m *mockTokenRepository) Delete(ctx context.Context, tokenID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tokenID)
	}
	return nil
}

func (m *mockTokenRepository) GetByID(ctx context.Context, tokenID uint) (*agenttoken.AgentToken, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tokenID)
	}
	return nil, nil
}

func (m *mockTokenRepository) GetByValue(ctx context.Context, value string) (*agenttoken.AgentToken, error) {
	if m.GetByValueFunc != nil {
		return m.GetByValueFunc(ctx, value)
	}
	return nil, nil
}

func (m *mockTokenRepository) ListByScope(ctx context.Context, clientID, siteID uint) ([]*agenttoken.AgentToken, error) {
	if m.ListByScopeFunc != nil {
		return m.ListByScopeFunc(ctx, clientID, siteID)
	}
	return nil, nil
}

type mockUsageLogRepository struct {
	AppendFunc       func(ctx context.Context, attempt agenttoken.UsageAttempt) error
	GetByTokenIDFunc func(ctx context.Context, tokenID uint) ([]agenttoken.UsageAttempt, error)
	Appended         []agenttoken.UsageAttempt
}

func (m *mockUsageLogRepository) Append(ctx context.Context, attempt agenttoken.UsageAttempt) error {
	m.Appended = append(m.Appended, attempt)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, attempt)
	}
	return nil
}

func (m *mockUsageLogRepository) GetByTokenID(ctx context.Context, tokenID uint) ([]agenttoken.UsageAttempt, error) {
	if m.GetByTokenIDFunc != nil {
		return m.GetByTokenIDFunc(ctx, tokenID)
	}
	return nil, nil
}

type mockIdempotencyStore struct {
	TryAcquireFunc func(ctx context.Context, key string, window time.Duration) (bool, error)
	ReleaseFunc    func(ctx context.Context, key string) error
	Keys           []string
	Released       []string
}

func (m *mockIdempotencyStore) TryAcquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	m.Keys = append(m.Keys, key)
	if m.TryAcquireFunc != nil {
		return m.TryAcquireFunc(ctx, key, window)
	}
	return true, nil
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.Released = append(m.Released, key)
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	return nil
}

// heldKeyStore behaves like the real fence: a key acquired and not
// released stays held for subsequent calls.
type heldKeyStore struct {
	held map[string]bool
}

func newHeldKeyStore() *heldKeyStore {
	return &heldKeyStore{held: make(map[string]bool)}
}

func (s *heldKeyStore) TryAcquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	if s.held[key] {
		return false, nil
	}
	s.held[key] = true
	return true, nil
}

func (s *heldKeyStore) Release(ctx context.Context, key string) error {
	delete(s.held, key)
	return nil
}

type mockClientDirectory struct {
	SiteBelongsToClientFunc func(ctx context.Context, clientID, siteID uint) (bool, error)
}

func (m *mockClientDirectory) SiteBelongsToClient(ctx context.Context, clientID, siteID uint) (bool, error) {
	if m.SiteBelongsToClientFunc != nil {
		return m.SiteBelongsToClientFunc(ctx, clientID, siteID)
	}
	return true, nil
}

var _ directory.ClientDirectory = (*mockClientDirectory)(nil)

type mockEventPublisher struct {
	PublishFunc    func(event events.DomainEvent) error
	PublishAllFunc func(evts []events.DomainEvent) error
	Published      []events.DomainEvent
}

func (m *mockEventPublisher) Publish(event events.DomainEvent) error {
	m.Published = append(m.Published, event)
	if m.PublishFunc != nil {
		return m.PublishFunc(event)
	}
	return nil
}

func (m *mockEventPublisher) PublishAll(evts []events.DomainEvent) error {
	m.Published = append(m.Published, evts...)
	if m.PublishAllFunc != nil {
		return m.PublishAllFunc(evts)
	}
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                   {}
func (m *mockLogger) Info(msg string, args ...any)                    {}
func (m *mockLogger) Warn(msg string, args ...any)                    {}
func (m *mockLogger) Error(msg string, args ...any)                   {}
func (m *mockLogger) With(args ...any) logger.Interface               { return m }
func (m *mockLogger) Named(name string) logger.Interface              { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
