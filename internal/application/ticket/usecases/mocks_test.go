package usecases

import (
	"context"

	"helpdesk/internal/domain/directory"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/logger"
)

type mockTicketRepository struct {
	SaveFunc        func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc      func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc     func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	GetByNumberFunc func(ctx context.Context, number string) (*ticket.Ticket, error)
	ListFunc        func(ctx context.Context, filters ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockTicketRepository) List(ctx context.Context, filters ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return nil, 0, nil
}

type mockCommentRepository struct {
	SaveFunc          func(ctx context.Context, comment *ticket.Comment) error
	GetByTicketIDFunc func(ctx context.Context, ticketID uint) ([]*ticket.Comment, error)
}

func (m *mockCommentRepository) Save(ctx context.Context, comment *ticket.Comment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepository) GetByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Comment, error) {
	if m.GetByTicketIDFunc != nil {
		return m.GetByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockUserDirectory struct {
	GetByIDFunc func(ctx context.Context, userID uint) (*directory.User, error)
}

func (m *mockUserDirectory) GetByID(ctx context.Context, userID uint) (*directory.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return nil, nil
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

type mockNumberGenerator struct {
	GenerateFunc func(ctx context.Context) (string, error)
}

func (m *mockNumberGenerator) Generate(ctx context.Context) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx)
	}
	return "TKT-20260101-0001", nil
}

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

// mockTransactionRunner runs the function inline; Calls counts invocations.
type mockTransactionRunner struct {
	RunFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	Calls   int
}

func (m *mockTransactionRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.RunFunc != nil {
		return m.RunFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                    {}
func (m *mockLogger) Info(msg string, args ...any)                     {}
func (m *mockLogger) Warn(msg string, args ...any)                     {}
func (m *mockLogger) Error(msg string, args ...any)                    {}
func (m *mockLogger) With(args ...any) logger.Interface                { return m }
func (m *mockLogger) Named(name string) logger.Interface               { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})   {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})   {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{})  {}
