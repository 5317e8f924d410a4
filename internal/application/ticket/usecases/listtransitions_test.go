package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/authorization"
)

func TestListTransitions_TechnicianOnEnProceso(t *testing.T) {
	stored := storedTicket(t, vo.StatusEnProceso)
	repo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return stored, nil },
	}

	uc := NewListTransitionsUseCase(repo, &mockUserDirectory{}, &mockLogger{})
	result, err := uc.Execute(context.Background(), ListTransitionsCommand{
		Actor:    authorization.Actor{UserID: 10, Role: authorization.RoleTechnician},
		TicketID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, "en_proceso", result.CurrentStatus)

	targets := map[string]string{}
	for _, tr := range result.Transitions {
		targets[tr.To] = tr.RequiredField
	}
	assert.Equal(t, map[string]string{
		"espera_cliente": "",
		"resuelto":       "resolution_notes",
	}, targets)
}

func TestListTransitions_AdminSeesCancellation(t *testing.T) {
	stored := storedTicket(t, vo.StatusEnProceso)
	repo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return stored, nil },
	}

	uc := NewListTransitionsUseCase(repo, &mockUserDirectory{}, &mockLogger{})
	result, err := uc.Execute(context.Background(), ListTransitionsCommand{
		Actor:    authorization.Actor{UserID: 5, Role: authorization.RoleAdmin},
		TicketID: 42,
	})

	require.NoError(t, err)
	targets := make([]string, 0, len(result.Transitions))
	for _, tr := range result.Transitions {
		targets = append(targets, tr.To)
	}
	assert.Contains(t, targets, "cancelado")
}

func TestListTransitions_ClosedTicketForNonSuperadmin(t *testing.T) {
	stored := storedTicket(t, vo.StatusCerrado)
	repo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return stored, nil },
	}

	uc := NewListTransitionsUseCase(repo, &mockUserDirectory{}, &mockLogger{})

	adminResult, err := uc.Execute(context.Background(), ListTransitionsCommand{
		Actor:    authorization.Actor{UserID: 5, Role: authorization.RoleAdmin},
		TicketID: 42,
	})
	require.NoError(t, err)
	assert.Empty(t, adminResult.Transitions)

	superResult, err := uc.Execute(context.Background(), ListTransitionsCommand{
		Actor:    authorization.Actor{UserID: 1, Role: authorization.RoleSuperadmin},
		TicketID: 42,
	})
	require.NoError(t, err)
	require.Len(t, superResult.Transitions, 1)
	assert.Equal(t, "reabierto", superResult.Transitions[0].To)
	assert.Equal(t, "reopen_reason", superResult.Transitions[0].RequiredField)
}
