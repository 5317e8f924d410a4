package email

import (
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/logger"
)

// TicketNotifier bridges ticket lifecycle events to outbound email. It is
// subscribed to the dispatcher at startup when email is enabled; delivery
// failures are logged, never propagated back into the transition path.
type TicketNotifier struct {
	mailer *SMTPEmailService
	logger logger.Interface
}

func NewTicketNotifier(mailer *SMTPEmailService, logger logger.Interface) *TicketNotifier {
	return &TicketNotifier{mailer: mailer, logger: logger}
}

// Subscribe registers the notifier for the events it cares about.
func (n *TicketNotifier) Subscribe(dispatcher events.EventSubscriber) error {
	resolvedHandler := events.NewSimpleEventHandler(ticket.EventTypeTicketResolved, n.handleResolved)
	if err := dispatcher.Subscribe(ticket.EventTypeTicketResolved, resolvedHandler); err != nil {
		return err
	}
	reopenedHandler := events.NewSimpleEventHandler(ticket.EventTypeTicketReopened, n.handleReopened)
	return dispatcher.Subscribe(ticket.EventTypeTicketReopened, reopenedHandler)
}

func (n *TicketNotifier) handleResolved(event events.DomainEvent) error {
	resolved, ok := event.(ticket.TicketResolvedEvent)
	if !ok {
		return nil
	}
	if len(resolved.NotifyEmails) == 0 {
		return nil
	}
	if err := n.mailer.SendTicketResolved(resolved.NotifyEmails, resolved.Number, resolved.ResolutionNotes); err != nil {
		n.logger.Warnw("failed to send resolution email", "ticket_number", resolved.Number, "error", err)
	}
	return nil
}

func (n *TicketNotifier) handleReopened(event events.DomainEvent) error {
	reopened, ok := event.(ticket.TicketReopenedEvent)
	if !ok {
		return nil
	}
	if len(reopened.NotifyEmails) == 0 {
		return nil
	}
	if err := n.mailer.SendTicketReopened(reopened.NotifyEmails, reopened.Number, reopened.Reason); err != nil {
		n.logger.Warnw("failed to send reopen email", "ticket_number", reopened.Number, "error", err)
	}
	return nil
}
