package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"helpdesk/internal/shared/config"
)

type SMTPEmailService struct {
	config *config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(cfg *config.EmailConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (s *SMTPEmailService) SendTicketResolved(to []string, ticketNumber, notes string) error {
	subject := fmt.Sprintf("Ticket %s resolved", ticketNumber)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Your ticket %s has been resolved</h2>
			<p>Resolution:</p>
			<blockquote>%s</blockquote>
			<p>If the issue persists, reply to reopen the ticket within your helpdesk portal.</p>
		</body>
		</html>
	`, ticketNumber, notes)
	plainBody := fmt.Sprintf("Your ticket %s has been resolved.\n\nResolution:\n%s\n\nIf the issue persists, you can reopen the ticket from the helpdesk portal.", ticketNumber, notes)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendTicketReopened(to []string, ticketNumber, reason string) error {
	subject := fmt.Sprintf("Ticket %s reopened", ticketNumber)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Ticket %s has been reopened</h2>
			<p>Reason:</p>
			<blockquote>%s</blockquote>
			<p>Our team will pick it up again shortly.</p>
		</body>
		</html>
	`, ticketNumber, reason)
	plainBody := fmt.Sprintf("Ticket %s has been reopened.\n\nReason:\n%s\n\nOur team will pick it up again shortly.", ticketNumber, reason)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to []string, subject, htmlBody, plainBody string) error {
	if len(to) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
