package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendProjectInvite(email, memberName, projectName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendProjectInvite(email, memberName, projectName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("You were added to %s", projectName))

	body := fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>You have been added to the project <strong>%s</strong> on Siteworks.</p>
		<p>Sign in with your phone number to see the project.</p>
	`, memberName, projectName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	return nil
}
