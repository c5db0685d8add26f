package mailer

import (
	"fmt"
	"time"

	"physical-ai-textbook-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAccountLockedAlert(toEmail string, lockedUntil time.Time, ipAddress string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	frontendURL string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, frontendURL string, log logger.ILogger) IEmailService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (s *emailService) SendAccountLockedAlert(toEmail string, lockedUntil time.Time, ipAddress string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your account has been temporarily locked")
	m.SetBody("text/html", AccountLockedBody(lockedUntil, ipAddress, s.frontendURL))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send account locked alert", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Account locked alert sent", map[string]interface{}{"to": toEmail})
	return nil
}

func AccountLockedBody(lockedUntil time.Time, ipAddress, frontendURL string) string {
	if ipAddress == "" {
		ipAddress = "an unknown address"
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Too many failed sign-in attempts</h2>
			<p>We locked your Physical AI Textbook account after repeated failed logins from %s.</p>
			<p>You can sign in again after <strong>%s UTC</strong>.</p>
			<p>If this wasn't you, consider changing your password once the lock expires:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open the textbook</a>
		</div>
	`, ipAddress, lockedUntil.UTC().Format("2006-01-02 15:04"), frontendURL)
}
