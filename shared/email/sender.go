package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"training-weather/shared/config"
)

// sendMailFunc matches smtp.SendMail so tests can capture messages
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Sender struct {
	config   *config.EmailConfig
	sendMail sendMailFunc
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config:   cfg,
		sendMail: smtp.SendMail,
	}
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}
	if err := s.sendViaSMTP(subject, htmlBody); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", s.config.ToEmail, err)
	}
	return nil
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := recipients(s.config.ToEmail)
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, strings.Join(to, ", "), s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return s.sendMail(addr, auth, s.config.FromEmail, to, msg)
}

// recipients splits a comma separated address list
func recipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
