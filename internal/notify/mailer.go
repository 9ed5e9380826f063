package notify

import (
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends transactional emails through a plain SMTP relay.
type SMTPMailer struct {
	Config SMTPConfig
}

// Send implements common.EmailSender.
func (m SMTPMailer) Send(to, subject, html string) error {
	if m.Config.Host == "" {
		return fmt.Errorf("smtp: host not configured")
	}
	auth := smtp.PlainAuth("", m.Config.Username, m.Config.Password, m.Config.Host)
	addr := fmt.Sprintf("%s:%d", m.Config.Host, m.Config.Port)

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, m.Config.From, subject, html))

	return smtp.SendMail(addr, auth, m.Config.From, []string{to}, msg)
}
