package services

import (
	"fmt"
	"net/smtp"
	"os"
	"sync"
)

// Mailer sends the free-text customer messages. Delivery is best-effort;
// an unconfigured SMTP host disables sending without failing requests.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

var (
	mailer     *Mailer
	mailerOnce sync.Once
)

func GetMailer() *Mailer {
	mailerOnce.Do(func() {
		mailer = &Mailer{
			host:     os.Getenv("SMTP_HOST"),
			port:     os.Getenv("SMTP_PORT"),
			username: os.Getenv("SMTP_USERNAME"),
			password: os.Getenv("SMTP_PASSWORD"),
			from:     os.Getenv("SMTP_FROM"),
		}
		if mailer.port == "" {
			mailer.port = "587"
		}
	})
	return mailer
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Send delivers one plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("SMTP_HOST not configured")
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body))

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}
