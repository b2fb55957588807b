package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/RohithDharshan/campusflow/internal/ledger"
)

// SMTPPoster delivers outbox records over SMTP with STARTTLS.
type SMTPPoster struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// sendMail is swapped in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPPoster(host string, port int, username, password, from string) *SMTPPoster {
	return &SMTPPoster{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		sendMail: smtp.SendMail,
	}
}

func (p *SMTPPoster) Post(rec ledger.OutboxRecord) error {
	if p.Host == "" || p.From == "" {
		return fmt.Errorf("smtp poster not configured")
	}

	var auth smtp.Auth
	if p.Username != "" {
		auth = smtp.PlainAuth("", p.Username, p.Password, p.Host)
	}

	msg := buildMIME(p.From, rec)
	send := p.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	addr := fmt.Sprintf("%s:%d", p.Host, p.Port)
	if err := send(addr, auth, p.From, []string{rec.Recipient}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", rec.Recipient, err)
	}
	return nil
}

func buildMIME(from string, rec ledger.OutboxRecord) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", rec.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", rec.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(rec.Body)
	return []byte(b.String())
}

// LogPoster writes notifications to the process log instead of delivering
// them. Used when SMTP is not configured so local runs still show the flow.
type LogPoster struct{}

func (LogPoster) Post(rec ledger.OutboxRecord) error {
	log.Printf("notify: would send to %s: %s", rec.Recipient, rec.Subject)
	return nil
}
