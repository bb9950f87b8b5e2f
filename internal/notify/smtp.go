package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPConfig carries the connection settings for the mail gateway.
// An empty Host disables sending entirely.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPGateway delivers reminder emails over plain SMTP.
type SMTPGateway struct {
	cfg SMTPConfig
	log *zap.Logger
}

func NewSMTPGateway(cfg SMTPConfig, log *zap.Logger) *SMTPGateway {
	return &SMTPGateway{cfg: cfg, log: log}
}

// Send delivers m. When no SMTP host is configured it returns (false, nil):
// "not sent", not a failure.
func (g *SMTPGateway) Send(_ context.Context, m Message) (bool, error) {
	if g.cfg.Host == "" {
		g.log.Debug("email sending disabled, no SMTP host configured",
			zap.String("subject", m.Subject))
		return false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", g.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	if m.HTML != "" {
		b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(m.HTML)
	} else {
		b.WriteString("\r\n")
		b.WriteString(m.Text)
	}
	b.WriteString("\r\n")

	auth := smtp.PlainAuth("", g.cfg.Username, g.cfg.Password, g.cfg.Host)
	addr := g.cfg.Host + ":" + g.cfg.Port
	if err := smtp.SendMail(addr, auth, g.cfg.From, []string{m.To}, []byte(b.String())); err != nil {
		return false, err
	}
	return true, nil
}
