// Package notify delivers the best-effort email fired after a request is
// created. Delivery is never part of the request's success contract: the
// dispatcher logs failures and the caller moves on.
package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type EmailDispatcher struct {
	cfg    Config
	logger *log.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailDispatcher(cfg Config, logger *log.Logger) *EmailDispatcher {
	return &EmailDispatcher{cfg: cfg, logger: logger, send: smtp.SendMail}
}

func (d *EmailDispatcher) SendRequestCreated(ctx context.Context, n domain.RequestNotification) error {
	if n.To == "" {
		d.logger.Println("patient email is empty, skipping email sending")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", d.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", n.To)
	b.WriteString("Subject: New medical request created\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\nA new medical request has been created.\r\n\r\n", n.PatientName)
	fmt.Fprintf(&b, "Doctor: %s\r\nStatus: %s\r\nCreated at: %s\r\n\r\n",
		n.DoctorName, n.Status, n.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("Best regards,\r\nMedical Records System\r\n")

	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)
	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}
	if err := d.send(addr, auth, d.cfg.From, []string{n.To}, []byte(b.String())); err != nil {
		d.logger.Printf("failed to send email to %s: %v", n.To, err)
		return err
	}
	d.logger.Printf("email sent successfully to %s", n.To)
	return nil
}
