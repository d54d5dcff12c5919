// Package mail relays contact form submissions to the site operator over an
// authenticated SMTP session.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/LaviAzankot/CharityChick/internal/apperror"
	"github.com/LaviAzankot/CharityChick/internal/config"
)

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Relay sends contact messages through a configured SMTP server.
type Relay struct {
	cfg config.MailConfig
}

// NewRelay creates a relay for the given mail configuration.
func NewRelay(cfg config.MailConfig) *Relay {
	return &Relay{cfg: cfg}
}

// SendContact formats the submission as a plain-text mail embedding all four
// fields and relays it synchronously to the operator address. Any relay
// failure comes back as a RelayFailure error, never silent success.
func (r *Relay) SendContact(ctx context.Context, msg ContactMessage) error {
	if !r.cfg.Enabled() {
		return apperror.NewRelayFailure("mail relay is not configured", nil)
	}

	// Bound the whole relay session, not just the dial.
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	body := r.buildMessage(msg)
	if err := r.send(ctx, msg.Email, body); err != nil {
		return apperror.NewRelayFailure("sending contact message", err)
	}
	return nil
}

// buildMessage constructs the mail with headers and the plain-text body.
func (r *Relay) buildMessage(msg ContactMessage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", r.cfg.Username))
	b.WriteString(fmt.Sprintf("To: %s\r\n", r.cfg.ToAddress))
	b.WriteString(fmt.Sprintf("Subject: Sent from %s\r\n", msg.Name))
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("Email: %s\r\n", msg.Email))
	b.WriteString(fmt.Sprintf("Phone Number: %s\r\n", msg.Phone))
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("Message: %s\r\n", msg.Message))
	return b.String()
}

// send performs the SMTP session: dial with a timeout, STARTTLS when the
// server offers it, authenticate, submit.
func (r *Relay) send(ctx context.Context, from, body string) error {
	dialer := net.Dialer{Timeout: r.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.cfg.Addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", r.cfg.Addr(), err)
	}

	// The deadline bounds the whole SMTP conversation, not just the dial.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, r.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: r.cfg.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); ok && r.cfg.Password != "" {
		authn := smtp.PlainAuth("", r.cfg.Username, r.cfg.Password, r.cfg.Host)
		if err := client.Auth(authn); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(r.cfg.ToAddress); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write([]byte(body)); err != nil {
		wc.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}
