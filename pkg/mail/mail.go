// Package mail sends the transactional emails of the storefront.
//
//	mail.To(order.ShippingInfo.Email).
//	    Subject("Confirmación de pedido " + order.OrderNumber).
//	    Template("order_confirmation.html", order).
//	    Send(ctx)
//
// MAIL_DRIVER selects the transport: "smtp" (default) or "log", which only
// writes the message to the application log.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/galeria/config"
	"github.com/shashiranjanraj/galeria/pkg/logger"
)

var ErrNoRecipients = errors.New("mail: no recipients")

// Message is a rendered email.
type Message struct {
	To      []string
	Cc      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP holds connection settings.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func SMTPFromConfig() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", "localhost"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "tienda@galeria.cl"),
		FromName: config.Get("MAIL_FROM_NAME", "Galería"),
	}
}

// ─── Default mailer ──────────────────────────────────────────────────────────

var (
	mu  sync.RWMutex
	std Mailer
)

// FromConfig builds the mailer selected by MAIL_DRIVER.
func FromConfig() Mailer {
	if strings.EqualFold(config.Get("MAIL_DRIVER", "smtp"), "log") {
		return LogMailer{}
	}
	return NewSMTPMailer(SMTPFromConfig())
}

// Use replaces the process-wide mailer.
func Use(m Mailer) {
	mu.Lock()
	defer mu.Unlock()
	std = m
}

// Default returns the process-wide mailer, building it from config on first use.
func Default() Mailer {
	mu.RLock()
	m := std
	mu.RUnlock()
	if m != nil {
		return m
	}

	mu.Lock()
	defer mu.Unlock()
	if std == nil {
		std = FromConfig()
	}
	return std
}

// ─── Fluent builder ──────────────────────────────────────────────────────────

// Builder accumulates a message; rendering errors surface on Send.
type Builder struct {
	msg Message
	err error
}

func To(addresses ...string) *Builder {
	return &Builder{msg: Message{To: compact(addresses)}}
}

func (b *Builder) Cc(addresses ...string) *Builder {
	b.msg.Cc = append(b.msg.Cc, compact(addresses)...)
	return b
}

func (b *Builder) Subject(s string) *Builder {
	b.msg.Subject = s
	return b
}

func (b *Builder) Body(html string) *Builder {
	b.msg.HTML = html
	return b
}

func (b *Builder) Text(text string) *Builder {
	b.msg.Text = text
	return b
}

// Template renders one of the embedded templates as the HTML body.
func (b *Builder) Template(name string, data any) *Builder {
	html, err := Render(name, data)
	if err != nil {
		b.err = err
		return b
	}
	b.msg.HTML = html
	return b
}

// Message returns the built message.
func (b *Builder) Message() (Message, error) {
	if b.err != nil {
		return Message{}, b.err
	}
	if len(b.msg.To) == 0 {
		return Message{}, ErrNoRecipients
	}
	return b.msg, nil
}

// Send delivers through the default mailer.
func (b *Builder) Send(ctx context.Context) error {
	return b.SendWith(ctx, Default())
}

func (b *Builder) SendWith(ctx context.Context, m Mailer) error {
	msg, err := b.Message()
	if err != nil {
		return err
	}
	return m.Send(ctx, msg)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ─── Log mailer ──────────────────────────────────────────────────────────────

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logger.WithCtx(ctx).Info("mail: message",
		"to", strings.Join(msg.To, ", "),
		"subject", msg.Subject,
		"bytes", len(msg.HTML)+len(msg.Text),
	)
	return nil
}

// ─── SMTP mailer ─────────────────────────────────────────────────────────────

type SMTPMailer struct {
	cfg     SMTP
	timeout time.Duration
}

func NewSMTPMailer(cfg SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, timeout: 15 * time.Second}
}

// Send dials with implicit TLS on port 465 and upgrades with STARTTLS
// elsewhere when the server offers it.
func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	cfg := s.cfg
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	dialer := &net.Dialer{}
	var conn net.Conn
	var err error
	if cfg.Port == "465" {
		td := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: cfg.Host}}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer client.Close()

	if cfg.Port != "465" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
				return fmt.Errorf("mail: starttls: %w", err)
			}
		}
	}
	if cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}

	if err := client.Mail(cfg.From); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	for _, rcpt := range append(append([]string(nil), msg.To...), msg.Cc...) {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(buildRaw(cfg, msg)); err != nil {
		w.Close()
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close data: %w", err)
	}
	return client.Quit()
}

func buildRaw(cfg SMTP, msg Message) []byte {
	contentType, body := "text/html", msg.HTML
	if body == "" {
		contentType, body = "text/plain", msg.Text
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.From)
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	if len(msg.Cc) > 0 {
		b.WriteString("Cc: " + strings.Join(msg.Cc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + encodeHeader(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
