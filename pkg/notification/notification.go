// Package notification delivers a notification over every channel it asks
// for. Channels run concurrently on a bounded worker pool.
//
//	type LowStock struct{ Painting models.Painting }
//	func (n LowStock) Via() []string { return []string{notification.Mail, notification.Slack} }
//	func (n LowStock) ToMail() (mail.Message, error) { ... }
//	func (n LowStock) ToSlack() notification.SlackData { ... }
//
//	notifier.Send(ctx, LowStock{Painting: p})
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	outbound "github.com/shashiranjanraj/galeria/pkg/http"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/mail"
	"github.com/shashiranjanraj/galeria/pkg/workerpool"
)

const (
	Mail  = "mail"
	Slack = "slack"
)

// Notification names the channels it should be delivered on.
type Notification interface {
	Via() []string
}

// Mailable supports the mail channel.
type Mailable interface {
	ToMail() (mail.Message, error)
}

// Slackable supports the Slack channel.
type Slackable interface {
	ToSlack() SlackData
}

// SlackData is an incoming-webhook message.
type SlackData struct {
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

type SlackAttachment struct {
	Color  string `json:"color,omitempty"` // "good" | "warning" | "danger"
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// Notifier owns the transports.
type Notifier struct {
	mailer       mail.Mailer
	slackWebhook string
	pool         *workerpool.Pool
}

// New builds a notifier. An empty slackWebhook disables the Slack channel.
func New(mailer mail.Mailer, slackWebhook string, pool *workerpool.Pool) *Notifier {
	return &Notifier{
		mailer:       mailer,
		slackWebhook: slackWebhook,
		pool:         pool,
	}
}

// Send delivers n on all its channels and joins the channel errors.
func (s *Notifier) Send(ctx context.Context, n Notification) error {
	channels := n.Via()
	errs := workerpool.Each(ctx, s.pool, channels, func(ctx context.Context, ch string) error {
		return s.deliver(ctx, ch, n)
	})
	for i, err := range errs {
		if err != nil {
			logger.WithCtx(ctx).Error("notification: channel failed",
				"channel", channels[i], "notification", fmt.Sprintf("%T", n), "error", err)
		}
	}
	return errors.Join(errs...)
}

func (s *Notifier) deliver(ctx context.Context, channel string, n Notification) error {
	switch channel {
	case Mail:
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		msg, err := m.ToMail()
		if err != nil {
			return err
		}
		return s.mailer.Send(ctx, msg)

	case Slack:
		sl, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Slackable", n)
		}
		if s.slackWebhook == "" {
			return nil
		}
		return s.postSlack(ctx, sl.ToSlack())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func (s *Notifier) postSlack(ctx context.Context, d SlackData) error {
	resp, err := outbound.Post(s.slackWebhook).
		Body(d).
		Timeout(5*time.Second).
		Retry(2, 500*time.Millisecond).
		Send(ctx)
	if err != nil {
		return fmt.Errorf("notification: slack post: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("notification: slack: %w", err)
	}
	return nil
}
