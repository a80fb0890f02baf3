// Package notify renders and delivers the transactional emails: account
// verification, password reset, and deck moderation notices.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/pkg/mailer"
)

type Notifier struct {
	mailer mailer.Mailer
	queue  *asynq.Client
	logger *slog.Logger
}

// New builds a notifier. When queue is non-nil, delivery is handed to the
// worker; otherwise mail is sent inline before the HTTP response returns.
func New(m mailer.Mailer, queue *asynq.Client, logger *slog.Logger) *Notifier {
	return &Notifier{mailer: m, queue: queue, logger: logger}
}

func (n *Notifier) VerificationEmail(ctx context.Context, user *models.User, verifyURL string) error {
	html, err := renderHTML(verificationTemplate, templateData{
		Title: "Email Verification",
		Name:  user.Name,
		URL:   verifyURL,
	})
	if err != nil {
		return err
	}

	return n.deliver(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Email Verification",
		Text:    fmt.Sprintf("Please verify your email by clicking on the following link:\n\n%s", verifyURL),
		HTML:    html,
	})
}

func (n *Notifier) PasswordResetEmail(ctx context.Context, user *models.User, resetURL string) error {
	html, err := renderHTML(passwordResetTmpl, templateData{
		Title: "Password Reset",
		Name:  user.Name,
		URL:   resetURL,
	})
	if err != nil {
		return err
	}

	return n.deliver(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Password Reset",
		Text:    fmt.Sprintf("You requested a password reset. Please click on the following link to reset your password:\n\n%s", resetURL),
		HTML:    html,
	})
}

func (n *Notifier) DeckBlockedEmail(ctx context.Context, owner *models.User, deck *models.Deck, reason string) error {
	html, err := renderHTML(deckBlockedTemplate, templateData{
		Title:     "Deck Blocked Notification",
		Name:      owner.Name,
		DeckTitle: deck.Title,
		Reason:    reason,
	})
	if err != nil {
		return err
	}

	return n.deliver(ctx, mailer.Message{
		To:      owner.Email,
		Subject: "Deck Blocked",
		Text:    fmt.Sprintf("Your deck %s has been blocked for %s. Please contact the admin for more information.", deck.Title, reason),
		HTML:    html,
	})
}

func (n *Notifier) deliver(ctx context.Context, msg mailer.Message) error {
	if n.queue != nil {
		task, err := NewEmailTask(msg)
		if err != nil {
			return err
		}
		if _, err := n.queue.EnqueueContext(ctx, task, asynq.Queue("mail")); err != nil {
			return fmt.Errorf("enqueueing mail task: %w", err)
		}
		n.logger.Debug("queued email", "to", msg.To, "subject", msg.Subject)
		return nil
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		return err
	}
	n.logger.Debug("sent email", "to", msg.To, "subject", msg.Subject)
	return nil
}
