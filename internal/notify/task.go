package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/himanshinagori/buddyboard/pkg/mailer"
)

// TypeEmailDeliver is the task type for a rendered email handed to the worker.
const TypeEmailDeliver = "email:deliver"

func NewEmailTask(msg mailer.Message) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailDeliver, data), nil
}

// HandleEmailTask is the worker-side handler; the payload already carries the
// rendered subject and bodies, so delivery is the only remaining step.
func (n *Notifier) HandleEmailTask(ctx context.Context, t *asynq.Task) error {
	var msg mailer.Message
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		return fmt.Errorf("unmarshaling email payload: %w", err)
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("email delivery failed", "to", msg.To, "error", err)
		return err
	}

	n.logger.Info("delivered email", "to", msg.To, "subject", msg.Subject)
	return nil
}

// RegisterHandlers attaches the notifier's task handlers to the worker mux.
func (n *Notifier) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeEmailDeliver, n.HandleEmailTask)
}
