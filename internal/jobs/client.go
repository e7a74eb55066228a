package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
)

const maxRetry = 5

// Client enqueues jobs on the asynq Redis queue
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueResponseSubmitted schedules an analytics refresh. The task id is the
// response id, so a response is only ever queued once.
func (c *Client) EnqueueResponseSubmitted(ctx context.Context, formID, responseID string) error {
	task, err := NewResponseSubmittedTask(formID, responseID)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.TaskID(responseID), asynq.MaxRetry(maxRetry))
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func (c *Client) Close() error {
	return c.client.Close()
}
