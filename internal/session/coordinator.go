package session

import (
	"context"
	"time"

	"formsmith/internal/form"
	"formsmith/internal/model"
)

// ResponseCreator persists a response. Implementations must de-duplicate on
// ResponseInput.IdempotencyKey and return the stored response for a repeat.
type ResponseCreator interface {
	CreateResponse(ctx context.Context, in *model.ResponseInput) (*model.Response, error)
}

// SubmissionError wraps a failed store call; the session is left editable
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string   { return "submit response: " + e.Err.Error() }
func (e *SubmissionError) Unwrap() error   { return e.Err }
func (e *SubmissionError) Retryable() bool { return true }

// Coordinator performs the editing -> submitted transition
type Coordinator struct {
	store ResponseCreator
	now   func() time.Time
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

// WithClock overrides the submission timestamp source
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(store ResponseCreator, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{store: store, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Submit validates the last section, scores the answers and stores the
// response under the session's submission token. On a store failure the
// session goes back to editing and a *SubmissionError is returned.
func (c *Coordinator) Submit(ctx context.Context, n *Navigator) (*model.Response, error) {
	if err := n.BeginSubmit(); err != nil {
		return nil, err
	}

	state := n.State()
	in := &model.ResponseInput{
		FormID:         n.Form().ID,
		SessionID:      state.ID,
		IdempotencyKey: state.SubmissionToken,
		Answers:        state.Answers.Snapshot(),
		SubmittedAt:    c.now().UTC(),
		Score:          form.Score(n.Form(), state.Answers),
	}

	resp, err := c.store.CreateResponse(ctx, in)
	if err != nil {
		n.AbortSubmit()
		return nil, &SubmissionError{Err: err}
	}

	n.FinishSubmit(resp)
	return resp, nil
}
