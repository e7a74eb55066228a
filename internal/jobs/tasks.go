// Package jobs holds the background work that follows a submission.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeResponseSubmitted = "response:submitted"

type ResponseSubmittedPayload struct {
	FormID     string `json:"formId"`
	ResponseID string `json:"responseId"`
}

func NewResponseSubmittedTask(formID, responseID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ResponseSubmittedPayload{FormID: formID, ResponseID: responseID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResponseSubmitted, payload), nil
}
