package model

import "time"

// ResponseInput is what the submission path hands to the store
type ResponseInput struct {
	FormID         string    `json:"formId" bson:"formId"`
	SessionID      string    `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	IdempotencyKey string    `json:"-" bson:"idempotencyKey,omitempty"`
	Answers        AnswerSet `json:"answers" bson:"answers"`
	SubmittedAt    time.Time `json:"submittedAt" bson:"submittedAt"`
	Score          *int      `json:"score,omitempty" bson:"score,omitempty"`
}

// Response is the immutable record of one submitted session
type Response struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	FormID         string    `json:"formId" bson:"formId"`
	SessionID      string    `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	IdempotencyKey string    `json:"-" bson:"idempotencyKey,omitempty"`
	Answers        AnswerSet `json:"answers" bson:"answers"`
	SubmittedAt    time.Time `json:"submittedAt" bson:"submittedAt"`
	Score          *int      `json:"score,omitempty" bson:"score,omitempty"`
}
