package model

import "time"

type SessionStatus string

const (
	SessionEditing    SessionStatus = "editing"
	SessionSubmitting SessionStatus = "submitting"
	SessionSubmitted  SessionStatus = "submitted"
)

// FieldError is a validation failure attached to one question
type FieldError struct {
	QuestionID string `json:"questionId"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.QuestionID + ": " + e.Message
}

// SessionState is everything one respondent's wizard owns.
// It is never shared between respondents.
type SessionState struct {
	ID              string                 `json:"id"`
	FormID          string                 `json:"formId"`
	Answers         AnswerSet              `json:"answers"`
	Errors          map[string]*FieldError `json:"errors,omitempty"`
	SectionIndex    int                    `json:"sectionIndex"`
	Status          SessionStatus          `json:"status"`
	SubmissionToken string                 `json:"submissionToken"`
	Response        *Response              `json:"response,omitempty"`
	StartedAt       time.Time              `json:"startedAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}
