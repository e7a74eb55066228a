// Package session drives one respondent through a form: answer edits,
// section navigation gated by validation, and the one-shot submission.
package session

import (
	"errors"
	"time"

	"formsmith/internal/form"
	"formsmith/internal/model"
)

var (
	ErrUnknownQuestion   = errors.New("question does not belong to this form")
	ErrAnswerShape       = errors.New("answer shape does not match question kind")
	ErrUnknownOption     = errors.New("answer is not one of the question's options")
	ErrSectionOutOfRange = errors.New("section index out of range")
	ErrNotLastSection    = errors.New("submit is only allowed from the last section")
	ErrSubmitInProgress  = errors.New("a submission is already in progress")
	ErrAlreadySubmitted  = errors.New("session already submitted")
	ErrFormMismatch      = errors.New("session belongs to a different form")
)

// NewState starts an empty session on the first section
func NewState(formID, id, token string, now time.Time) *model.SessionState {
	return &model.SessionState{
		ID:              id,
		FormID:          formID,
		Answers:         make(model.AnswerSet),
		SectionIndex:    0,
		Status:          model.SessionEditing,
		SubmissionToken: token,
		StartedAt:       now,
		UpdatedAt:       now,
	}
}

// Navigator applies state transitions to one session. The form is read-only.
type Navigator struct {
	form  *model.FormDefinition
	state *model.SessionState
}

// NewNavigator binds a session to the form it was started on
func NewNavigator(f *model.FormDefinition, state *model.SessionState) (*Navigator, error) {
	if state.FormID != f.ID {
		return nil, ErrFormMismatch
	}
	if state.Answers == nil {
		state.Answers = make(model.AnswerSet)
	}
	return &Navigator{form: f, state: state}, nil
}

func (n *Navigator) State() *model.SessionState   { return n.state }
func (n *Navigator) Form() *model.FormDefinition { return n.form }

func (n *Navigator) editable() error {
	switch n.state.Status {
	case model.SessionSubmitted:
		return ErrAlreadySubmitted
	case model.SessionSubmitting:
		return ErrSubmitInProgress
	}
	return nil
}

// SetAnswer stores one answer. An empty value is stored as-is and counts as unanswered.
func (n *Navigator) SetAnswer(questionID string, a model.Answer) error {
	if err := n.editable(); err != nil {
		return err
	}
	q, ok := n.form.Question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if a.Shape() != q.Kind.AnswerShape() {
		return ErrAnswerShape
	}
	if q.Kind.IsChoice() && !a.IsEmpty() {
		if err := checkOptions(q, a); err != nil {
			return err
		}
	}

	n.state.Answers.Set(questionID, a)
	delete(n.state.Errors, questionID)
	return nil
}

func checkOptions(q *model.Question, a model.Answer) error {
	values := a.Values()
	if !a.IsMulti() {
		values = []string{a.Text()}
	}
	for _, v := range values {
		found := false
		for _, o := range q.Options {
			if o == v {
				found = true
				break
			}
		}
		if !found {
			return ErrUnknownOption
		}
	}
	return nil
}

// Advance moves to target. Moving back or staying is always allowed; moving
// forward first validates the current section and refuses on any error,
// leaving the index unchanged. The returned error is form.ValidationErrors
// in that case.
func (n *Navigator) Advance(target int) error {
	if err := n.editable(); err != nil {
		return err
	}
	if target < 0 || target > n.form.LastSection() {
		return ErrSectionOutOfRange
	}
	if target <= n.state.SectionIndex {
		n.state.SectionIndex = target
		return nil
	}

	if errs := n.validateCurrent(); errs != nil {
		return errs
	}
	n.state.SectionIndex = target
	return nil
}

// BeginSubmit validates the last section and enters the submitting guard state.
func (n *Navigator) BeginSubmit() error {
	if err := n.editable(); err != nil {
		return err
	}
	if n.state.SectionIndex != n.form.LastSection() {
		return ErrNotLastSection
	}
	if errs := n.validateCurrent(); errs != nil {
		return errs
	}
	n.state.Status = model.SessionSubmitting
	return nil
}

// AbortSubmit returns to editing after a failed store call. Answers are untouched.
func (n *Navigator) AbortSubmit() {
	if n.state.Status == model.SessionSubmitting {
		n.state.Status = model.SessionEditing
	}
}

// FinishSubmit records the stored response and makes the session terminal
func (n *Navigator) FinishSubmit(resp *model.Response) {
	n.state.Status = model.SessionSubmitted
	n.state.Response = resp
}

// Reset clears answers and errors and returns to the first section with a
// fresh submission token. Allowed from any state except mid-submission.
func (n *Navigator) Reset(token string) error {
	if n.state.Status == model.SessionSubmitting {
		return ErrSubmitInProgress
	}
	n.state.Answers = make(model.AnswerSet)
	n.state.Errors = nil
	n.state.SectionIndex = 0
	n.state.Status = model.SessionEditing
	n.state.Response = nil
	n.state.SubmissionToken = token
	return nil
}

func (n *Navigator) validateCurrent() form.ValidationErrors {
	section := &n.form.Sections[n.state.SectionIndex]
	errs := form.ValidateSection(section, n.state.Answers)
	if errs == nil {
		for _, q := range section.Questions {
			delete(n.state.Errors, q.ID)
		}
		return nil
	}
	if n.state.Errors == nil {
		n.state.Errors = make(map[string]*model.FieldError)
	}
	for id, fe := range errs {
		n.state.Errors[id] = fe
	}
	return errs
}
