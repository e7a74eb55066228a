package form

import (
	"regexp"
	"sort"
	"strings"

	"formsmith/internal/model"
)

// Field error codes
const (
	CodeRequired      = "required"
	CodeInvalidEmail  = "invalid_email"
	CodeInvalidNumber = "invalid_number"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// numberPattern is a plain decimal with optional sign and exponent. Hex
// forms, infinities and NaN are not numbers; magnitude is not limited.
var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ValidationErrors maps question IDs to their failures
type ValidationErrors map[string]*model.FieldError

func (v ValidationErrors) Error() string {
	ids := make([]string, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return "validation failed for " + strings.Join(ids, ", ")
}

// Validate checks one answer against its question. A nil value means unanswered.
func Validate(q *model.Question, value *model.Answer) *model.FieldError {
	if value == nil || value.IsEmpty() {
		if q.Required {
			return &model.FieldError{
				QuestionID: q.ID,
				Code:       CodeRequired,
				Message:    q.Title + " is required",
			}
		}
		return nil
	}

	switch q.Kind {
	case model.KindEmail:
		if value.IsMulti() || !emailPattern.MatchString(value.Text()) {
			return &model.FieldError{QuestionID: q.ID, Code: CodeInvalidEmail, Message: "Please enter a valid email address"}
		}
	case model.KindNumeric:
		if value.IsMulti() || !isNumber(value.Text()) {
			return &model.FieldError{QuestionID: q.ID, Code: CodeInvalidNumber, Message: "Please enter a valid number"}
		}
	}
	return nil
}

func isNumber(s string) bool {
	return numberPattern.MatchString(strings.TrimSpace(s))
}

// ValidateSection runs Validate over every question of a section in order.
// The result is nil when the section is valid.
func ValidateSection(section *model.Section, answers model.AnswerSet) ValidationErrors {
	var errs ValidationErrors
	for i := range section.Questions {
		q := &section.Questions[i]
		var value *model.Answer
		if a, ok := answers.Get(q.ID); ok {
			value = &a
		}
		if fe := Validate(q, value); fe != nil {
			if errs == nil {
				errs = make(ValidationErrors)
			}
			errs[q.ID] = fe
		}
	}
	return errs
}
