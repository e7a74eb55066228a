package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"formsmith/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefinitionError lists everything wrong with a form definition
type DefinitionError struct {
	Problems []string
}

func (e *DefinitionError) Error() string {
	return "invalid form definition: " + strings.Join(e.Problems, "; ")
}

// CheckDefinition verifies a form before it is stored
func CheckDefinition(def *model.FormDefinition) error {
	var problems []string

	if err := validate.Struct(def); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
	}

	seenSections := make(map[string]bool)
	seen := make(map[string]bool)
	for _, s := range def.Sections {
		if s.ID != "" && seenSections[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate section id %q", s.ID))
		}
		seenSections[s.ID] = true

		for _, q := range s.Questions {
			if q.ID != "" && seen[q.ID] {
				problems = append(problems, fmt.Sprintf("duplicate question id %q", q.ID))
			}
			seen[q.ID] = true
			problems = append(problems, checkQuestion(&q)...)
		}
	}

	if len(problems) > 0 {
		return &DefinitionError{Problems: problems}
	}
	return nil
}

func checkQuestion(q *model.Question) []string {
	var problems []string
	if q.Kind.IsChoice() && len(q.Options) == 0 {
		problems = append(problems, fmt.Sprintf("question %q needs at least one option", q.ID))
	}
	if q.CorrectAnswer == nil {
		return problems
	}

	switch q.Kind {
	case model.KindSingleChoice:
		if q.CorrectAnswer.IsMulti() {
			problems = append(problems, fmt.Sprintf("question %q correct answer must be a single value", q.ID))
		} else if !q.CorrectAnswer.IsEmpty() && !hasOption(q.Options, q.CorrectAnswer.Text()) {
			problems = append(problems, fmt.Sprintf("question %q correct answer is not an option", q.ID))
		}
	case model.KindMultiChoice:
		if !q.CorrectAnswer.IsMulti() {
			problems = append(problems, fmt.Sprintf("question %q correct answer must be a list", q.ID))
			break
		}
		for _, v := range q.CorrectAnswer.Values() {
			if !hasOption(q.Options, v) {
				problems = append(problems, fmt.Sprintf("question %q correct answer %q is not an option", q.ID, v))
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("question %q of kind %s cannot carry a correct answer", q.ID, q.Kind))
	}
	return problems
}

func hasOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
