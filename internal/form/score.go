package form

import (
	"math"

	"formsmith/internal/model"
)

// matcher decides whether a stored answer is correct for one question kind
type matcher func(stored model.Answer, correct model.Answer) bool

var matchers = map[model.QuestionKind]matcher{
	model.KindSingleChoice: matchSingle,
	model.KindMultiChoice:  matchMulti,
}

func matchSingle(stored, correct model.Answer) bool {
	if stored.IsMulti() || correct.IsMulti() {
		return false
	}
	return stored.Text() == correct.Text()
}

func matchMulti(stored, correct model.Answer) bool {
	if !stored.IsMulti() || !correct.IsMulti() {
		return false
	}
	values := stored.Values()
	if len(values) != len(correct.Values()) {
		return false
	}
	for _, v := range values {
		if !correct.Contains(v) {
			return false
		}
	}
	return true
}

// Scorable reports whether a question carries a correct answer
func Scorable(q *model.Question) bool {
	return q.CorrectAnswer != nil && !q.CorrectAnswer.IsEmpty()
}

// Score returns the percentage of correctly answered questions, or nil when
// the form is not in test mode. Every question with a correct answer counts
// toward the total; only single and multi choice can be correct.
func Score(f *model.FormDefinition, answers model.AnswerSet) *int {
	if !f.IsTestMode {
		return nil
	}

	correct, total := 0, 0
	for si := range f.Sections {
		for qi := range f.Sections[si].Questions {
			q := &f.Sections[si].Questions[qi]
			if !Scorable(q) {
				continue
			}
			total++

			match, ok := matchers[q.Kind]
			if !ok {
				continue
			}
			if stored, ok := answers.Get(q.ID); ok && match(stored, *q.CorrectAnswer) {
				correct++
			}
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(correct) / float64(total)))
	}
	return &pct
}
