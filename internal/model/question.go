package model

// QuestionKind defines the input archetype of a question
type QuestionKind string

const (
	KindShortText      QuestionKind = "short-text"
	KindLongText       QuestionKind = "long-text"
	KindSingleChoice   QuestionKind = "single-choice"
	KindMultiChoice    QuestionKind = "multi-choice"
	KindDropdownChoice QuestionKind = "dropdown-choice"
	KindEmail          QuestionKind = "email"
	KindNumeric        QuestionKind = "numeric"
)

// legacyKinds maps names found in imported documents
var legacyKinds = map[string]QuestionKind{
	"text":            KindShortText,
	"textarea":        KindLongText,
	"multiple-choice": KindSingleChoice,
	"checkbox":        KindMultiChoice,
	"dropdown":        KindDropdownChoice,
	"number":          KindNumeric,
}

// NormalizeKind returns the canonical kind for a current or legacy name
func NormalizeKind(k QuestionKind) QuestionKind {
	if canonical, ok := legacyKinds[string(k)]; ok {
		return canonical
	}
	return k
}

// IsChoice reports whether the kind presents a fixed option list
func (k QuestionKind) IsChoice() bool {
	switch k {
	case KindSingleChoice, KindMultiChoice, KindDropdownChoice:
		return true
	}
	return false
}

// AnswerShape is the shape an answer to this kind must take
func (k QuestionKind) AnswerShape() AnswerShape {
	if k == KindMultiChoice {
		return ShapeMulti
	}
	return ShapeScalar
}

// Question is one typed prompt inside a section
type Question struct {
	ID            string       `json:"id" bson:"id" validate:"required"`
	Kind          QuestionKind `json:"kind" bson:"kind" validate:"required,oneof=short-text long-text single-choice multi-choice dropdown-choice email numeric"`
	Title         string       `json:"title" bson:"title" validate:"required"`
	Description   string       `json:"description,omitempty" bson:"description,omitempty"`
	Required      bool         `json:"required" bson:"required"`
	Options       []string     `json:"options,omitempty" bson:"options,omitempty" validate:"omitempty,dive,required"`
	CorrectAnswer *Answer      `json:"correctAnswer,omitempty" bson:"correctAnswer,omitempty"`
}
