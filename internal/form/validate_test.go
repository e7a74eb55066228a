package form

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"formsmith/internal/model"
)

func answer(a model.Answer) *model.Answer { return &a }

func TestValidateRequired(t *testing.T) {
	required := &model.Question{ID: "q1", Kind: model.KindShortText, Title: "Name", Required: true}
	optional := &model.Question{ID: "q2", Kind: model.KindShortText, Title: "Nickname"}
	multi := &model.Question{ID: "q3", Kind: model.KindMultiChoice, Title: "Pick", Required: true, Options: []string{"A"}}

	tests := []struct {
		name    string
		q       *model.Question
		value   *model.Answer
		wantErr string
	}{
		{"absent required", required, nil, CodeRequired},
		{"empty string required", required, answer(model.Scalar("")), CodeRequired},
		{"answered required", required, answer(model.Scalar("Ada")), ""},
		{"empty set required", multi, answer(model.MultiValue()), CodeRequired},
		{"answered set required", multi, answer(model.MultiValue("A")), ""},
		{"absent optional", optional, nil, ""},
		{"empty optional", optional, answer(model.Scalar("")), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Validate(tt.q, tt.value)
			if tt.wantErr == "" {
				assert.Nil(t, fe)
				return
			}
			if assert.NotNil(t, fe) {
				assert.Equal(t, tt.wantErr, fe.Code)
				assert.Equal(t, tt.q.ID, fe.QuestionID)
				assert.Contains(t, fe.Message, tt.q.Title)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	q := &model.Question{ID: "email", Kind: model.KindEmail, Title: "Email"}

	valid := []string{"a@b.co", "first.last@example.org", "x+tag@sub.domain.io"}
	invalid := []string{"plain", "no-at.example.com", "a@b", "a @b.co", "a@b .co", "@b.co", "a@.co"}

	for _, v := range valid {
		assert.Nil(t, Validate(q, answer(model.Scalar(v))), v)
	}
	for _, v := range invalid {
		fe := Validate(q, answer(model.Scalar(v)))
		if assert.NotNil(t, fe, v) {
			assert.Equal(t, CodeInvalidEmail, fe.Code)
		}
	}
}

func TestValidateNumber(t *testing.T) {
	q := &model.Question{ID: "n", Kind: model.KindNumeric, Title: "Age"}

	for _, v := range []string{"42", "-3.5", " 7 ", "1e3", "0", ".5", "3.", "+2", "1e400", "-2E-5"} {
		assert.Nil(t, Validate(q, answer(model.Scalar(v))), v)
	}
	for _, v := range []string{"abc", "12abc", "NaN", "1,000", "inf", "-Infinity", "0x1p3", "0x10", "1_000", ".", "1e", "e5"} {
		fe := Validate(q, answer(model.Scalar(v)))
		if assert.NotNil(t, fe, v) {
			assert.Equal(t, CodeInvalidNumber, fe.Code)
		}
	}
}

func TestValidateOtherKindsHaveNoFormatRule(t *testing.T) {
	q := &model.Question{ID: "t", Kind: model.KindLongText, Title: "Essay"}
	assert.Nil(t, Validate(q, answer(model.Scalar("not an email, not a number"))))
}

func TestValidateSection(t *testing.T) {
	section := &model.Section{
		ID: "s1",
		Questions: []model.Question{
			{ID: "name", Kind: model.KindShortText, Title: "Name", Required: true},
			{ID: "email", Kind: model.KindEmail, Title: "Email"},
			{ID: "age", Kind: model.KindNumeric, Title: "Age"},
		},
	}

	errs := ValidateSection(section, model.AnswerSet{
		"email": model.Scalar("broken"),
		"age":   model.Scalar("30"),
	})
	assert.Len(t, errs, 2)
	assert.Equal(t, CodeRequired, errs["name"].Code)
	assert.Equal(t, CodeInvalidEmail, errs["email"].Code)

	errs = ValidateSection(section, model.AnswerSet{"name": model.Scalar("Ada")})
	assert.Nil(t, errs)
}

func TestValidationErrorsMessageIsSorted(t *testing.T) {
	errs := ValidationErrors{
		"zeta":  {QuestionID: "zeta", Code: CodeRequired},
		"alpha": {QuestionID: "alpha", Code: CodeRequired},
		"mid":   {QuestionID: "mid", Code: CodeRequired},
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, "validation failed for alpha, mid, zeta", errs.Error())
	}
}
