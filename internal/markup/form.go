package markup

import "formsmith/internal/model"

// RenderedQuestion is the respondent-facing view of a question
type RenderedQuestion struct {
	ID          string             `json:"id"`
	Kind        model.QuestionKind `json:"kind"`
	Required    bool               `json:"required"`
	Title       Fragment           `json:"title"`
	Description *Fragment          `json:"description,omitempty"`
	Options     []RenderedOption   `json:"options,omitempty"`
}

// RenderedOption keeps the raw value, which is what answers must carry
type RenderedOption struct {
	Value string   `json:"value"`
	Label Fragment `json:"label"`
}

type RenderedSection struct {
	ID          string             `json:"id"`
	Title       Fragment           `json:"title"`
	Description *Fragment          `json:"description,omitempty"`
	Questions   []RenderedQuestion `json:"questions"`
}

// RenderedForm is a form with every markup-bearing string rendered.
// Correct answers are never included.
type RenderedForm struct {
	ID          string            `json:"id"`
	Title       Fragment          `json:"title"`
	Description *Fragment         `json:"description,omitempty"`
	IsTestMode  bool              `json:"isTestMode"`
	Theme       model.Theme       `json:"theme"`
	Sections    []RenderedSection `json:"sections"`
}

// RenderForm projects a definition for display. It does not modify f.
func RenderForm(f *model.FormDefinition) *RenderedForm {
	out := &RenderedForm{
		ID:          f.ID,
		Title:       Render(f.Title),
		Description: renderOptional(f.Description),
		IsTestMode:  f.IsTestMode,
		Theme:       f.Theme.WithDefaults(),
		Sections:    make([]RenderedSection, 0, len(f.Sections)),
	}

	for _, s := range f.Sections {
		rs := RenderedSection{
			ID:          s.ID,
			Title:       Render(s.Title),
			Description: renderOptional(s.Description),
			Questions:   make([]RenderedQuestion, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			rq := RenderedQuestion{
				ID:          q.ID,
				Kind:        q.Kind,
				Required:    q.Required,
				Title:       Render(q.Title),
				Description: renderOptional(q.Description),
			}
			if q.Kind.IsChoice() {
				for _, o := range q.Options {
					rq.Options = append(rq.Options, RenderedOption{Value: o, Label: Render(o)})
				}
			}
			rs.Questions = append(rs.Questions, rq)
		}
		out.Sections = append(out.Sections, rs)
	}
	return out
}

func renderOptional(text string) *Fragment {
	if text == "" {
		return nil
	}
	f := Render(text)
	return &f
}
