package model

import "time"

// Theme colours used purely for presentation
type Theme struct {
	Primary    string `json:"primary,omitempty" bson:"primary,omitempty"`
	Background string `json:"background,omitempty" bson:"background,omitempty"`
	Text       string `json:"text,omitempty" bson:"text,omitempty"`
	Accent     string `json:"accent,omitempty" bson:"accent,omitempty"`
}

var DefaultTheme = Theme{
	Primary:    "#673ab7",
	Background: "#f0ebf8",
	Text:       "#202124",
	Accent:     "#4285f4",
}

// WithDefaults fills absent colours from DefaultTheme
func (t Theme) WithDefaults() Theme {
	if t.Primary == "" {
		t.Primary = DefaultTheme.Primary
	}
	if t.Background == "" {
		t.Background = DefaultTheme.Background
	}
	if t.Text == "" {
		t.Text = DefaultTheme.Text
	}
	if t.Accent == "" {
		t.Accent = DefaultTheme.Accent
	}
	return t
}

// Section is one wizard step of a form
type Section struct {
	ID          string     `json:"id" bson:"id" validate:"required"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Questions   []Question `json:"questions" bson:"questions" validate:"dive"`
}

// FormDefinition is the persistent form document created by an owner.
// The respondent path treats it as read-only.
type FormDefinition struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	OwnerID     string    `json:"ownerId" bson:"ownerId"`
	OwnerEmail  string    `json:"ownerEmail,omitempty" bson:"ownerEmail,omitempty"`
	Title       string    `json:"title" bson:"title" validate:"required,max=500"`
	Description string    `json:"description" bson:"description"`
	Sections    []Section `json:"sections" bson:"sections" validate:"required,min=1,dive"`
	IsTestMode  bool      `json:"isTestMode" bson:"isTestMode"`
	IsPublished bool      `json:"isPublished" bson:"isPublished"`
	Theme       Theme     `json:"theme" bson:"theme"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LastSection is the index of the final wizard step
func (f *FormDefinition) LastSection() int {
	return len(f.Sections) - 1
}

// Question finds a question by id across all sections
func (f *FormDefinition) Question(id string) (*Question, bool) {
	for si := range f.Sections {
		for qi := range f.Sections[si].Questions {
			if f.Sections[si].Questions[qi].ID == id {
				return &f.Sections[si].Questions[qi], true
			}
		}
	}
	return nil, false
}

// Questions returns every question in section order
func (f *FormDefinition) Questions() []Question {
	var out []Question
	for _, s := range f.Sections {
		out = append(out, s.Questions...)
	}
	return out
}
