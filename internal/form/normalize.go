package form

import (
	"strings"

	"formsmith/internal/model"
)

// ImportDocument is the JSON accepted by the builder's import. It takes both
// sectioned forms and older flat documents with a top-level question list.
type ImportDocument struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	IsTestMode  bool             `json:"isTestMode"`
	IsTest      bool             `json:"isTest"`
	Theme       model.Theme      `json:"theme"`
	Sections    []model.Section  `json:"sections"`
	Questions   []model.Question `json:"questions"`
}

// FromImport builds an unsaved, unpublished definition from an import document
func FromImport(doc *ImportDocument, newID func() string) *model.FormDefinition {
	def := &model.FormDefinition{
		Title:       doc.Title,
		Description: doc.Description,
		IsTestMode:  doc.IsTestMode || doc.IsTest,
		Theme:       doc.Theme,
		Sections:    doc.Sections,
	}
	if len(doc.Questions) > 0 {
		def.Sections = append(def.Sections, model.Section{
			Title:     doc.Title,
			Questions: doc.Questions,
		})
	}
	Normalize(def, newID)
	return def
}

// Normalize assigns missing section and question ids, maps legacy kinds,
// and drops blank options. It mutates def.
func Normalize(def *model.FormDefinition, newID func() string) {
	def.Title = strings.TrimSpace(def.Title)
	for si := range def.Sections {
		s := &def.Sections[si]
		if s.ID == "" {
			s.ID = newID()
		}
		for qi := range s.Questions {
			q := &s.Questions[qi]
			if q.ID == "" {
				q.ID = newID()
			}
			q.Kind = model.NormalizeKind(q.Kind)
			if !q.Kind.IsChoice() {
				q.Options = nil
				continue
			}
			options := q.Options[:0]
			for _, o := range q.Options {
				if strings.TrimSpace(o) != "" {
					options = append(options, o)
				}
			}
			q.Options = options
		}
	}
}
