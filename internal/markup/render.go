// Package markup renders the inline markup used in form titles, descriptions
// and options: math spans written as \( ... \) and paired <b>, <i>, <u> tags.
// All other text is escaped.
package markup

import (
	"html"
	"html/template"
	"strings"
)

// MathPlaceholder stands in for a math span in the plain-text projection
const MathPlaceholder = "[math]"

const invalidExpression = `<span class="markup-math-error" role="img" aria-label="invalid expression" title="%s">[invalid expression]</span>`

// Fragment is one rendered piece of text
type Fragment struct {
	HTML  template.HTML `json:"html"`
	Plain string        `json:"plain"`
}

// Render returns both projections of text
func Render(text string) Fragment {
	toks := scan(text)
	pair(toks)
	return Fragment{
		HTML:  template.HTML(renderHTML(toks)),
		Plain: renderPlain(toks),
	}
}

// RenderHTML returns safe HTML for text
func RenderHTML(text string) template.HTML {
	return Render(text).HTML
}

// Plain returns the accessibility projection: math collapsed to a
// placeholder and style tags stripped.
func Plain(text string) string {
	return Render(text).Plain
}

func renderHTML(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		switch t.kind {
		case tokText:
			b.WriteString(html.EscapeString(t.text))
		case tokMath:
			out, err := Typeset(t.text)
			if err != nil {
				b.WriteString(strings.Replace(invalidExpression, "%s", html.EscapeString(err.Error()), 1))
				continue
			}
			b.WriteString(out)
		case tokOpen:
			if !t.matched {
				b.WriteString(html.EscapeString(t.text))
				continue
			}
			b.WriteString("<" + styleElements[t.style] + ">")
		case tokClose:
			if !t.matched {
				b.WriteString(html.EscapeString(t.text))
				continue
			}
			b.WriteString("</" + styleElements[t.style] + ">")
		}
	}
	return b.String()
}

func renderPlain(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		switch t.kind {
		case tokText:
			b.WriteString(t.text)
		case tokMath:
			b.WriteString(MathPlaceholder)
		case tokOpen, tokClose:
			if !t.matched {
				b.WriteString(t.text)
			}
		}
	}
	return b.String()
}
