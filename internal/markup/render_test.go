package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formsmith/internal/model"
)

func TestRenderEscapesLiteralText(t *testing.T) {
	got := RenderHTML(`<script>alert("x")</script> & <img src=x>`)
	assert.Equal(t, `&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; &lt;img src=x&gt;`, string(got))
}

func TestRenderStyleTags(t *testing.T) {
	tests := []struct {
		in, html, plain string
	}{
		{"<b>bold</b> and <i>it</i> <u>u</u>", "<strong>bold</strong> and <em>it</em> <u>u</u>", "bold and it u"},
		{"<B>loud</B>", "<strong>loud</strong>", "loud"},
		{"<b><i>both</i></b>", "<strong><em>both</em></strong>", "both"},
		{"<b>open only", "&lt;b&gt;open only", "<b>open only"},
		{"close only</i>", "close only&lt;/i&gt;", "close only</i>"},
		{"<b><i>x</b></i>", "&lt;b&gt;<em>x&lt;/b&gt;</em>", "<b>x</b>"},
		{"<s>strike</s>", "&lt;s&gt;strike&lt;/s&gt;", "<s>strike</s>"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f := Render(tt.in)
			assert.Equal(t, tt.html, string(f.HTML))
			assert.Equal(t, tt.plain, f.Plain)
		})
	}
}

func TestRenderMathSpan(t *testing.T) {
	f := Render(`What is \(3^2\)?`)
	assert.Equal(t, `What is <math xmlns="http://www.w3.org/1998/Math/MathML"><mrow><msup><mn>3</mn><mn>2</mn></msup></mrow></math>?`, string(f.HTML))
	assert.Equal(t, "What is [math]?", f.Plain)
}

func TestRenderIsolatesMalformedMath(t *testing.T) {
	f := Render(`bad \(\frac{1}{\) good \(\sqrt{x}\) <b>end</b>`)

	html := string(f.HTML)
	assert.Equal(t, 1, strings.Count(html, "[invalid expression]"))
	assert.Contains(t, html, "<msqrt><mrow><mi>x</mi></mrow></msqrt>")
	assert.Contains(t, html, "<strong>end</strong>")
	assert.True(t, strings.HasPrefix(html, "bad <span class=\"markup-math-error\""))
	assert.Equal(t, "bad [math] good [math] end", f.Plain)
}

func TestRenderTagsInsideMathAreMathSource(t *testing.T) {
	f := Render(`\(a<b\)`)
	assert.Contains(t, string(f.HTML), "<mo>&lt;</mo>")
	assert.NotContains(t, string(f.HTML), "<strong>")
}

func TestRenderUnterminatedMathIsLiteral(t *testing.T) {
	f := Render(`cost \(x + 1`)
	assert.Equal(t, `cost \(x + 1`, string(f.HTML))
	assert.Equal(t, `cost \(x + 1`, f.Plain)
}

func TestRenderIsDeterministic(t *testing.T) {
	in := `<i>x</i> \(\alpha_1 + \beta\) \(}\)`
	assert.Equal(t, Render(in), Render(in))
}

func TestRenderFormHidesCorrectAnswers(t *testing.T) {
	correct := model.Scalar("4")
	f := &model.FormDefinition{
		ID:          "f1",
		Title:       "<b>Quiz</b>",
		Description: "",
		IsTestMode:  true,
		Sections: []model.Section{{
			ID:    "s1",
			Title: "Arithmetic",
			Questions: []model.Question{
				{ID: "q1", Kind: model.KindSingleChoice, Title: `\(2+2\)`, Options: []string{"3", "<i>4</i>"}, CorrectAnswer: &correct},
				{ID: "q2", Kind: model.KindShortText, Title: "Why?", Options: []string{"ignored"}},
			},
		}},
	}

	rf := RenderForm(f)
	assert.Equal(t, "<strong>Quiz</strong>", string(rf.Title.HTML))
	assert.Nil(t, rf.Description)
	assert.Equal(t, model.DefaultTheme, rf.Theme)
	require.Len(t, rf.Sections, 1)
	q1 := rf.Sections[0].Questions[0]
	assert.Equal(t, "[math]", q1.Title.Plain)
	require.Len(t, q1.Options, 2)
	assert.Equal(t, "<i>4</i>", q1.Options[1].Value)
	assert.Equal(t, "<em>4</em>", string(q1.Options[1].Label.HTML))
	assert.Empty(t, rf.Sections[0].Questions[1].Options)
	assert.Equal(t, "<b>Quiz</b>", f.Title)
}
