package markup

import "strings"

type tokenKind int

const (
	tokText tokenKind = iota
	tokMath
	tokOpen
	tokClose
)

type style byte

const (
	styleBold      style = 'b'
	styleItalic    style = 'i'
	styleUnderline style = 'u'
)

var styleElements = map[style]string{
	styleBold:      "strong",
	styleItalic:    "em",
	styleUnderline: "u",
}

const (
	mathOpen  = `\(`
	mathClose = `\)`
)

type token struct {
	kind    tokenKind
	text    string // literal text, math source, or the raw tag
	style   style
	matched bool
}

// scan splits text into literal runs, math spans and style tags.
// Style tags inside a math span are part of the math source.
func scan(text string) []token {
	var (
		toks []token
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, token{kind: tokText, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		rest := text[i:]

		if strings.HasPrefix(rest, mathOpen) {
			if end := strings.Index(rest[len(mathOpen):], mathClose); end >= 0 {
				flush()
				src := rest[len(mathOpen) : len(mathOpen)+end]
				toks = append(toks, token{kind: tokMath, text: src})
				i += len(mathOpen) + end + len(mathClose)
				continue
			}
			// unterminated: keep as literal
			lit.WriteString(mathOpen)
			i += len(mathOpen)
			continue
		}

		if rest[0] == '<' {
			if tok, n, ok := scanTag(rest); ok {
				flush()
				toks = append(toks, tok)
				i += n
				continue
			}
		}

		lit.WriteByte(rest[0])
		i++
	}
	flush()
	return toks
}

func scanTag(s string) (token, int, bool) {
	closing := strings.HasPrefix(s, "</")
	start := 1
	if closing {
		start = 2
	}
	if len(s) < start+2 || s[start+1] != '>' {
		return token{}, 0, false
	}

	st := style(lower(s[start]))
	if _, ok := styleElements[st]; !ok {
		return token{}, 0, false
	}

	kind := tokOpen
	if closing {
		kind = tokClose
	}
	return token{kind: kind, text: s[:start+2], style: st}, start + 2, true
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// pair marks style tags that open and close in properly nested order.
// Anything else, including crossing pairs, is left unmatched.
func pair(toks []token) {
	var stack []int
	for i := range toks {
		switch toks[i].kind {
		case tokOpen:
			stack = append(stack, i)
		case tokClose:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if toks[top].style != toks[i].style {
				continue
			}
			toks[top].matched = true
			toks[i].matched = true
			stack = stack[:len(stack)-1]
		}
	}
}
