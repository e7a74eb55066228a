package markup

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxMathDepth = 32

// MathError reports why a math span could not be typeset
type MathError struct {
	Pos int
	Msg string
}

func (e *MathError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Pos)
}

var greek = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ", "varepsilon": "ε",
	"zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ", "iota": "ι", "kappa": "κ",
	"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "pi": "π", "varpi": "ϖ", "rho": "ρ",
	"sigma": "σ", "tau": "τ", "upsilon": "υ", "phi": "ϕ", "varphi": "φ", "chi": "χ",
	"psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ", "Pi": "Π",
	"Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
}

var operators = map[string]string{
	"cdot": "⋅", "times": "×", "div": "÷", "pm": "±", "mp": "∓",
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"approx": "≈", "equiv": "≡", "sim": "∼", "propto": "∝",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒", "Leftrightarrow": "⇔",
	"sum": "∑", "prod": "∏", "int": "∫", "oint": "∮",
	"in": "∈", "notin": "∉", "subset": "⊂", "subseteq": "⊆", "cup": "∪", "cap": "∩",
	"forall": "∀", "exists": "∃", "ldots": "…", "cdots": "⋯", "circ": "∘",
	"perp": "⊥", "parallel": "∥", "angle": "∠", "mid": "∣",
}

var identifiers = map[string]string{
	"infty": "∞", "partial": "∂", "nabla": "∇", "emptyset": "∅", "hbar": "ℏ", "ell": "ℓ",
}

var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true, "tanh": true,
	"log": true, "ln": true, "exp": true, "lim": true, "max": true, "min": true, "det": true,
	"gcd": true, "mod": true,
}

// Typeset converts a TeX-like math source into a MathML element. It supports
// numbers, identifiers, operators, {} groups, ^ and _ scripts, \frac, \sqrt,
// \sqrt[n], \text, \left/\right, Greek letters and common symbol commands.
func Typeset(src string) (string, error) {
	p := &mathParser{src: src}
	p.skipSpace()
	if p.eof() {
		return "", &MathError{Pos: 0, Msg: "empty expression"}
	}

	body, err := p.parseSeq(0, 0)
	if err != nil {
		return "", err
	}
	return `<math xmlns="http://www.w3.org/1998/Math/MathML"><mrow>` + body + `</mrow></math>`, nil
}

type mathParser struct {
	src string
	pos int
}

func (p *mathParser) eof() bool { return p.pos >= len(p.src) }

func (p *mathParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *mathParser) fail(msg string) error {
	return &MathError{Pos: p.pos, Msg: msg}
}

func (p *mathParser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

// parseSeq reads terms until stop (0 for end of input, '}' or ']').
func (p *mathParser) parseSeq(stop byte, depth int) (string, error) {
	if depth > maxMathDepth {
		return "", p.fail("expression nested too deeply")
	}

	var b strings.Builder
	for {
		p.skipSpace()
		if p.eof() {
			if stop != 0 {
				return "", p.fail(fmt.Sprintf("missing %q", stop))
			}
			return b.String(), nil
		}
		c := p.peek()
		if c == stop {
			return b.String(), nil
		}
		if c == '}' {
			return "", p.fail("unexpected '}'")
		}

		term, err := p.parseTerm(depth)
		if err != nil {
			return "", err
		}
		b.WriteString(term)
	}
}

func (p *mathParser) parseTerm(depth int) (string, error) {
	var base string
	if c := p.peek(); c != '^' && c != '_' {
		atom, err := p.parseAtom(depth)
		if err != nil {
			return "", err
		}
		base = atom
	}

	var sub, sup string
	var hasSub, hasSup bool
	for {
		p.skipSpace()
		c := p.peek()
		if c != '^' && c != '_' {
			break
		}
		p.pos++
		p.skipSpace()
		if p.eof() {
			return "", p.fail("missing script")
		}
		script, err := p.parseArg(depth + 1)
		if err != nil {
			return "", err
		}
		if c == '^' {
			if hasSup {
				return "", p.fail("double superscript")
			}
			sup, hasSup = script, true
		} else {
			if hasSub {
				return "", p.fail("double subscript")
			}
			sub, hasSub = script, true
		}
	}
	if !hasSub && !hasSup {
		return base, nil
	}

	// script elements need exactly one element per slot
	base, sub, sup = slot(base), slot(sub), slot(sup)
	switch {
	case hasSub && hasSup:
		return "<msubsup>" + base + sub + sup + "</msubsup>", nil
	case hasSup:
		return "<msup>" + base + sup + "</msup>", nil
	}
	return "<msub>" + base + sub + "</msub>", nil
}

func slot(s string) string {
	if s == "" {
		return "<mrow></mrow>"
	}
	return s
}

func (p *mathParser) parseAtom(depth int) (string, error) {
	if depth > maxMathDepth {
		return "", p.fail("expression nested too deeply")
	}
	p.skipSpace()
	if p.eof() {
		return "", p.fail("missing argument")
	}

	c := p.peek()
	switch {
	case c == '{':
		p.pos++
		inner, err := p.parseSeq('}', depth+1)
		if err != nil {
			return "", err
		}
		p.pos++
		return "<mrow>" + inner + "</mrow>", nil
	case c == '}':
		return "", p.fail("unexpected '}'")
	case c == '^' || c == '_':
		return "", p.fail("unexpected script")
	case c == '\\':
		return p.parseCommand(depth)
	case c == '&' || c == '#' || c == '$' || c == '%':
		return "", p.fail(fmt.Sprintf("unsupported character %q", c))
	case c >= '0' && c <= '9' || c == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]):
		start := p.pos
		for !p.eof() && (isDigit(p.peek()) || p.peek() == '.') {
			p.pos++
		}
		return "<mn>" + p.src[start:p.pos] + "</mn>", nil
	case c == '~':
		p.pos++
		return `<mspace width="0.33em"></mspace>`, nil
	case c == '\'':
		p.pos++
		return "<mo>′</mo>", nil
	case strings.IndexByte("+-*/=<>()[]|,.!:;?", c) >= 0:
		p.pos++
		op := string(c)
		if c == '-' {
			op = "−"
		} else if c == '*' {
			op = "∗"
		}
		return "<mo>" + html.EscapeString(op) + "</mo>", nil
	}

	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	if r == utf8.RuneError {
		return "", p.fail("invalid character")
	}
	p.pos += size
	if unicode.IsLetter(r) {
		return "<mi>" + html.EscapeString(string(r)) + "</mi>", nil
	}
	return "<mo>" + html.EscapeString(string(r)) + "</mo>", nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func (p *mathParser) parseCommand(depth int) (string, error) {
	start := p.pos
	p.pos++ // backslash
	if p.eof() {
		return "", p.fail("dangling backslash")
	}

	if !isLetter(p.peek()) {
		c := p.peek()
		p.pos++
		switch c {
		case ',', ';', ':', ' ':
			return `<mspace width="0.2em"></mspace>`, nil
		case '!':
			return "", nil
		case '{', '}', '%', '$', '#', '&', '_':
			return "<mo>" + html.EscapeString(string(c)) + "</mo>", nil
		}
		return "", &MathError{Pos: start, Msg: fmt.Sprintf("unknown command \\%c", c)}
	}

	nameStart := p.pos
	for !p.eof() && isLetter(p.peek()) {
		p.pos++
	}
	name := p.src[nameStart:p.pos]

	switch name {
	case "frac":
		num, err := p.parseArg(depth + 1)
		if err != nil {
			return "", err
		}
		den, err := p.parseArg(depth + 1)
		if err != nil {
			return "", err
		}
		return "<mfrac>" + num + den + "</mfrac>", nil
	case "sqrt":
		p.skipSpace()
		if p.peek() == '[' {
			p.pos++
			index, err := p.parseSeq(']', depth+1)
			if err != nil {
				return "", err
			}
			p.pos++
			radicand, err := p.parseArg(depth + 1)
			if err != nil {
				return "", err
			}
			return "<mroot>" + radicand + "<mrow>" + index + "</mrow></mroot>", nil
		}
		radicand, err := p.parseArg(depth + 1)
		if err != nil {
			return "", err
		}
		return "<msqrt>" + radicand + "</msqrt>", nil
	case "text", "mathrm":
		text, err := p.rawGroup()
		if err != nil {
			return "", err
		}
		if name == "mathrm" {
			return `<mi mathvariant="normal">` + html.EscapeString(text) + "</mi>", nil
		}
		return "<mtext>" + html.EscapeString(text) + "</mtext>", nil
	case "left", "right":
		p.skipSpace()
		if p.eof() {
			return "", p.fail("missing delimiter")
		}
		d := p.peek()
		p.pos++
		switch d {
		case '.':
			return "", nil
		case '(', ')', '[', ']', '|':
			return `<mo stretchy="true">` + string(d) + "</mo>", nil
		case '\\':
			if c := p.peek(); c == '{' || c == '}' {
				p.pos++
				return `<mo stretchy="true">` + string(c) + "</mo>", nil
			}
		}
		return "", &MathError{Pos: start, Msg: "invalid delimiter"}
	}

	if s, ok := greek[name]; ok {
		return "<mi>" + s + "</mi>", nil
	}
	if s, ok := identifiers[name]; ok {
		return "<mi>" + s + "</mi>", nil
	}
	if s, ok := operators[name]; ok {
		return "<mo>" + s + "</mo>", nil
	}
	if functions[name] {
		return "<mi>" + name + "</mi>", nil
	}
	return "", &MathError{Pos: start, Msg: "unknown command \\" + name}
}

// parseArg reads a command argument. A bare digit is one token, so \frac12 is 1/2.
func (p *mathParser) parseArg(depth int) (string, error) {
	p.skipSpace()
	if isDigit(p.peek()) {
		d := p.src[p.pos : p.pos+1]
		p.pos++
		return "<mn>" + d + "</mn>", nil
	}
	return p.parseAtom(depth)
}

// rawGroup reads a {...} group verbatim, allowing nested braces
func (p *mathParser) rawGroup() (string, error) {
	p.skipSpace()
	if p.peek() != '{' {
		return "", p.fail("expected '{'")
	}
	p.pos++
	start, level := p.pos, 1
	for !p.eof() {
		switch p.src[p.pos] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				text := p.src[start:p.pos]
				p.pos++
				return text, nil
			}
		}
		p.pos++
	}
	return "", p.fail("missing '}'")
}
