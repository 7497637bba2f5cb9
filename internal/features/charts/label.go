package charts

import "strings"

// Math-text escapes understood in labels.
var mathReplacer = strings.NewReplacer(
	`\cdot`, "·",
	`\times`, "×",
	`\alpha`, "α",
	`\beta`, "β",
	`\gamma`, "γ",
	`\delta`, "δ",
	`\epsilon`, "ε",
	`\eta`, "η",
	`\lambda`, "λ",
	`\mu`, "μ",
	`\sigma`, "σ",
	`\theta`, "θ",
	`\nabla`, "∇",
	`\|`, "‖",
	`\ `, " ",
	`\,`, " ",
)

// plainLabel turns a label with $...$ math segments into display text.
// Inside math, escapes map to runes and braces are dropped; "\$" is a literal dollar.
func plainLabel(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	var b strings.Builder
	inMath := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == '$':
			b.WriteByte('$')
			i++
		case c == '$':
			inMath = !inMath
		case inMath:
			j := i
			for j < len(s) && s[j] != '$' {
				if s[j] == '\\' && j+1 < len(s) && s[j+1] == '$' {
					break
				}
				j++
			}
			b.WriteString(renderMath(s[i:j]))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func renderMath(expr string) string {
	out := mathReplacer.Replace(expr)
	out = strings.NewReplacer("{", "", "}", "", "^", "", "_", "").Replace(out)
	return out
}
