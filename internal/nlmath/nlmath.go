// Package nlmath recognizes Portuguese arithmetic requests and turns them into
// expressions for the evaluator.
package nlmath

import (
	"regexp"
	"strings"

	"Mathagent/internal/mathexpr"
)

// Triggers are phrases that mark text as a calculation request.
var Triggers = []string{"quanto é", "quanto", "calcule", "calcular", "raiz quadrada", "sqrt"}

var (
	digitOperator = regexp.MustCompile(`\d+\s*[+\-*/%^]`)
	digitWord     = regexp.MustCompile(`\d+\s*(mais|menos|vezes|dividido por|dividido|por|x)\s*\d+`)

	squareRootLong  = regexp.MustCompile(`(?i)raiz\s+quadrada\s+de\s*([0-9A-Za-z_.()+\-*/%^\s]+)`)
	squareRootShort = regexp.MustCompile(`(?i)raiz\s+de\s*([0-9A-Za-z_.()+\-*/%^\s]+)`)

	tokenPattern   = regexp.MustCompile(`[0-9A-Za-z_.()+\-*/%^]+`)
	digitPattern   = regexp.MustCompile(`\d`)
	operatorRun    = regexp.MustCompile(`^[+\-*/%^]+$`)
	parenthesisRun = regexp.MustCompile(`^[()]+$`)
)

type wordOperator struct {
	pattern *regexp.Regexp
	symbol  string
}

// operatorWords is applied in order; "dividido por" must precede "dividido".
var operatorWords = []wordOperator{
	{regexp.MustCompile(`(?i)\bmais\b`), "+"},
	{regexp.MustCompile(`(?i)\bmenos\b`), "-"},
	{regexp.MustCompile(`(?i)\bvezes\b`), "*"},
	{regexp.MustCompile(`(?i)\bx\b`), "*"},
	{regexp.MustCompile(`(?i)\bdividido\s+por\b`), "/"},
	{regexp.MustCompile(`(?i)\bdividido\b`), "/"},
}

// LooksLikeMath reports whether text reads as an arithmetic request.
func LooksLikeMath(text string) bool {
	t := strings.ToLower(text)
	for _, trigger := range Triggers {
		if strings.Contains(t, trigger) {
			return true
		}
	}
	return digitOperator.MatchString(t) || digitWord.MatchString(t)
}

// ExtractExpression builds a best-effort expression from text. When nothing
// usable is found the original text is returned unchanged.
func ExtractExpression(text string) string {
	s := strings.ReplaceAll(text, ",", "")
	s = strings.ReplaceAll(s, "\u00a0", " ")

	for _, re := range []*regexp.Regexp{squareRootLong, squareRootShort} {
		if m := re.FindStringSubmatch(s); m != nil {
			inner := strings.TrimSpace(m[1])
			if cleaned := filterTokens(replaceOperatorWords(inner)); cleaned != "" {
				inner = cleaned
			}
			return "sqrt(" + strings.ReplaceAll(inner, "^", "**") + ")"
		}
	}

	if expr := filterTokens(replaceOperatorWords(s)); expr != "" {
		return strings.ReplaceAll(expr, "^", "**")
	}
	return text
}

func replaceOperatorWords(s string) string {
	for _, w := range operatorWords {
		s = w.pattern.ReplaceAllLiteralString(s, " "+w.symbol+" ")
	}
	return s
}

// filterTokens keeps numbers, function names, operators and parentheses.
func filterTokens(s string) string {
	var kept []string
	for _, tok := range tokenPattern.FindAllString(s, -1) {
		lower := strings.ToLower(tok)
		switch {
		case digitPattern.MatchString(tok):
			kept = append(kept, tok)
		case mathexpr.IsFunction(lower):
			kept = append(kept, lower)
		case operatorRun.MatchString(tok), parenthesisRun.MatchString(tok):
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}
