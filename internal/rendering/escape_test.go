package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Built data pipelines", "Built data pipelines"},
		{"backslash", `a\b`, `a\textbackslash{}b`},
		{"braces", "x{y}z", `x\{y\}z`},
		{"dollar", "cost $100", `cost \$100`},
		{"ampersand", "R&D", `R\&D`},
		{"percent", "99.9% uptime", `99.9\% uptime`},
		{"hash", "issue #12", `issue \#12`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "snake_case", `snake\_case`},
		{"tilde", "~5ms", `\textasciitilde{}5ms`},
		{"all", `${}~&%#^_\`, `\$\{\}\textasciitilde{}\&\%\#\textasciicircum{}\_\textbackslash{}`},
		{"unicode passes through", "résumé α β", "résumé α β"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}
