package rendering

import "strings"

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes the LaTeX special characters \ { } $ & % # ^ _ ~.
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}
