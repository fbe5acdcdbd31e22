package github

import "strings"

var commandDataEscaper = strings.NewReplacer(
	"%", "%25",
	"\r", "%0D",
	"\n", "%0A",
)

// EscapeCommandData escapes a workflow command message so that multi-line text
// survives as a single annotation.
func EscapeCommandData(s string) string {
	return commandDataEscaper.Replace(s)
}
