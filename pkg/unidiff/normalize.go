package unidiff

import "strings"

// Normalize prepares raw patch text for Parse. Windows line endings collapse
// to plain newlines and tabs expand to four spaces so column-sensitive
// rendering stays aligned. Parse itself is newline-exclusive and tab-agnostic;
// this is the boundary step callers run first.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\t", "    ")
}
