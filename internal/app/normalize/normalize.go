// Package normalize provides title normalization for fuzzy track matching.
package normalize

import (
	"regexp"
	"strings"
)

var (
	parenPattern      = regexp.MustCompile(`\(.*?\)`)
	bracketPattern    = regexp.MustCompile(`\[.*?\]`)
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Title normalizes a song title so differently-formatted titles can be
// compared for equality.
//
// Examples:
//
//	"Bound 2 (Album Version)" -> "bound 2"
//	"Heartless [Live]"        -> "heartless"
//
// The result is lowercase with annotations in parentheses or brackets
// removed, punctuation stripped, and whitespace collapsed. Title is
// idempotent and returns "" for empty input. It is used only for
// matching; display strings keep their original formatting.
func Title(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = parenPattern.ReplaceAllString(s, "")
	s = bracketPattern.ReplaceAllString(s, "")
	s = nonAlnumPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
