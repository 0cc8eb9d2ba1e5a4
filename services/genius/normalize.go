package genius

import (
	"regexp"
	"strings"
)

var (
	// annotationPattern matches section markers such as [Chorus] or
	// [Verse 1: Artist]. (?s) lets a marker span a line break so that a
	// second pass never finds one the first pass missed.
	annotationPattern = regexp.MustCompile(`(?s)\[.*?\]`)

	// lineBreakRun matches any run of line-break characters, so paragraph
	// breaks and single breaks both collapse to one space.
	lineBreakRun = regexp.MustCompile(`[\r\n\v\f\x{0085}\x{2028}\x{2029}]+`)
)

// Normalize strips bracketed annotations and flattens lyrics to one line.
// It is total and idempotent.
func Normalize(text string) string {
	text = annotationPattern.ReplaceAllString(text, "")
	text = lineBreakRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
