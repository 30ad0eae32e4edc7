package mailparse

import (
	"html"
	"regexp"
	"strings"
)

var (
	reBreakTags  = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	reParaClose  = regexp.MustCompile(`(?i)</\s*p\s*>`)
	reBlockClose = regexp.MustCompile(`(?i)</\s*(?:div|tr|li)\s*>`)
	reAnyTag     = regexp.MustCompile(`<[^>]+>`)
	reSpaces     = regexp.MustCompile(`[ \t]+`)
	reBlankRuns  = regexp.MustCompile(`\n\s*\n\s*\n+`)
	reControl    = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
)

// HTMLToText converts an HTML email body to clean plain text. Court mail
// gateways often send HTML-only publications; the pipeline works on text.
func HTMLToText(content string) string {
	if content == "" {
		return ""
	}

	text := html.UnescapeString(content)
	text = reBreakTags.ReplaceAllString(text, "\n")
	text = reParaClose.ReplaceAllString(text, "\n\n")
	text = reBlockClose.ReplaceAllString(text, "\n")
	text = reAnyTag.ReplaceAllString(text, " ")

	return CleanText(text)
}

// CleanText collapses runs of spaces and blank lines and drops control
// characters left over by mail gateways.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = reSpaces.ReplaceAllString(text, " ")
	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	text = reControl.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
