package extract

import (
	"regexp"
	"strings"
)

// Boilerplate found in exported resumes that carries no signal for scoring.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)---\s*page\s*\d+\s*---`),
	regexp.MustCompile(`(?i)page\s*\d+\s*of\s*\d+`),
	regexp.MustCompile(`(?i)resume of\s+`),
	regexp.MustCompile(`(?i)curriculum vitae`),
	regexp.MustCompile(`(?i)\b(confidential|proprietary)\b`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Clean strips resume boilerplate and collapses whitespace. Casing is left
// alone; keyword extraction lowercases on its own terms.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	for _, re := range noisePatterns {
		text = re.ReplaceAllString(text, " ")
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
