package skills

import (
	"regexp"
	"strings"
)

var (
	// versioned tech terms like python3, vue2.7, http2
	techPatternRe = regexp.MustCompile(`\b[a-z]+[0-9]+(?:\.[0-9]+)*\b`)

	acronymRe = regexp.MustCompile(`\b[A-Z]{2,}\b`)

	alphaRe = regexp.MustCompile(`^[a-z]+$`)
)

// Extract pulls the keyword/entity set out of a text: dictionary skills
// (with alias normalization), versioned tech terms, acronyms, and filtered
// single tokens. Everything comes back lowercased.
func (d *Database) Extract(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return keywords
	}

	lower := strings.ToLower(text)
	tokens := tokenize(lower)

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}
	// padded token stream for multiword dictionary lookups
	joined := " " + strings.Join(tokens, " ") + " "

	for alias, canonical := range d.variations {
		if strings.ContainsRune(alias, ' ') {
			if strings.Contains(joined, " "+alias+" ") {
				keywords[canonical] = struct{}{}
			}
			continue
		}
		if _, ok := tokenSet[alias]; ok {
			keywords[canonical] = struct{}{}
		}
	}

	for _, m := range techPatternRe.FindAllString(lower, -1) {
		keywords[m] = struct{}{}
	}

	for _, m := range acronymRe.FindAllString(text, -1) {
		keywords[d.normalize(strings.ToLower(m))] = struct{}{}
	}

	for _, tok := range tokens {
		if len(tok) <= 2 || isStopword(tok) || !alphaRe.MatchString(tok) {
			continue
		}
		keywords[d.normalize(tok)] = struct{}{}
	}

	return keywords
}

// normalize maps a term to its canonical skill name when known.
func (d *Database) normalize(term string) string {
	if canonical, ok := d.variations[term]; ok {
		return canonical
	}
	return term
}

// tokenize splits on whitespace and trims surrounding punctuation while
// keeping the characters skills are spelled with (c++, c#, node.js).
func tokenize(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,;:()[]{}<>'"!?/\|*`)
		if f == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}
