package skills

// Compact English stopword set; enough to keep filler out of the keyword set
// without dragging in a corpus dependency.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "all", "also", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being",
		"below", "between", "both", "but", "by", "can", "could", "did", "do",
		"does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"him", "his", "how", "if", "in", "into", "is", "it", "its", "itself",
		"just", "me", "more", "most", "my", "no", "nor", "not", "now", "of",
		"off", "on", "once", "only", "or", "other", "our", "ours", "out", "over",
		"own", "same", "she", "should", "so", "some", "such", "than", "that",
		"the", "their", "theirs", "them", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while", "who",
		"whom", "why", "will", "with", "would", "you", "your", "yours",
		// resume filler
		"experience", "years", "work", "working", "strong", "ability", "skills",
		"knowledge", "responsible", "including", "using", "used", "etc",
	} {
		stopwords[w] = struct{}{}
	}
}

func isStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
