package skills

import (
	"math"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// DefaultMatchThreshold is the minimum token-sort ratio (0-100) for a job
// description skill to count as present in the resume.
const DefaultMatchThreshold = 85.0

// TokenSortRatio compares two terms on a 0-100 scale, insensitive to token
// order ("machine learning" vs "learning machine" scores 100).
func TokenSortRatio(a, b string) float64 {
	return strutil.Similarity(sortTokens(a), sortTokens(b), metrics.NewLevenshtein()) * 100
}

func sortTokens(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// Match returns the jd skills that have a resume skill scoring at or above
// the threshold, mapped to the best ratio found.
func Match(resumeSkills, jdSkills map[string]struct{}, threshold float64) map[string]float64 {
	matched := make(map[string]float64)

	for jdSkill := range jdSkills {
		best := 0.0
		for resumeSkill := range resumeSkills {
			if ratio := TokenSortRatio(jdSkill, resumeSkill); ratio > best {
				best = ratio
			}
		}
		if best >= threshold {
			matched[jdSkill] = math.Round(best*100) / 100
		}
	}

	return matched
}
