package scoring

import (
	"fmt"
	"strings"

	"resume-scorer/internal/models"
)

// suggestions turns the sub-scores into actionable advice for the caller.
func suggestions(result *models.ScoreResult) []string {
	var out []string

	switch {
	case result.Score < 70:
		out = append(out, "critical: score is below the recommended threshold (70)")
	case result.Score < 85:
		out = append(out, "moderate: score has room for improvement")
	default:
		out = append(out, "good: score is competitive")
	}

	if missing, ok := result.Metadata["missing_skills"].([]string); ok && len(missing) > 0 {
		top := missing
		if len(top) > 5 {
			top = top[:5]
		}
		out = append(out, fmt.Sprintf("add missing skills: %s", strings.Join(top, ", ")))
	}

	if semantic, ok := result.Metadata["semantic_score"].(float64); ok && semantic < 70 {
		out = append(out, "improve content alignment: use more wording from the job description")
	}

	if critical, ok := result.Metadata["critical_match_score"].(float64); ok && critical < 80 {
		out = append(out, "highlight critical skills: emphasize key technical skills more prominently")
	}

	return out
}
