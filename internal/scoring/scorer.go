// Package scoring implements the classical resume scoring pipeline: keyword
// extraction, embedding similarity, and a weighted blend of both.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"resume-scorer/internal/embeddings"
	scorererrors "resume-scorer/internal/errors"
	"resume-scorer/internal/models"
	"resume-scorer/internal/skills"
)

// Blend weights. Semantic similarity dominates, skill overlap close behind;
// the length factor is a small structural sanity check.
const (
	semanticWeight = 0.40
	skillWeight    = 0.35
	criticalWeight = 0.20
	lengthWeight   = 0.05
)

// criticalSkills are high-weight skills scored separately from the general
// overlap ratio.
var criticalSkills = map[string]struct{}{
	"python":     {},
	"java":       {},
	"javascript": {},
	"react":      {},
	"sql":        {},
	"aws":        {},
	"docker":     {},
	"kubernetes": {},
}

// Embedder is the read-only embedding model handle loaded at startup.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Scorer struct {
	embedder Embedder
	skills   *skills.Database
	logger   *zap.Logger
}

func New(embedder Embedder, db *skills.Database, logger *zap.Logger) *Scorer {
	return &Scorer{
		embedder: embedder,
		skills:   db,
		logger:   logger,
	}
}

// Score computes the blended score for a resume against a job description.
// The whole path is local and deterministic: same inputs, same score.
func (s *Scorer) Score(ctx context.Context, in models.ScoreInput) (*models.ScoreResult, error) {
	resumeText := strings.TrimSpace(in.ResumeText)
	jdText := strings.TrimSpace(in.JobDescription)

	if jdText == "" {
		return nil, fmt.Errorf("%w: job description is empty", scorererrors.ErrInvalidInput)
	}
	if resumeText == "" {
		return nil, fmt.Errorf("%w: resume text is empty", scorererrors.ErrInvalidInput)
	}

	semanticScore, err := s.semanticScore(ctx, resumeText, jdText)
	if err != nil {
		return nil, fmt.Errorf("computing semantic similarity: %w", err)
	}

	resumeSkills := s.skills.Extract(resumeText)
	jdSkills := s.skills.Extract(jdText)

	matched := skills.Match(resumeSkills, jdSkills, skills.DefaultMatchThreshold)

	skillScore := 0.0
	if len(jdSkills) > 0 {
		skillScore = float64(len(matched)) / float64(len(jdSkills)) * 100
	}

	criticalScore := criticalMatchScore(resumeSkills, jdSkills)

	resumeWords := len(strings.Fields(resumeText))
	jdWords := len(strings.Fields(jdText))
	lengthScore := lengthScore(resumeWords, jdWords)

	final := semanticScore*semanticWeight +
		skillScore*skillWeight +
		criticalScore*criticalWeight +
		lengthScore*lengthWeight
	final = clamp(final, 0, 100)

	matchedTerms := make([]string, 0, len(matched))
	skillScores := make(map[string]float64, len(matched))
	for skill, ratio := range matched {
		matchedTerms = append(matchedTerms, skill)
		skillScores[skill] = ratio
	}
	sort.Strings(matchedTerms)

	missing := missingSkills(jdSkills, matched)

	result := &models.ScoreResult{
		Score:        round2(final),
		MatchedTerms: matchedTerms,
		Metadata: map[string]any{
			"engine":               "classical",
			"semantic_score":       round2(semanticScore),
			"skill_match_score":    round2(skillScore),
			"critical_match_score": round2(criticalScore),
			"length_score":         round2(lengthScore),
			"skill_scores":         skillScores,
			"missing_skills":       missing,
			"total_jd_skills":      len(jdSkills),
			"total_resume_skills":  len(resumeSkills),
			"resume_word_count":    resumeWords,
			"jd_word_count":        jdWords,
		},
	}
	result.Metadata["suggestions"] = suggestions(result)

	s.logger.Debug("classical score computed",
		zap.Float64("score", result.Score),
		zap.Float64("semantic", semanticScore),
		zap.Float64("skill_match", skillScore),
		zap.Int("matched_terms", len(matchedTerms)),
	)

	return result, nil
}

func (s *Scorer) semanticScore(ctx context.Context, resumeText, jdText string) (float64, error) {
	resumeVec, err := s.embedder.Embed(ctx, resumeText)
	if err != nil {
		return 0, fmt.Errorf("embedding resume: %w", err)
	}

	jdVec, err := s.embedder.Embed(ctx, jdText)
	if err != nil {
		return 0, fmt.Errorf("embedding job description: %w", err)
	}

	return clamp(embeddings.Cosine(resumeVec, jdVec)*100, 0, 100), nil
}

// criticalMatchScore is the share of required critical skills the resume
// covers. A jd with no critical skills scores 100.
func criticalMatchScore(resumeSkills, jdSkills map[string]struct{}) float64 {
	required := 0
	covered := 0

	for skill := range criticalSkills {
		if _, ok := jdSkills[skill]; !ok {
			continue
		}
		required++
		if _, ok := resumeSkills[skill]; ok {
			covered++
		}
	}

	if required == 0 {
		return 100
	}
	return float64(covered) / float64(required) * 100
}

// lengthScore penalizes resumes much shorter or much longer than the job
// description warrants. The ratio is capped at 2x.
func lengthScore(resumeWords, jdWords int) float64 {
	base := jdWords
	if base < 100 {
		base = 100
	}

	ratio := math.Min(float64(resumeWords)/float64(base), 2.0)
	return math.Max(0, 100-math.Abs(1-ratio)*50)
}

func missingSkills(jdSkills map[string]struct{}, matched map[string]float64) []string {
	var missing []string
	for skill := range jdSkills {
		if _, ok := matched[skill]; !ok {
			missing = append(missing, skill)
		}
	}
	sort.Strings(missing)
	return missing
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
