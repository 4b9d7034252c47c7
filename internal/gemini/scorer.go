package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	scorererrors "resume-scorer/internal/errors"
	"resume-scorer/internal/models"
)

// Both texts are truncated before prompting to stay within token limits.
const maxPromptRunes = 4000

const defaultTimeout = 60 * time.Second

const promptTemplate = `You are an expert ATS (Applicant Tracking System) analyzer. Analyze the following resume against the job description.

**JOB DESCRIPTION:**
{{JD}}

**RESUME:**
{{RESUME}}

Respond with JSON in exactly this shape:

{
  "ats_score": {
    "overall_score": <number 0-100>,
    "keyword_match_score": <number 0-100>,
    "skills_alignment_score": <number 0-100>,
    "experience_relevance_score": <number 0-100>,
    "format_optimization_score": <number 0-100>
  },
  "skill_analysis": {
    "matched_skills": [<skills found in both resume and job description>],
    "missing_critical_skills": [<important skills missing from the resume>]
  },
  "recommendations": {
    "high_priority": [<most critical improvements>],
    "medium_priority": [<moderate improvements>],
    "low_priority": [<nice-to-have improvements>]
  }
}

Ensure all scores are realistic and based on actual content analysis.`

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Scorer delegates resume scoring to the Gemini model and relays its
// structured assessment.
type Scorer struct {
	generator contentGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewScorer(generator contentGenerator, timeout time.Duration, logger *zap.Logger) *Scorer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Scorer{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// analysis mirrors the JSON shape requested in the prompt. Overall score is
// a pointer so an answer that omits it is detected as malformed rather than
// scored 0.
type analysis struct {
	ATSScore struct {
		Overall             *float64 `json:"overall_score"`
		KeywordMatch        float64  `json:"keyword_match_score"`
		SkillsAlignment     float64  `json:"skills_alignment_score"`
		ExperienceRelevance float64  `json:"experience_relevance_score"`
		FormatOptimization  float64  `json:"format_optimization_score"`
	} `json:"ats_score"`
	SkillAnalysis struct {
		Matched         []string `json:"matched_skills"`
		MissingCritical []string `json:"missing_critical_skills"`
	} `json:"skill_analysis"`
	Recommendations struct {
		High   []string `json:"high_priority"`
		Medium []string `json:"medium_priority"`
		Low    []string `json:"low_priority"`
	} `json:"recommendations"`
}

func (s *Scorer) Score(ctx context.Context, in models.ScoreInput) (*models.ScoreResult, error) {
	resumeText := strings.TrimSpace(in.ResumeText)
	jdText := strings.TrimSpace(in.JobDescription)

	if jdText == "" {
		return nil, fmt.Errorf("%w: job description is empty", scorererrors.ErrInvalidInput)
	}
	if resumeText == "" {
		return nil, fmt.Errorf("%w: resume text is empty", scorererrors.ErrInvalidInput)
	}

	prompt := buildPrompt(resumeText, jdText)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := parseAnalysis(raw)
	if err != nil {
		s.logger.Warn("gemini response failed to parse",
			zap.Error(err),
			zap.Int("response_length", len(raw)),
		)
		return nil, err
	}

	matchedTerms := dedupeSorted(parsed.SkillAnalysis.Matched)
	overall := clamp(*parsed.ATSScore.Overall, 0, 100)

	result := &models.ScoreResult{
		Score:        overall,
		MatchedTerms: matchedTerms,
		Metadata: map[string]any{
			"engine":                     "llm",
			"model":                      s.generator.Model(),
			"keyword_match_score":        clamp(parsed.ATSScore.KeywordMatch, 0, 100),
			"skills_alignment_score":     clamp(parsed.ATSScore.SkillsAlignment, 0, 100),
			"experience_relevance_score": clamp(parsed.ATSScore.ExperienceRelevance, 0, 100),
			"format_optimization_score":  clamp(parsed.ATSScore.FormatOptimization, 0, 100),
			"missing_skills":             dedupeSorted(parsed.SkillAnalysis.MissingCritical),
			"recommendations": map[string][]string{
				"high_priority":   emptyIfNil(parsed.Recommendations.High),
				"medium_priority": emptyIfNil(parsed.Recommendations.Medium),
				"low_priority":    emptyIfNil(parsed.Recommendations.Low),
			},
			"resume_word_count": len(strings.Fields(resumeText)),
			"jd_word_count":     len(strings.Fields(jdText)),
		},
	}

	s.logger.Debug("llm score computed",
		zap.Float64("score", result.Score),
		zap.Int("matched_terms", len(result.MatchedTerms)),
	)

	return result, nil
}

func buildPrompt(resumeText, jdText string) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{JD}}", truncate(jdText, maxPromptRunes))
	return strings.ReplaceAll(prompt, "{{RESUME}}", truncate(resumeText, maxPromptRunes))
}

func parseAnalysis(raw string) (*analysis, error) {
	cleaned := extractJSON(raw)

	var parsed analysis
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", scorererrors.ErrProviderResponse, err)
	}

	if parsed.ATSScore.Overall == nil {
		return nil, fmt.Errorf("%w: missing overall_score", scorererrors.ErrProviderResponse)
	}

	return &parsed, nil
}

// extractJSON strips markdown fences and surrounding prose the model may
// wrap around the JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func dedupeSorted(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
