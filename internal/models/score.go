package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoreInput carries the two texts every scoring engine works from.
// Resume text is already extracted and cleaned by the time it gets here.
type ScoreInput struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// ScoreResult is the single response shape both pipelines converge on.
type ScoreResult struct {
	Score        float64        `json:"score"`
	MatchedTerms []string       `json:"matched_terms"`
	Metadata     map[string]any `json:"metadata"`
}

// ScoreRecord is the persisted form of a result, retrievable via GET /scores/{id}.
type ScoreRecord struct {
	ID uuid.UUID `json:"id" db:"id"`

	Engine string `json:"engine" db:"engine"`

	Score float64 `json:"score" db:"score"`

	MatchedTerms []string `json:"matched_terms" db:"matched_terms"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
