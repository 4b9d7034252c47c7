package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resume-scorer/internal/models"
)

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, in models.ScoreInput) (*models.ScoreResult, error) {
	args := m.Called(ctx, in)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ScoreResult), args.Error(1)
}
