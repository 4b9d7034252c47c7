package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resume-scorer/internal/models"
)

type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Get(ctx context.Context, key string) (*models.ScoreResult, bool, error) {
	args := m.Called(ctx, key)

	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}

	return args.Get(0).(*models.ScoreResult), args.Bool(1), args.Error(2)
}

func (m *MockResultCache) Set(ctx context.Context, key string, result *models.ScoreResult) error {
	args := m.Called(ctx, key, result)

	return args.Error(0)
}
