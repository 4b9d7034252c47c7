package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resume-scorer/internal/models"
)

type MockScoreStore struct {
	mock.Mock
}

func (m *MockScoreStore) Insert(ctx context.Context, record *models.ScoreRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockScoreStore) Get(ctx context.Context, id uuid.UUID) (*models.ScoreRecord, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ScoreRecord), args.Error(1)
}
