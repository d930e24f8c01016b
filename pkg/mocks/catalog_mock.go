// Package mocks provides testify mocks for engine interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// MockCatalog is a mock implementation of the catalog.Catalog interface.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ActiveTemplates(ctx context.Context, productCode, eventCode string) ([]*models.WorkflowTemplate, error) {
	args := m.Called(ctx, productCode, eventCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.WorkflowTemplate), args.Error(1)
}

func (m *MockCatalog) StagesByTemplate(ctx context.Context, templateID string) ([]*models.Stage, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Stage), args.Error(1)
}

func (m *MockCatalog) FieldsByStage(ctx context.Context, stageID string) ([]*models.StageField, error) {
	args := m.Called(ctx, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.StageField), args.Error(1)
}

func (m *MockCatalog) FieldActionsByField(ctx context.Context, fieldID string) (*models.FieldActions, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.FieldActions), args.Error(1)
}

func (m *MockCatalog) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockCatalog) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
