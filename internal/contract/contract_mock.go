package contract

import (
	"context"

	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of DataSource for testing.
type MockDataSource struct {
	mock.Mock
}

var _ DataSource = &MockDataSource{} // Compile-time check

// Version implements the DataSource interface.
func (m *MockDataSource) Version(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Jobs implements the DataSource interface.
func (m *MockDataSource) Jobs(ctx context.Context, filter schema.JobFilter) ([]schema.JobPosting, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]schema.JobPosting)
	return jobs, args.Error(1)
}

// Companies implements the DataSource interface.
func (m *MockDataSource) Companies(ctx context.Context) ([]schema.Company, error) {
	args := m.Called(ctx)
	companies, _ := args.Get(0).([]schema.Company)
	return companies, args.Error(1)
}

// Skills implements the DataSource interface.
func (m *MockDataSource) Skills(ctx context.Context) ([]schema.Skill, error) {
	args := m.Called(ctx)
	skills, _ := args.Get(0).([]schema.Skill)
	return skills, args.Error(1)
}

// DemandGaps implements the DataSource interface.
func (m *MockDataSource) DemandGaps(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	gaps, _ := args.Get(0).(map[string]float64)
	return gaps, args.Error(1)
}

// Status implements the DataSource interface.
func (m *MockDataSource) Status(ctx context.Context) (schema.SourceStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.SourceStatus), args.Error(1)
}

// Close implements the DataSource interface.
func (m *MockDataSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockForecaster is a mock implementation of Forecaster for testing.
type MockForecaster struct {
	mock.Mock
}

var _ Forecaster = &MockForecaster{} // Compile-time check

// Forecast implements the Forecaster interface.
func (m *MockForecaster) Forecast(ctx context.Context, history []schema.SeriesPoint, periods int) (schema.ForecastOutput, error) {
	args := m.Called(ctx, history, periods)
	return args.Get(0).(schema.ForecastOutput), args.Error(1)
}
