package iocache

import (
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetResultStore implements the CacheManager interface.
func (m *MockCacheManager) GetResultStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetAnalysisStore implements the CacheManager interface.
func (m *MockCacheManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AnalysisStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Clear implements the CacheStore interface.
func (m *MockCacheStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginAnalysis(startTime time.Time, dataVersion string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, dataVersion, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndAnalysis(analysisID int64, endTime time.Time, totalSkills int) error {
	args := m.Called(analysisID, endTime, totalSkills)
	return args.Error(0)
}

// RecordSkillScore implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordSkillScore(analysisID int64, skill string, score schema.SkillScore) error {
	args := m.Called(analysisID, skill, score)
	return args.Error(0)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

// GetAllAnalysisRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return runs, args.Error(1)
}

// GetAllSkillScores implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllSkillScores() ([]schema.SkillScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.SkillScoreRecord)
	return scores, args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
