package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/cohortics/churn-analytics-service/internal/analyzer"
	"github.com/cohortics/churn-analytics-service/internal/domain"
	"github.com/cohortics/churn-analytics-service/internal/dto"
	"github.com/cohortics/churn-analytics-service/internal/repository"
)

// MockQueuePublisher is a mock implementation of queue.QueuePublisher
type MockQueuePublisher struct {
	mock.Mock
}

func (m *MockQueuePublisher) PublishFact(ctx context.Context, fact *domain.ActivityFact) error {
	args := m.Called(ctx, fact)
	return args.Error(0)
}

// MockFactRepository is a mock implementation of repository.FactRepository
type MockFactRepository struct {
	mock.Mock
}

func (m *MockFactRepository) InsertBatch(ctx context.Context, facts []*domain.ActivityFact) (int, error) {
	args := m.Called(ctx, facts)
	return args.Int(0), args.Error(1)
}

func (m *MockFactRepository) FetchFacts(ctx context.Context, from, to domain.Month) (*repository.FactSet, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.FactSet), args.Error(1)
}

func (m *MockFactRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFactRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFactRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestService(publisher *MockQueuePublisher, repo *MockFactRepository) *AnalyticsService {
	return NewAnalyticsService(publisher, repo, analyzer.ExcludeFinalMonth, zap.NewNop())
}

func TestAnalyticsService_RecordActivity_Success(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	req := &dto.RecordActivityRequest{UserID: "user123", Date: "2023-01-15"}

	mockPublisher.On("PublishFact", mock.Anything, mock.MatchedBy(func(fact *domain.ActivityFact) bool {
		return fact.UserID == "user123" && fact.Month == domain.NewMonth(2023, time.January)
	})).Return(nil)

	factID, err := service.RecordActivity(context.Background(), req)

	assert.NoError(t, err)
	assert.NotEmpty(t, factID)
	mockPublisher.AssertExpectations(t)
}

func TestAnalyticsService_RecordActivity_DeterministicFactID(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	mockPublisher.On("PublishFact", mock.Anything, mock.Anything).Return(nil)

	// Day-of-month differs but the month is the same, so the IDs collide by
	// design.
	first, err := service.RecordActivity(context.Background(), &dto.RecordActivityRequest{UserID: "user123", Date: "2023-01-02"})
	assert.NoError(t, err)
	second, err := service.RecordActivity(context.Background(), &dto.RecordActivityRequest{UserID: "user123", Date: "2023-01-28"})
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyticsService_RecordActivity_InvalidDate(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	_, err := service.RecordActivity(context.Background(), &dto.RecordActivityRequest{UserID: "user123", Date: "not-a-date"})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	mockPublisher.AssertNotCalled(t, "PublishFact")
}

func TestAnalyticsService_RecordActivity_EmptyUserID(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	_, err := service.RecordActivity(context.Background(), &dto.RecordActivityRequest{UserID: "", Date: "2023-01"})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	mockPublisher.AssertNotCalled(t, "PublishFact")
}

func TestAnalyticsService_RecordActivityBulk_CollectsRowErrors(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	mockPublisher.On("PublishFact", mock.Anything, mock.Anything).Return(nil)

	facts := []dto.RecordActivityRequest{
		{UserID: "u1", Date: "2023-01"},
		{UserID: "u2", Date: "bogus"},
		{UserID: "u3", Date: "2023-02"},
	}

	factIDs, rowErrors, err := service.RecordActivityBulk(context.Background(), facts)

	assert.NoError(t, err)
	assert.Len(t, factIDs, 2)
	assert.Len(t, rowErrors, 1)
}

func TestAnalyticsService_MonthlyRetention_SurfacesSkippedRows(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	set := &repository.FactSet{
		Facts: []domain.ActivityFact{
			{UserID: "u1", Month: domain.NewMonth(2023, time.January)},
			{UserID: "u1", Month: domain.NewMonth(2023, time.February)},
		},
		SkippedRows: 3,
	}
	mockRepo.On("FetchFacts", mock.Anything, domain.Month{}, domain.Month{}).Return(set, nil)

	response, err := service.MonthlyRetention(context.Background(), &dto.MonthWindowQuery{})

	assert.NoError(t, err)
	assert.Equal(t, 3, response.SkippedRows)
	assert.Len(t, response.Rows, 2)
	assert.Equal(t, "2023-02", response.Rows[1].Month)
	assert.Equal(t, 1, response.Rows[1].RetainedUsers)
	mockRepo.AssertExpectations(t)
}

func TestAnalyticsService_MonthlyRetention_InvalidWindow(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	_, err := service.MonthlyRetention(context.Background(), &dto.MonthWindowQuery{From: "2023-06", To: "2023-01"})

	assert.ErrorIs(t, err, ErrInvalidRange)
	mockRepo.AssertNotCalled(t, "FetchFacts")
}

func TestAnalyticsService_MonthlyChurn_PolicyOverride(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	set := &repository.FactSet{
		Facts: []domain.ActivityFact{
			{UserID: "u1", Month: domain.NewMonth(2023, time.January)},
		},
	}
	mockRepo.On("FetchFacts", mock.Anything, domain.Month{}, domain.Month{}).Return(set, nil)

	// Default policy: u1's single month is the final month, nothing churns.
	response, err := service.MonthlyChurn(context.Background(), &dto.MonthlyChurnQuery{})
	assert.NoError(t, err)
	assert.Empty(t, response.Rows)

	// Override flips the truncation policy.
	countFinal := true
	response, err = service.MonthlyChurn(context.Background(), &dto.MonthlyChurnQuery{CountFinalMonth: &countFinal})
	assert.NoError(t, err)
	assert.Len(t, response.Rows, 1)
	assert.Equal(t, "2023-02", response.Rows[0].ChurnMonth)
}

func TestAnalyticsService_RetentionBetween_Success(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	jan := domain.NewMonth(2023, time.January)
	feb := domain.NewMonth(2023, time.February)
	set := &repository.FactSet{
		Facts: []domain.ActivityFact{
			{UserID: "u1", Month: jan},
			{UserID: "u2", Month: jan},
			{UserID: "u1", Month: feb},
		},
	}
	mockRepo.On("FetchFacts", mock.Anything, jan, feb).Return(set, nil)

	response, err := service.RetentionBetween(context.Background(), &dto.RetentionBetweenQuery{
		StartMonth:  "2023-01",
		TargetMonth: "2023-02",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, response.InitialUsers)
	assert.Equal(t, 1, response.RetainedUsers)
	assert.Equal(t, 50.0, response.RetentionRate)
}

func TestAnalyticsService_RetentionBetween_TargetNotAfterStart(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	_, err := service.RetentionBetween(context.Background(), &dto.RetentionBetweenQuery{
		StartMonth:  "2023-02",
		TargetMonth: "2023-01",
	})

	assert.ErrorIs(t, err, ErrInvalidRange)
	mockRepo.AssertNotCalled(t, "FetchFacts")
}

func TestAnalyticsService_ChurnAt_Success(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	jan := domain.NewMonth(2023, time.January)
	feb := domain.NewMonth(2023, time.February)
	set := &repository.FactSet{
		Facts: []domain.ActivityFact{
			{UserID: "u1", Month: jan},
			{UserID: "u2", Month: jan},
			{UserID: "u1", Month: feb},
		},
	}
	mockRepo.On("FetchFacts", mock.Anything, jan, feb).Return(set, nil)

	response, err := service.ChurnAt(context.Background(), &dto.ChurnAtQuery{ReferenceMonth: "2023-02"})

	assert.NoError(t, err)
	assert.Equal(t, "2023-01", response.PreviousMonth)
	assert.Equal(t, 2, response.StartingUsers)
	assert.Equal(t, 1, response.ChurnedUsers)
	assert.Equal(t, 50.0, response.ChurnRate)
}

func TestAnalyticsService_ChurnAt_NoPredecessor(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	_, err := service.ChurnAt(context.Background(), &dto.ChurnAtQuery{ReferenceMonth: "0001-01"})

	assert.ErrorIs(t, err, ErrNoPredecessor)
	mockRepo.AssertNotCalled(t, "FetchFacts")
}

func TestAnalyticsService_FetchError_Propagates(t *testing.T) {
	mockPublisher := new(MockQueuePublisher)
	mockRepo := new(MockFactRepository)

	service := newTestService(mockPublisher, mockRepo)

	mockRepo.On("FetchFacts", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := service.LifecycleStatus(context.Background(), &dto.MonthWindowQuery{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch activity facts")
}
