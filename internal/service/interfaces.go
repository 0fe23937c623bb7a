package service

import (
	"context"

	"github.com/cohortics/churn-analytics-service/internal/dto"
)

// AnalyticsServicer defines the interface for the churn analytics service
type AnalyticsServicer interface {
	RecordActivity(ctx context.Context, req *dto.RecordActivityRequest) (string, error)
	RecordActivityBulk(ctx context.Context, facts []dto.RecordActivityRequest) ([]string, []string, error)
	MonthlyRetention(ctx context.Context, query *dto.MonthWindowQuery) (*dto.MonthlyRetentionResponse, error)
	MonthlyChurn(ctx context.Context, query *dto.MonthlyChurnQuery) (*dto.MonthlyChurnResponse, error)
	LifecycleStatus(ctx context.Context, query *dto.MonthWindowQuery) (*dto.LifecycleResponse, error)
	RetentionBetween(ctx context.Context, query *dto.RetentionBetweenQuery) (*dto.RetentionBetweenResponse, error)
	ChurnAt(ctx context.Context, query *dto.ChurnAtQuery) (*dto.ChurnAtResponse, error)
}
