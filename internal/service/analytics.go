package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cohortics/churn-analytics-service/internal/analyzer"
	"github.com/cohortics/churn-analytics-service/internal/domain"
	"github.com/cohortics/churn-analytics-service/internal/dto"
	"github.com/cohortics/churn-analytics-service/internal/queue"
	"github.com/cohortics/churn-analytics-service/internal/repository"
)

// Validation sentinels. Handlers map these to 400 responses.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidRange  = errors.New("invalid month range")
	ErrNoPredecessor = errors.New("reference month has no calendar predecessor")
)

// AnalyticsService represents the churn analytics service
type AnalyticsService struct {
	publisher  queue.QueuePublisher
	repository repository.FactRepository
	policy     analyzer.ChurnPolicy
	log        *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(publisher queue.QueuePublisher, repo repository.FactRepository, policy analyzer.ChurnPolicy, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		publisher:  publisher,
		repository: repo,
		policy:     policy,
		log:        log,
	}
}

// computeFactID generates a deterministic fact ID based on fact content.
// Uses SHA-256 hash of: user_id|active_month, so re-submitting the same
// observation always produces the same ID.
func computeFactID(userID string, month domain.Month) string {
	data := fmt.Sprintf("%s|%s", userID, month)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// RecordActivity validates and publishes a single activity fact
func (s *AnalyticsService) RecordActivity(ctx context.Context, req *dto.RecordActivityRequest) (string, error) {
	if req.UserID == "" {
		return "", fmt.Errorf("%w: user_id must not be empty", ErrInvalidInput)
	}

	month, err := domain.ParseMonth(req.Date)
	if err != nil {
		s.log.Warn("Date validation failed",
			zap.String("date", req.Date),
			zap.String("user_id", req.UserID))
		return "", fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}

	fact := &domain.ActivityFact{
		FactID: computeFactID(req.UserID, month),
		UserID: req.UserID,
		Month:  month,
	}

	if err := s.publisher.PublishFact(ctx, fact); err != nil {
		return "", fmt.Errorf("failed to publish fact to queue: %w", err)
	}

	return fact.FactID, nil
}

// RecordActivityBulk validates and publishes multiple activity facts,
// collecting per-row errors without aborting the batch
func (s *AnalyticsService) RecordActivityBulk(ctx context.Context, facts []dto.RecordActivityRequest) ([]string, []string, error) {
	var factIDs []string
	var rowErrors []string

	for i, req := range facts {
		factID, err := s.RecordActivity(ctx, &req)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
			s.log.Warn("Failed to record fact in bulk",
				zap.Int("index", i),
				zap.Error(err),
				zap.String("user_id", req.UserID))
			continue
		}
		factIDs = append(factIDs, factID)
	}

	return factIDs, rowErrors, nil
}

// parseWindow parses optional from/to month bounds and checks their order.
func parseWindow(from, to string) (domain.Month, domain.Month, error) {
	var fromMonth, toMonth domain.Month
	var err error

	if from != "" {
		if fromMonth, err = domain.ParseMonth(from); err != nil {
			return domain.Month{}, domain.Month{}, fmt.Errorf("%w: from: %v", ErrInvalidMonth, err)
		}
	}
	if to != "" {
		if toMonth, err = domain.ParseMonth(to); err != nil {
			return domain.Month{}, domain.Month{}, fmt.Errorf("%w: to: %v", ErrInvalidMonth, err)
		}
	}
	if !fromMonth.IsZero() && !toMonth.IsZero() && toMonth.Before(fromMonth) {
		return domain.Month{}, domain.Month{}, fmt.Errorf("%w: to %s is before from %s", ErrInvalidRange, toMonth, fromMonth)
	}
	return fromMonth, toMonth, nil
}

func (s *AnalyticsService) fetch(ctx context.Context, from, to domain.Month) (*repository.FactSet, error) {
	set, err := s.repository.FetchFacts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity facts: %w", err)
	}
	return set, nil
}

// MonthlyRetention computes the per-month retention summary
func (s *AnalyticsService) MonthlyRetention(ctx context.Context, query *dto.MonthWindowQuery) (*dto.MonthlyRetentionResponse, error) {
	from, to, err := parseWindow(query.From, query.To)
	if err != nil {
		return nil, err
	}

	set, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := analyzer.MonthlyRetention(set.Facts)

	response := &dto.MonthlyRetentionResponse{
		Rows:        make([]dto.MonthlyRetentionRow, 0, len(rows)),
		SkippedRows: set.SkippedRows,
	}
	for _, row := range rows {
		response.Rows = append(response.Rows, dto.MonthlyRetentionRow{
			Month:            row.Month.String(),
			RetainedUsers:    row.RetainedUsers,
			TotalActiveUsers: row.TotalActiveUsers,
			RetentionRate:    row.RetentionRate,
		})
	}

	s.log.Info("Computed monthly retention",
		zap.Int("months", len(rows)),
		zap.Int("skipped_rows", set.SkippedRows))

	return response, nil
}

// MonthlyChurn computes the per-month churn summary
func (s *AnalyticsService) MonthlyChurn(ctx context.Context, query *dto.MonthlyChurnQuery) (*dto.MonthlyChurnResponse, error) {
	from, to, err := parseWindow(query.From, query.To)
	if err != nil {
		return nil, err
	}

	set, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	policy := s.policy
	if query.CountFinalMonth != nil {
		policy = analyzer.ExcludeFinalMonth
		if *query.CountFinalMonth {
			policy = analyzer.CountFinalMonth
		}
	}

	rows := analyzer.MonthlyChurn(set.Facts, policy)

	response := &dto.MonthlyChurnResponse{
		Rows:        make([]dto.MonthlyChurnRow, 0, len(rows)),
		SkippedRows: set.SkippedRows,
	}
	for _, row := range rows {
		response.Rows = append(response.Rows, dto.MonthlyChurnRow{
			ChurnMonth:   row.ChurnMonth.String(),
			ChurnedUsers: row.ChurnedUsers,
		})
	}

	s.log.Info("Computed monthly churn",
		zap.Int("months", len(rows)),
		zap.Bool("count_final_month", policy == analyzer.CountFinalMonth),
		zap.Int("skipped_rows", set.SkippedRows))

	return response, nil
}

// LifecycleStatus computes the per-month lifecycle breakdown
func (s *AnalyticsService) LifecycleStatus(ctx context.Context, query *dto.MonthWindowQuery) (*dto.LifecycleResponse, error) {
	from, to, err := parseWindow(query.From, query.To)
	if err != nil {
		return nil, err
	}

	set, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := analyzer.LifecycleStatus(set.Facts)

	response := &dto.LifecycleResponse{
		Rows:        make([]dto.LifecycleRow, 0, len(rows)),
		SkippedRows: set.SkippedRows,
	}
	for _, row := range rows {
		response.Rows = append(response.Rows, dto.LifecycleRow{
			Month:  row.Month.String(),
			Status: string(row.Label),
			Users:  row.Users,
		})
	}

	return response, nil
}

// RetentionBetween computes retention from an explicit start month to an
// explicit target month
func (s *AnalyticsService) RetentionBetween(ctx context.Context, query *dto.RetentionBetweenQuery) (*dto.RetentionBetweenResponse, error) {
	start, err := domain.ParseMonth(query.StartMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: start_month: %v", ErrInvalidMonth, err)
	}
	target, err := domain.ParseMonth(query.TargetMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: target_month: %v", ErrInvalidMonth, err)
	}
	if !start.Before(target) {
		return nil, fmt.Errorf("%w: target_month %s must be after start_month %s", ErrInvalidRange, target, start)
	}

	set, err := s.fetch(ctx, start, target)
	if err != nil {
		return nil, err
	}

	result, err := analyzer.RetentionBetween(set.Facts, start, target)
	if err != nil {
		return nil, err
	}

	return &dto.RetentionBetweenResponse{
		StartMonth:    result.StartMonth.String(),
		TargetMonth:   result.TargetMonth.String(),
		InitialUsers:  result.InitialUsers,
		RetainedUsers: result.RetainedUsers,
		RetentionRate: result.RetentionRate,
		SkippedRows:   set.SkippedRows,
	}, nil
}

// ChurnAt computes churn for an explicit reference month against the month
// before it
func (s *AnalyticsService) ChurnAt(ctx context.Context, query *dto.ChurnAtQuery) (*dto.ChurnAtResponse, error) {
	reference, err := domain.ParseMonth(query.ReferenceMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: reference_month: %v", ErrInvalidMonth, err)
	}
	previous, err := reference.Prev()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPredecessor, reference)
	}

	set, err := s.fetch(ctx, previous, reference)
	if err != nil {
		return nil, err
	}

	result, err := analyzer.ChurnAt(set.Facts, reference)
	if err != nil {
		return nil, err
	}

	return &dto.ChurnAtResponse{
		ReferenceMonth: result.ReferenceMonth.String(),
		PreviousMonth:  result.PreviousMonth.String(),
		StartingUsers:  result.StartingUsers,
		ChurnedUsers:   result.ChurnedUsers,
		ChurnRate:      result.ChurnRate,
		SkippedRows:    set.SkippedRows,
	}, nil
}
