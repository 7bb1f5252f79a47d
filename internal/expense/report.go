package expense

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	appErrors "github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/clock"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/frahmantamala/expenzor/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	RecentTransactionsLimit = 5
	DefaultComparisonMonths = 3
	MaxComparisonMonths     = 1200
)

// ReportService answers the dashboard's aggregate queries. It holds no
// state; every call reads the store.
type ReportService struct {
	repo   RepositoryAPI
	clock  clock.Clock
	loc    *time.Location
	logger *slog.Logger
}

func NewReportService(repo RepositoryAPI, clk clock.Clock, loc *time.Location, lg *slog.Logger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &ReportService{
		repo:   repo,
		clock:  clk,
		loc:    loc,
		logger: lg,
	}
}

// today is the clock reading in the reporting location.
func (s *ReportService) today() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *ReportService) CurrentMonthTotal(ctx context.Context) (decimal.Decimal, error) {
	now := s.today()
	return s.MonthlyTotal(ctx, now.Year(), int(now.Month()))
}

func (s *ReportService) MonthlyTotal(ctx context.Context, year, month int) (decimal.Decimal, error) {
	if err := validatePeriod(year, month); err != nil {
		return decimal.Zero, err
	}

	total, err := s.repo.SumByMonth(ctx, year, time.Month(month))
	if err != nil {
		s.logger.Error("failed to sum month", "error", err, "year", year, "month", month)
		return decimal.Zero, appErrors.NewInternalError("failed to compute monthly total", err)
	}

	return total.Round(AmountScale), nil
}

func (s *ReportService) OverallTotal(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.repo.SumAll(ctx)
	if err != nil {
		s.logger.Error("failed to sum expenses", "error", err)
		return decimal.Zero, appErrors.NewInternalError("failed to compute overall total", err)
	}

	return total.Round(AmountScale), nil
}

func (s *ReportService) CurrentMonthCategoryBreakdown(ctx context.Context) ([]*CategorySum, error) {
	now := s.today()
	return s.CategoryBreakdown(ctx, now.Year(), int(now.Month()))
}

func (s *ReportService) CategoryBreakdown(ctx context.Context, year, month int) ([]*CategorySum, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	rows, err := s.repo.SumByCategoryForMonth(ctx, year, time.Month(month))
	if err != nil {
		s.logger.Error("failed to sum categories", "error", err, "year", year, "month", month)
		return nil, appErrors.NewInternalError("failed to compute category breakdown", err)
	}

	return categorySumsFromDataModel(rows), nil
}

func (s *ReportService) RecentTransactions(ctx context.Context) ([]*Expense, error) {
	records, err := s.repo.GetRecent(ctx, RecentTransactionsLimit)
	if err != nil {
		s.logger.Error("failed to get recent expenses", "error", err)
		return nil, appErrors.NewInternalError("failed to get recent transactions", err)
	}

	return FromDataModelSlice(records), nil
}

// MonthlyComparison totals the numMonths calendar months ending with the
// current one, oldest first.
func (s *ReportService) MonthlyComparison(ctx context.Context, numMonths int) ([]*MonthlySummary, error) {
	if numMonths > MaxComparisonMonths {
		return nil, appErrors.ErrInvalidPeriod.WithMessage(
			fmt.Sprintf("numMonths must not exceed %d", MaxComparisonMonths))
	}
	if numMonths <= 0 {
		return []*MonthlySummary{}, nil
	}

	now := s.today()
	summaries := make([]*MonthlySummary, 0, numMonths)
	for i := 0; i < numMonths; i++ {
		year, month := date.MonthsBefore(now, i)
		total, err := s.repo.SumByMonth(ctx, year, month)
		if err != nil {
			s.logger.Error("failed to sum month", "error", err, "year", year, "month", int(month))
			return nil, appErrors.NewInternalError("failed to compute monthly comparison", err)
		}
		summaries = append(summaries, &MonthlySummary{
			MonthLabel:  date.MonthLabel(year, month),
			TotalAmount: Money(total.Round(AmountScale)),
		})
	}
	slices.Reverse(summaries)

	return summaries, nil
}

func (s *ReportService) ByDate(ctx context.Context, day date.Date) ([]*Expense, error) {
	records, err := s.repo.GetByDate(ctx, day)
	if err != nil {
		s.logger.Error("failed to get expenses by date", "error", err, "date", day.String())
		return nil, appErrors.NewInternalError("failed to get expenses by date", err)
	}

	return FromDataModelSlice(records), nil
}

func validatePeriod(year, month int) error {
	if !date.ValidMonth(month) {
		return appErrors.ErrInvalidPeriod.WithMessage(
			fmt.Sprintf("month must be between 1 and 12, got %d", month))
	}
	if year < 1 || year > 9999 {
		return appErrors.ErrInvalidPeriod.WithMessage(
			fmt.Sprintf("year must be between 1 and 9999, got %d", year))
	}
	return nil
}
