package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	appErrors "github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/clock"
	expenseDatamodel "github.com/frahmantamala/expenzor/internal/core/datamodel/expense"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/frahmantamala/expenzor/pkg/logger"
	"github.com/shopspring/decimal"
)

// RepositoryAPI is the persistent expense store. Lookups by id return
// appErrors.ErrExpenseNotFound when no row matches.
type RepositoryAPI interface {
	Create(ctx context.Context, expense *expenseDatamodel.Expense) error
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
	GetAll(ctx context.Context) ([]*expenseDatamodel.Expense, error)
	GetByDate(ctx context.Context, day date.Date) ([]*expenseDatamodel.Expense, error)
	GetRecent(ctx context.Context, limit int) ([]*expenseDatamodel.Expense, error)
	Update(ctx context.Context, expense *expenseDatamodel.Expense) error
	Delete(ctx context.Context, id int64) error
	SumByMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)
	SumAll(ctx context.Context) (decimal.Decimal, error)
	SumByCategoryForMonth(ctx context.Context, year int, month time.Month) ([]*expenseDatamodel.CategoryTotal, error)
}

type Service struct {
	repo   RepositoryAPI
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, clk clock.Clock, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{
		repo:   repo,
		clock:  clk,
		logger: lg,
	}
}

func (s *Service) CreateExpense(ctx context.Context, req ExpenseRequest) (*Expense, error) {
	if err := req.Validate(); err != nil {
		s.logger.Debug("expense validation failed", "error", err)
		return nil, err
	}

	expense := NewExpense(req, s.clock.Now())
	record := ToDataModel(expense)
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, storeError("failed to create expense", err)
	}
	expense.ID = record.ID

	s.logger.Info("expense created",
		"expense_id", expense.ID,
		"amount", expense.Amount.StringFixed(AmountScale),
		"category", expense.Category)

	return expense, nil
}

func (s *Service) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	if id <= 0 {
		return nil, appErrors.ErrInvalidID
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, appErrors.ErrExpenseNotFound) {
			s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		}
		return nil, storeError("failed to get expense", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) GetAllExpenses(ctx context.Context) ([]*Expense, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, storeError("failed to list expenses", err)
	}

	return FromDataModelSlice(records), nil
}

func (s *Service) UpdateExpense(ctx context.Context, id int64, req ExpenseRequest) (*Expense, error) {
	if id <= 0 {
		return nil, appErrors.ErrInvalidID
	}
	if err := req.Validate(); err != nil {
		s.logger.Debug("expense validation failed", "error", err, "expense_id", id)
		return nil, err
	}

	expense, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	expense.Apply(req, s.clock.Now())
	if err := s.repo.Update(ctx, ToDataModel(expense)); err != nil {
		if !errors.Is(err, appErrors.ErrExpenseNotFound) {
			s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		}
		return nil, storeError("failed to update expense", err)
	}

	s.logger.Info("expense updated", "expense_id", id)

	return expense, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.ErrInvalidID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, appErrors.ErrExpenseNotFound) {
			s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		}
		return storeError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id)

	return nil
}

// storeError passes NotFound through and turns anything else into an
// Internal error carrying the cause.
func storeError(message string, err error) error {
	if errors.Is(err, appErrors.ErrExpenseNotFound) {
		return appErrors.ErrExpenseNotFound
	}
	return appErrors.NewInternalError(message, err)
}
