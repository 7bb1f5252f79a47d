package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/frahmantamala/expenzor/internal"
	expenseDatamodel "github.com/frahmantamala/expenzor/internal/core/datamodel/expense"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/frahmantamala/expenzor/internal/expense"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const sumAllQuery = `SELECT COALESCE(SUM(amount), 0) FROM expenses`

const sumRangeQuery = `SELECT COALESCE(SUM(amount), 0) FROM expenses
	WHERE expense_date >= ? AND expense_date < ?`

const sumByCategoryQuery = `SELECT category, COALESCE(SUM(amount), 0) AS total_amount FROM expenses
	WHERE expense_date >= ? AND expense_date < ?
	GROUP BY category
	ORDER BY category`

// ExpenseRepository keeps entity CRUD on gorm and runs the aggregate
// reads as plain SQL through sqlx over the same connection pool.
type ExpenseRepository struct {
	db *gorm.DB
	sq *sqlx.DB
}

func NewExpenseRepository(db *gorm.DB, sq *sqlx.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db, sq: sq}
}

// NewSQLX wraps gorm's pool for sqlx, picking the bind style from the
// dialect.
func NewSQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	driver := "pgx"
	if db.Dialector.Name() == "sqlite" {
		driver = "sqlite3"
	}
	return sqlx.NewDb(sqlDB, driver), nil
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrExpenseNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (r *ExpenseRepository) GetAll(ctx context.Context) ([]*expenseDatamodel.Expense, error) {
	expenses := make([]*expenseDatamodel.Expense, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) GetByDate(ctx context.Context, day date.Date) ([]*expenseDatamodel.Expense, error) {
	expenses := make([]*expenseDatamodel.Expense, 0)
	err := r.db.WithContext(ctx).
		Where("expense_date >= ? AND expense_date < ?", day.Time, day.Next().Time).
		Order("id ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) GetRecent(ctx context.Context, limit int) ([]*expenseDatamodel.Expense, error) {
	expenses := make([]*expenseDatamodel.Expense, 0, limit)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&expenses).Error
	return expenses, err
}

// Update overwrites the client-writable columns in one statement.
func (r *ExpenseRepository) Update(ctx context.Context, exp *expenseDatamodel.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("id = ?", exp.ID).
		Select("description", "amount", "category", "expense_date", "updated_at").
		Updates(map[string]interface{}{
			"description":  exp.Description,
			"amount":       exp.Amount,
			"category":     exp.Category,
			"expense_date": exp.ExpenseDate,
			"updated_at":   exp.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) SumByMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	start, end := date.MonthRange(year, month)
	var total decimal.Decimal
	if err := r.sq.GetContext(ctx, &total, r.sq.Rebind(sumRangeQuery), start.Time, end.Time); err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses for %04d-%02d: %w", year, int(month), err)
	}
	return total.Round(expense.AmountScale), nil
}

func (r *ExpenseRepository) SumAll(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.sq.GetContext(ctx, &total, sumAllQuery); err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return total.Round(expense.AmountScale), nil
}

func (r *ExpenseRepository) SumByCategoryForMonth(ctx context.Context, year int, month time.Month) ([]*expenseDatamodel.CategoryTotal, error) {
	start, end := date.MonthRange(year, month)
	rows := make([]*expenseDatamodel.CategoryTotal, 0)
	if err := r.sq.SelectContext(ctx, &rows, r.sq.Rebind(sumByCategoryQuery), start.Time, end.Time); err != nil {
		return nil, fmt.Errorf("sum categories for %04d-%02d: %w", year, int(month), err)
	}
	for _, row := range rows {
		row.TotalAmount = row.TotalAmount.Round(expense.AmountScale)
	}
	return rows, nil
}
