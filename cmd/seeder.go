package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/clock"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/frahmantamala/expenzor/internal/expense"
	expensePostgres "github.com/frahmantamala/expenzor/internal/expense/postgres"
	"github.com/frahmantamala/expenzor/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample expenses spread over the last three months.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		n, err := runSeed(cmd.Context(), cfg, clearData, logger.LoggerWrapper())
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d expenses\n", n)
		return nil
	},
}

// runSeed owns the database handle for one seed run; it is closed on every
// return path.
func runSeed(ctx context.Context, cfg *internal.Config, clear bool, lg *slog.Logger) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return 0, fmt.Errorf("invalid reporting timezone: %w", err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return 0, fmt.Errorf("failed to init db: %w", err)
	}
	defer func() {
		if err := closeDB(db); err != nil {
			lg.Error("Database close error", "error", err)
		}
	}()

	if clear {
		if err := clearExpenses(db); err != nil {
			return 0, fmt.Errorf("failed to clear expenses: %w", err)
		}
		lg.Info("Cleared existing expenses")
	}

	sq, err := expensePostgres.NewSQLX(db)
	if err != nil {
		return 0, fmt.Errorf("failed to init sqlx: %w", err)
	}
	clk := clock.NewSystem(loc)
	service := expense.NewService(expensePostgres.NewExpenseRepository(db, sq), clk, lg)

	n, err := seedExpenses(ctx, service, clk)
	if err != nil {
		return n, fmt.Errorf("failed to seed expenses: %w", err)
	}
	return n, nil
}

type sampleExpense struct {
	monthsAgo   int
	day         int
	description string
	amount      string
	category    string
}

var sampleExpenses = []sampleExpense{
	{2, 3, "Monthly rent", "1200.00", "Housing"},
	{2, 9, "Weekly groceries", "86.40", "Food"},
	{2, 21, "Train pass", "45.00", "Transport"},
	{1, 3, "Monthly rent", "1200.00", "Housing"},
	{1, 12, "Dinner with friends", "64.25", "Food"},
	{1, 18, "Electricity bill", "72.10", "Utilities"},
	{1, 27, "Concert tickets", "110.00", "Entertainment"},
	{0, 1, "Monthly rent", "1200.00", "Housing"},
	{0, 2, "Coffee beans", "18.99", "Food"},
	{0, 4, "Bus fare", "2.75", "Transport"},
}

// seedExpenses goes through the service so seeded rows obey the same
// validation and timestamps as API writes.
func seedExpenses(ctx context.Context, service *expense.Service, clk clock.Clock) (int, error) {
	now := clk.Now()
	created := 0
	for _, s := range sampleExpenses {
		year, month := date.MonthsBefore(now, s.monthsAgo)
		day := date.New(year, month, s.day)
		if day.After(now) {
			continue
		}
		amount := decimal.RequireFromString(s.amount)
		req := expense.ExpenseRequest{
			Description: s.description,
			Amount:      &amount,
			Category:    s.category,
			ExpenseDate: &day,
		}
		if _, err := service.CreateExpense(ctx, req); err != nil {
			return created, fmt.Errorf("seed %q: %w", s.description, err)
		}
		created++
	}
	return created, nil
}

func clearExpenses(db *gorm.DB) error {
	return db.Exec("DELETE FROM expenses").Error
}
