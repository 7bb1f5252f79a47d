package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/expenzor/api"
	"github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/clock"
	"github.com/frahmantamala/expenzor/internal/expense"
	expensePostgres "github.com/frahmantamala/expenzor/internal/expense/postgres"
	"github.com/frahmantamala/expenzor/internal/transport"
	"github.com/frahmantamala/expenzor/internal/transport/rest"
	"github.com/frahmantamala/expenzor/internal/transport/swagger"
	"github.com/frahmantamala/expenzor/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return startHTTPServer(ctx)
	},
}

type Dependencies struct {
	Config         *internal.Config
	GormDB         *gorm.DB
	DB             *sqlx.DB
	Router         *chi.Mux
	HealthChecker  *rest.HealthHandler
	ExpenseHandler *expense.Handler
	Logger         *slog.Logger
}

func startHTTPServer(ctx context.Context) error {
	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		return err
	}
	defer func() {
		if err := closeDB(deps.GormDB); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	}()

	setupRoutes(deps)

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.ShutdownTimeout))
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Logger.Error("Server stopped with error", "error", err)
		return err
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, rest.RouterConfig{
		AllowedOrigins: deps.Config.Server.Origins(),
		OpenAPISpec:    api.OpenAPISpec,
	}, deps.HealthChecker, deps.ExpenseHandler, deps.Logger)
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	if _, err := swagger.Load(ctx, api.OpenAPISpec); err != nil {
		return nil, err
	}

	loc, err := config.Reporting.Location()
	if err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sq, err := expensePostgres.NewSQLX(db)
	if err != nil {
		_ = closeDB(db)
		return nil, err
	}

	clk := clock.NewSystem(loc)
	repo := expensePostgres.NewExpenseRepository(db, sq)
	expenseHandler := expense.NewHandler(
		transport.NewBaseHandler(lg),
		expense.NewService(repo, clk, lg),
		expense.NewReportService(repo, clk, loc, lg),
	)

	return &Dependencies{
		Config:         config,
		Logger:         lg,
		GormDB:         db,
		DB:             sq,
		Router:         chi.NewRouter(),
		HealthChecker:  rest.NewHealthHandler(sq.DB, config.Database.Driver),
		ExpenseHandler: expenseHandler,
	}, nil
}
