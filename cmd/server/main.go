package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hrportal/expense-service/internal/application/service"
	"github.com/hrportal/expense-service/internal/config"
	"github.com/hrportal/expense-service/internal/infrastructure/persistence/repository"
	"github.com/hrportal/expense-service/internal/infrastructure/persistence/sqlite"
	"github.com/hrportal/expense-service/internal/infrastructure/storage"
	httpserver "github.com/hrportal/expense-service/internal/interfaces/http"
	"github.com/hrportal/expense-service/internal/statement"
	"github.com/hrportal/expense-service/migrations"
	"github.com/hrportal/expense-service/pkg/database"
	"github.com/hrportal/expense-service/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// .env values feed the env overrides in config.Load
	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting expense reimbursement service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(migrations.FS, "."); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Transaction manager and repositories
	txDB := sqlite.NewDB(db.DB, logger)
	expenseRepo := repository.NewExpenseRepository(db.DB, logger)
	employeeRepo := repository.NewEmployeeRepository(db.DB, logger)

	// Collaborators
	receiptStore := storage.NewLocalReceiptStore(cfg.Storage.ReceiptDir, cfg.Storage.ReceiptBaseURL, logger)
	statementWriter := statement.NewExcelWriter(cfg.Statement.OutputDir, logger)

	serviceLogger := utils.NewSugarAdapter(logger)

	// Application services
	claimService := service.NewClaimService(expenseRepo, employeeRepo, txDB, serviceLogger)
	approvalService := service.NewApprovalService(expenseRepo, serviceLogger)
	paymentService := service.NewPaymentService(expenseRepo, employeeRepo, txDB, statementWriter, serviceLogger)
	queryService := service.NewQueryService(expenseRepo, employeeRepo, serviceLogger)
	employeeService := service.NewEmployeeService(employeeRepo, serviceLogger)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		claimService,
		approvalService,
		paymentService,
		queryService,
		employeeService,
		receiptStore,
		serviceLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
