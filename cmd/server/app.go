package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/smartask/api/internal/config"
	"github.com/smartask/api/internal/platform/postgres"
	"github.com/smartask/api/internal/platform/rabbitmq"
	"github.com/smartask/api/internal/service"
)

// application holds the wired components of the orchestration service.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	db       *sql.DB
	amqpConn *amqp.Connection
	amqpChan *amqp.Channel

	schedules *service.ScheduleService
	waiter    *service.CompletionWaiter

	jobConsumer    *rabbitmq.Consumer
	statusConsumer *rabbitmq.Consumer
	orphanMonitor  *service.OrphanMonitor
}

// newApplication wires the full dependency graph: database, broker
// topology, stores, validator, producer, consumers, and the orphan
// monitor.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("database migrations applied")

	conn, err := amqp.Dial(cfg.Broker.URL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to open broker channel: %w", err)
	}

	if err := rabbitmq.DeclareTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		_ = db.Close()
		return nil, err
	}
	logger.Info("broker topology declared")

	statuses := postgres.NewTaskStatusStore(db)
	employees := postgres.NewEmployeeStore(db)
	vacations := postgres.NewVacationTemplateStore(db)
	references := postgres.NewReferenceTemplateStore(db)
	ruleSets := postgres.NewRuleSetStore(db)

	validator := service.NewRequestValidator(statuses, employees, vacations, references)
	publisher := rabbitmq.NewTaskPublisher(ch, logger)
	cleanup := postgres.NewScheduleCascade(db)

	schedules := service.NewScheduleService(validator, statuses, ruleSets, publisher, cleanup, logger)
	waiter := service.NewCompletionWaiter(statuses, cfg.Tasks.WaitPollInterval, logger)

	jobHandler := service.NewJobReceiptHandler(statuses, logger)
	statusHandler := service.NewStatusUpdateHandler(statuses, logger)

	jobConsumer := rabbitmq.NewConsumer(ch, rabbitmq.ConsumerConfig{
		Queue:    rabbitmq.TaskQueue,
		Workers:  cfg.Broker.ConsumerCount,
		Prefetch: cfg.Broker.Prefetch,
	}, jobHandler.Handle, logger)

	statusConsumer := rabbitmq.NewConsumer(ch, rabbitmq.ConsumerConfig{
		Queue:    rabbitmq.StatusQueue,
		Workers:  cfg.Broker.ConsumerCount,
		Prefetch: cfg.Broker.Prefetch,
	}, statusHandler.Handle, logger)

	orphanMonitor := service.NewOrphanMonitor(statuses, service.OrphanMonitorConfig{
		GracePeriod:   cfg.Tasks.OrphanGracePeriod,
		CheckInterval: cfg.Tasks.OrphanCheckInterval,
	}, logger)

	return &application{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		amqpConn:       conn,
		amqpChan:       ch,
		schedules:      schedules,
		waiter:         waiter,
		jobConsumer:    jobConsumer,
		statusConsumer: statusConsumer,
		orphanMonitor:  orphanMonitor,
	}, nil
}

// Start launches the consumers and the orphan monitor.
func (a *application) Start() error {
	if err := a.jobConsumer.Start(); err != nil {
		return fmt.Errorf("failed to start job consumer: %w", err)
	}
	if err := a.statusConsumer.Start(); err != nil {
		return fmt.Errorf("failed to start status consumer: %w", err)
	}
	a.orphanMonitor.Start()

	a.logger.Info("orchestration service started")
	return nil
}

// Shutdown stops the consumers and monitor and releases broker and
// database resources.
func (a *application) Shutdown() {
	a.orphanMonitor.Stop()
	a.statusConsumer.Stop()
	a.jobConsumer.Stop()

	if err := a.amqpChan.Close(); err != nil {
		a.logger.Error("failed to close broker channel", "error", err)
	}
	if err := a.amqpConn.Close(); err != nil {
		a.logger.Error("failed to close broker connection", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}

	a.logger.Info("orchestration service stopped")
}

// setupDatabase establishes the database connection and configures the
// connection pool.
func setupDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}
