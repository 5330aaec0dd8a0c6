// Package app wires the timetable and generation bounded contexts into a
// single Container: one database connection, the seven read-model
// repositories the Weekly Planner depends on, the outbox relay, and the
// Job Runner that drives one generation run at a time per data scope.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/schedgen/internal/generation/application"
	"github.com/felixgeelhaar/schedgen/internal/generation/infrastructure/resilience"
	sharedApplication "github.com/felixgeelhaar/schedgen/internal/shared/application"
	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/schedgen/internal/timetable/application/commands"
	timetableDomain "github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/felixgeelhaar/schedgen/pkg/config"
	"github.com/felixgeelhaar/schedgen/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds every long-lived dependency the HTTP adapter, the CLI,
// and the worker entrypoint share.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	DBConn   database.Connection
	DBDriver database.Driver

	TeacherRepo      timetableDomain.TeacherRepository
	ClassGroupRepo   timetableDomain.ClassGroupRepository
	RoomRepo         timetableDomain.RoomRepository
	CourseRepo       timetableDomain.CourseRepository
	ClosingPeriodRepo timetableDomain.ClosingPeriodRepository
	SessionRepo      timetableDomain.SessionRepository
	ScheduleLogRepo  timetableDomain.ScheduleLogRepository

	OutboxRepo      outbox.Repository
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	UnitOfWork sharedApplication.UnitOfWork

	RedisClient *redis.Client
	Locker      resilience.Locker

	Metrics *observability.InMemoryMetrics

	GenerateSchedule *commands.GenerateSchedule
	JobRunner        *application.JobRunner
}

// NewContainer builds a production container: PostgreSQL, RabbitMQ (falling
// back to a noop publisher if unreachable), and a Redis-backed
// scope lock (falling back to an in-process lock if no REDIS_URL resolves).
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:   database.DriverPostgres,
		URL:      cfg.DatabaseURL,
		MaxConns: 10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger, DBConn: conn, DBDriver: database.DriverPostgres}

	factory := NewRepositoryFactory(conn)
	if err := c.wireRepositories(factory); err != nil {
		conn.Close()
		return nil, err
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, falling back to noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	} else {
		c.EventPublisher = publisher
	}

	if cfg.OutboxProcessorEnabled {
		c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxRetries:   cfg.OutboxMaxRetries,
		}, logger)
	}

	c.RedisClient, c.Locker = newLocker(cfg, logger)

	c.wireGeneration(cfg, logger)

	logger.Info("container initialized", "driver", "postgres")
	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite: no
// PostgreSQL, Redis, or RabbitMQ required.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := initSQLiteConnection(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger, DBConn: conn, DBDriver: database.DriverSQLite}

	factory := NewRepositoryFactory(conn)
	if err := c.wireRepositories(factory); err != nil {
		conn.Close()
		return nil, err
	}

	c.EventPublisher = eventbus.NewNoopPublisher(logger)
	if cfg.OutboxProcessorEnabled {
		c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxRetries:   cfg.OutboxMaxRetries,
		}, logger)
	}

	c.Locker = resilience.NewInProcessLocker()

	c.wireGeneration(cfg, logger)

	logger.Info("local mode container initialized", "database", cfg.SQLitePath, "driver", "sqlite")
	return c, nil
}

func (c *Container) wireRepositories(factory *RepositoryFactory) error {
	var err error
	if c.TeacherRepo, err = factory.TeacherRepository(); err != nil {
		return fmt.Errorf("failed to create teacher repository: %w", err)
	}
	if c.ClassGroupRepo, err = factory.ClassGroupRepository(); err != nil {
		return fmt.Errorf("failed to create class group repository: %w", err)
	}
	if c.RoomRepo, err = factory.RoomRepository(); err != nil {
		return fmt.Errorf("failed to create room repository: %w", err)
	}
	if c.CourseRepo, err = factory.CourseRepository(); err != nil {
		return fmt.Errorf("failed to create course repository: %w", err)
	}
	if c.ClosingPeriodRepo, err = factory.ClosingPeriodRepository(); err != nil {
		return fmt.Errorf("failed to create closing period repository: %w", err)
	}
	if c.SessionRepo, err = factory.SessionRepository(); err != nil {
		return fmt.Errorf("failed to create session repository: %w", err)
	}
	if c.ScheduleLogRepo, err = factory.ScheduleLogRepository(); err != nil {
		return fmt.Errorf("failed to create schedule log repository: %w", err)
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return fmt.Errorf("failed to create outbox repository: %w", err)
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		return fmt.Errorf("failed to create unit of work: %w", err)
	}
	return nil
}

// wireGeneration assembles the single GenerateSchedule use case and wraps it
// with the scope lock / circuit breaker / soft timeout before handing it to
// the Job Runner.
func (c *Container) wireGeneration(cfg *config.Config, logger *slog.Logger) {
	c.GenerateSchedule = commands.NewGenerateSchedule(
		c.CourseRepo,
		c.TeacherRepo,
		c.ClassGroupRepo,
		c.RoomRepo,
		c.ClosingPeriodRepo,
		c.SessionRepo,
		c.ScheduleLogRepo,
		c.UnitOfWork,
		c.OutboxRepo,
	)

	resilientPlanner := resilience.NewResilientPlanner(c.GenerateSchedule, c.Locker, resilience.Config{
		SoftTimeout: cfg.JobSoftTimeout,
		MaxFailures: cfg.JobBreakerMaxFailures,
		OpenTimeout: cfg.JobBreakerOpenTimeout,
	})

	c.Metrics = observability.NewInMemoryMetrics()
	c.JobRunner = application.NewJobRunner(resilientPlanner, logger).WithMetrics(c.Metrics)
}

// newLocker resolves a Redis-backed scope lock when REDIS_URL parses,
// falling back to an in-process lock otherwise (single-instance/dev mode).
func newLocker(cfg *config.Config, logger *slog.Logger) (*redis.Client, resilience.Locker) {
	if cfg.RedisURL == "" {
		return nil, resilience.NewInProcessLocker()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, falling back to in-process scope lock", "error", err)
		return nil, resilience.NewInProcessLocker()
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, falling back to in-process scope lock", "error", err)
		_ = client.Close()
		return nil, resilience.NewInProcessLocker()
	}
	return client, resilience.NewRedisLocker(client, cfg.JobSoftTimeout)
}

// Close releases every long-lived resource the container opened.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		_ = c.EventPublisher.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DBConn != nil {
		_ = c.DBConn.Close()
	}
}

// initSQLiteConnection opens the local SQLite database and applies every
// pending migration. Unlike PostgreSQL (migrated out-of-band by an operator,
// see migrations/postgres/0001_init.sql), SQLite auto-migrates so the local
// zero-config mode never requires a separate bootstrap step.
func initSQLiteConnection(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite connection: %w", err)
	}

	dbConn, ok := conn.(interface{ DB() *sql.DB })
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("expected SQLite connection exposing DB(), got %T", conn)
	}

	logger.Info("running SQLite migrations")
	if err := migrations.RunSQLiteMigrations(ctx, dbConn.DB()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("SQLite migrations completed successfully")

	return conn, nil
}
