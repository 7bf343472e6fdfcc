package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/studyflow/internal/identity/application/settings"
	identityPersistence "github.com/felixgeelhaar/studyflow/internal/identity/infrastructure/persistence"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/commands"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/queries"
	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/productivity/infrastructure/persistence"
	scheduleCommands "github.com/felixgeelhaar/studyflow/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/studyflow/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/services"
	scheduleSubs "github.com/felixgeelhaar/studyflow/internal/scheduling/application/subscribers"
	sharedApplication "github.com/felixgeelhaar/studyflow/internal/shared/application"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/studyflow/pkg/config"
	"github.com/felixgeelhaar/studyflow/pkg/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	// Database; exactly one of SQLiteDB and DB is set.
	DBDriver database.Driver
	SQLiteDB *sql.DB
	DB       *pgxpool.Pool

	// Redis settings cache, nil when not configured.
	RedisClient *redis.Client

	// Observability
	Metrics *observability.PrometheusMetrics
	Health  *observability.HealthRegistry

	// Repositories
	TaskRepo     task.Repository
	SettingsRepo settings.Repository
	UnitOfWork   sharedApplication.UnitOfWork

	// Events
	EventPublisher     eventbus.Publisher
	LocalBus           *eventbus.LocalBus
	Breaker            *eventbus.BreakerPublisher
	ActivitySubscriber *scheduleSubs.ActivitySubscriber

	// Services
	SettingsService  *settings.Service
	SuggestionEngine *services.SuggestionEngine

	// Task handlers
	CreateTaskHandler     *commands.CreateTaskHandler
	CompleteTaskHandler   *commands.CompleteTaskHandler
	UnscheduleTaskHandler *commands.UnscheduleTaskHandler
	ListTasksHandler      *queries.ListTasksHandler
	GetTaskHandler        *queries.GetTaskHandler

	// Scheduling handlers
	SuggestSlotsHandler       *scheduleQueries.SuggestSlotsHandler
	SuggestBatchHandler       *scheduleQueries.SuggestBatchHandler
	FindAvailableSlotsHandler *scheduleQueries.FindAvailableSlotsHandler
	AcceptSuggestionHandler   *scheduleCommands.AcceptSuggestionHandler
}

// NewContainer opens the configured store and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", cfg.UserID, err)
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		UserID:  userID,
		Metrics: observability.NewPrometheusMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initStorage(ctx); err != nil {
		return nil, err
	}
	c.initSettingsCache(ctx)

	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	c.SettingsService = settings.NewService(c.SettingsRepo)
	c.SuggestionEngine = services.NewSuggestionEngine(services.SuggestionConfig{
		HorizonDays: cfg.SuggestHorizonDays,
		SlotMinutes: cfg.SuggestSlotMinutes,
		MaxResults:  cfg.SuggestMaxResults,
	})

	// Task handlers
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.TaskRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.UnscheduleTaskHandler = commands.NewUnscheduleTaskHandler(c.TaskRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)

	// Scheduling handlers
	c.SuggestSlotsHandler = scheduleQueries.NewSuggestSlotsHandler(c.TaskRepo, c.SettingsService, c.SuggestionEngine, c.Metrics, logger)
	c.SuggestBatchHandler = scheduleQueries.NewSuggestBatchHandler(c.TaskRepo, c.SettingsService, c.SuggestionEngine, c.Metrics, logger)
	c.FindAvailableSlotsHandler = scheduleQueries.NewFindAvailableSlotsHandler(c.TaskRepo, c.SettingsService, c.SuggestionEngine)
	c.AcceptSuggestionHandler = scheduleCommands.NewAcceptSuggestionHandler(c.TaskRepo, c.UnitOfWork, c.EventPublisher, logger)

	logger.Info("container initialized",
		"driver", c.DBDriver,
		"user_id", userID,
		"settings_cache", c.RedisClient != nil,
		"event_bus", c.busKind(),
	)

	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	driver, err := database.SelectDriver(c.Config.DatabaseDriver, c.Config.DatabaseURL)
	if err != nil {
		return err
	}
	c.DBDriver = driver

	switch driver {
	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, c.Config.DatabaseURL, 0)
		if err != nil {
			return err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.DB = pool
		c.TaskRepo = persistence.NewPostgresTaskRepository(pool)
		c.SettingsRepo = identityPersistence.NewPostgresSettingsRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
		c.Health.Register("database", observability.PingChecker("postgres", true, pool.Ping))
		c.Logger.Info("connected to database", "driver", driver)

	default:
		db, err := database.OpenSQLite(ctx, c.Config.SQLitePath)
		if err != nil {
			return err
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.SQLiteDB = db
		c.TaskRepo = persistence.NewSQLiteTaskRepository(db)
		c.SettingsRepo = identityPersistence.NewSQLiteSettingsRepository(db)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
		c.Health.Register("database", observability.PingChecker("sqlite", true, db.PingContext))
		c.Logger.Info("opened database", "driver", driver, "path", c.Config.SQLitePath)
	}
	return nil
}

// initSettingsCache puts Redis in front of the settings store when configured.
// An unreachable Redis is not fatal; settings are then read straight from the store.
func (c *Container) initSettingsCache(ctx context.Context) {
	if c.Config.RedisURL == "" {
		return
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, settings cache disabled", "error", err)
		return
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Redis not available, settings cache disabled", "error", err)
		client.Close()
		return
	}

	c.RedisClient = client
	c.SettingsRepo = identityPersistence.NewCachedSettingsRepository(
		c.SettingsRepo, client, c.Config.SettingsCacheTTL, c.Metrics, c.Logger,
	)
	c.Health.Register("redis", observability.PingChecker("redis", false, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
}

// initPublisher selects RabbitMQ behind a circuit breaker when configured,
// otherwise the in-process bus. Activity metrics are only recorded by the
// in-process subscriber; with RabbitMQ they belong to whoever consumes the exchange.
func (c *Container) initPublisher() error {
	var publisher eventbus.Publisher

	if c.Config.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, "", c.Logger)
		if err != nil {
			if !c.Config.IsDevelopment() {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			c.Logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
		} else {
			c.Breaker = eventbus.NewBreakerPublisher(rabbit, eventbus.BreakerConfig{
				MaxFailures: uint32(max(c.Config.PublisherMaxFailures, 1)),
				OpenTimeout: c.Config.PublisherOpenTimeout,
			}, c.Logger)
			breaker := c.Breaker
			c.Health.Register("rabbitmq", func(ctx context.Context) observability.HealthCheckResult {
				if breaker.State() == "open" {
					return observability.HealthCheckResult{Status: observability.HealthStatusDegraded, Message: "publisher circuit open"}
				}
				return observability.HealthCheckResult{Status: observability.HealthStatusHealthy, Message: "publisher circuit " + breaker.State()}
			})
			publisher = c.Breaker
		}
	}

	if publisher == nil {
		c.LocalBus = eventbus.NewLocalBus(c.Logger)
		c.ActivitySubscriber = scheduleSubs.NewActivitySubscriber(c.Metrics, c.Logger)
		c.LocalBus.Register(c.ActivitySubscriber)
		publisher = c.LocalBus
	}

	c.EventPublisher = eventbus.NewMeteredPublisher(publisher, c.Metrics)
	return nil
}

func (c *Container) busKind() string {
	if c.Breaker != nil {
		return "rabbitmq"
	}
	return "local"
}

// Close releases every resource the container opened.
func (c *Container) Close() error {
	var errs []error

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sqlite: %w", err))
		}
	}

	return errors.Join(errs...)
}
