package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/huddle-api/internal/config"
	"github.com/gravadigital/huddle-api/internal/logger"
)

// Container implements RepositoryContainer interface
type Container struct {
	db              *gorm.DB
	log             *log.Logger
	eventRepo       EventRepository
	participantRepo ParticipantRepository
	voteRepo        VoteRepository
}

// NewContainer connects to PostgreSQL, applies pending migrations and
// returns a container with all repositories initialized
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := container.Health(ctx); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database
// connection. The schema must already be migrated.
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:              db,
		log:             logger.Repository("postgres_container"),
		eventRepo:       NewEventRepository(db),
		participantRepo: NewParticipantRepository(db),
		voteRepo:        NewVoteRepository(db),
	}
}

// Events returns the event repository
func (c *Container) Events() EventRepository {
	return c.eventRepo
}

// Participants returns the participant repository
func (c *Container) Participants() ParticipantRepository {
	return c.participantRepo
}

// Votes returns the vote repository
func (c *Container) Votes() VoteRepository {
	return c.voteRepo
}

// WithinTransaction runs fn inside a database transaction
func (c *Container) WithinTransaction(ctx context.Context, fn func(Repositories) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c.log.Debug("Database transaction started")
		return fn(NewTransactionContainer(tx))
	})
}

// Health pings the database and probes every table the repositories use
func (c *Container) Health(ctx context.Context) error {
	c.log.Debug("Performing container health check...")

	if err := HealthCheck(ctx, c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	metrics := GetDatabaseMetrics(c.db)
	c.log.Debug("Database connection metrics",
		"open_connections", metrics.OpenConnections,
		"in_use_connections", metrics.InUseConnections,
		"idle_connections", metrics.IdleConnections)

	for _, table := range []string{"events", "time_slots", "venues", "participants", "time_slot_votes", "venue_votes"} {
		var count int64
		if err := c.db.WithContext(ctx).Table(table).Limit(1).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
	}

	c.log.Debug("Container health check completed successfully")
	return nil
}

// Close gracefully shuts down the container and closes database connections
func (c *Container) Close() error {
	c.log.Info("Closing repository container...")

	if c.db == nil {
		c.log.Warn("Database connection is nil, nothing to close")
		return nil
	}

	if err := Close(c.db); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	c.eventRepo = nil
	c.participantRepo = nil
	c.voteRepo = nil
	c.db = nil

	c.log.Info("Repository container closed successfully")
	return nil
}

// TransactionContainer binds the repositories to one transaction
type TransactionContainer struct {
	tx              *gorm.DB
	eventRepo       EventRepository
	participantRepo ParticipantRepository
	voteRepo        VoteRepository
}

// NewTransactionContainer creates a new transaction container
func NewTransactionContainer(tx *gorm.DB) *TransactionContainer {
	return &TransactionContainer{
		tx:              tx,
		eventRepo:       NewEventRepository(tx),
		participantRepo: NewParticipantRepository(tx),
		voteRepo:        NewVoteRepository(tx),
	}
}

// Events returns the event repository within transaction
func (tc *TransactionContainer) Events() EventRepository {
	return tc.eventRepo
}

// Participants returns the participant repository within transaction
func (tc *TransactionContainer) Participants() ParticipantRepository {
	return tc.participantRepo
}

// Votes returns the vote repository within transaction
func (tc *TransactionContainer) Votes() VoteRepository {
	return tc.voteRepo
}
