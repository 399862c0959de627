package wrds

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/config"
)

// Client wraps the Postgres connection to the WRDS warehouse.
type Client struct {
	db     *sql.DB
	config *config.Warehouse
	log    *zap.Logger
}

// NewClient creates a new WRDS client with the given configuration
func NewClient(ctx context.Context, config *config.Warehouse, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to WRDS")

	db, err := sql.Open("postgres", config.DSN)
	if err != nil {
		log.Error("Failed to open WRDS connection", zap.Error(err))
		return nil, fmt.Errorf("failed to open WRDS connection: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping WRDS", zap.Error(err))
		return nil, fmt.Errorf("failed to ping WRDS: %w", err)
	}

	log.Info("WRDS connection established successfully")

	return &Client{db: db, config: config, log: log}, nil
}

// DB returns the underlying database handle
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the WRDS connection
func (c *Client) Close() error {
	c.log.Info("Closing WRDS connection")
	if err := c.db.Close(); err != nil {
		c.log.Error("Error closing WRDS connection", zap.Error(err))
		return err
	}
	return nil
}
