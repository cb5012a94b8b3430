package kurrentdb

import (
	"context"
	"fmt"
	"time"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
)

// Client wraps the EventStoreDB client with connection lifecycle helpers.
type Client struct {
	db *esdb.Client
}

// NewClient dials KurrentDB using cfg.
func NewClient(cfg Config) (*Client, error) {
	settings, err := esdb.ParseConnectionString(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("kurrentdb: parse connection string: %w", err)
	}

	db, err := esdb.NewClient(settings)
	if err != nil {
		return nil, fmt.Errorf("kurrentdb: new client: %w", err)
	}

	return &Client{db: db}, nil
}

// DB returns the underlying EventStoreDB client.
func (c *Client) DB() *esdb.Client { return c.db }

// Close closes the connection.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health verifies the connection is alive by reading the $streams system
// stream.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stream, err := c.db.ReadStream(ctx, "$streams", esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1)
	if err != nil {
		return fmt.Errorf("kurrentdb: health check: %w", err)
	}
	defer stream.Close()

	return nil
}
