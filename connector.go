package neo4jds

import (
	"context"
	"sync"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
)

// Connector owns the pool-capable connection of one datasource instance.
// Queries never share a session: Connection.Execute opens and releases its own.
type Connector struct {
	UID      string
	mu       sync.RWMutex
	conn     Connection
	settings ConnectionSettings
}

// NewConnector creates the connection handle for the given settings
func NewConnector(ctx context.Context, driver Driver, uid string, settings ConnectionSettings) (*Connector, error) {
	conn, err := driver.Connect(ctx, settings)
	if err != nil {
		return nil, backend.DownstreamError(err)
	}

	return &Connector{
		UID:      uid,
		conn:     conn,
		settings: settings,
	}, nil
}

// Connection returns the instance connection, or ErrorMissingConnection once disposed
func (c *Connector) Connection() (Connection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil {
		return nil, ErrorMissingConnection
	}
	return c.conn, nil
}

// Settings are the connection settings the connector was created with
func (c *Connector) Settings() ConnectionSettings {
	return c.settings
}

// Dispose is called when an existing Neo4jDatasource needs to be replaced
func (c *Connector) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.Close(context.Background()); err != nil {
		backend.Logger.Warn("closing connection failed", "error", err, "uid", c.UID)
	}
	c.conn = nil
}
