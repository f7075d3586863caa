package neo4jds

import (
	"context"
	"fmt"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jlog "github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
)

const userAgent = "grafana-neo4j-datasource"

// Neo4jDriver connects to Neo4j over bolt using the official driver
type Neo4jDriver struct {
	// Configure, when set, is applied to the driver configuration after the plugin defaults
	Configure func(*neo4j.Config)
}

// NewNeo4jDriver ...
func NewNeo4jDriver() *Neo4jDriver {
	return &Neo4jDriver{}
}

// authToken selects basic authentication only when both username and password are set.
func authToken(settings ConnectionSettings) neo4j.AuthToken {
	if settings.HasCredentials() {
		return neo4j.BasicAuth(settings.Username, settings.Password, "")
	}
	return neo4j.NoAuth()
}

// Connect creates the driver. The driver is lazy, the first network round trip happens on the first session.
func (d *Neo4jDriver) Connect(_ context.Context, settings ConnectionSettings) (Connection, error) {
	driver, err := neo4j.NewDriverWithContext(settings.URL, authToken(settings), func(c *neo4j.Config) {
		c.UserAgent = userAgent
		c.Log = driverLogger{}
		if d.Configure != nil {
			d.Configure(c)
		}
	})
	if err != nil {
		return nil, backend.DownstreamError(fmt.Errorf("%w: %w", ErrorConnection, err))
	}

	return NewBoltConnection(driver, settings.Database), nil
}

// Macros returns the default cypher macros
func (d *Neo4jDriver) Macros() Macros {
	return DefaultMacros
}

type boltConnection struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewBoltConnection wraps a neo4j driver. Every Execute opens a read session on database.
func NewBoltConnection(driver neo4j.DriverWithContext, database string) Connection {
	return &boltConnection{
		driver:   driver,
		database: database,
	}
}

func (c *boltConnection) VerifyConnectivity(ctx context.Context) error {
	return classifyError(c.driver.VerifyConnectivity(ctx))
}

// Execute runs cypher as a single read transaction and collects every record.
// The transaction and the session are released on every path; release failures are logged only.
func (c *boltConnection) Execute(ctx context.Context, cypher string, params map[string]any) (*ExecutionResult, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer release(ctx, "session", session.Close)

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return nil, classifyError(err)
	}
	defer release(ctx, "transaction", tx.Close)

	result, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, classifyError(err)
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, classifyError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyError(err)
	}

	res := &ExecutionResult{Records: make([]Record, 0, len(records))}
	for _, r := range records {
		res.Records = append(res.Records, Record{Keys: r.Keys, Values: r.Values})
	}
	return res, nil
}

func (c *boltConnection) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// release must still run when the query context is already canceled.
func release(ctx context.Context, name string, closeFn func(context.Context) error) {
	if err := closeFn(context.WithoutCancel(ctx)); err != nil {
		backend.Logger.Warn(fmt.Sprintf("closing %s failed", name), "error", fmt.Errorf("%w: %w", ErrorCleanup, err))
	}
}

// driverLogger forwards the driver's own logging to the plugin logger.
type driverLogger struct{}

var _ neo4jlog.Logger = driverLogger{}

func (driverLogger) Error(name string, id string, err error) {
	backend.Logger.Error("neo4j driver error", "component", name, "id", id, "error", err)
}

func (driverLogger) Warnf(name string, id string, msg string, args ...any) {
	backend.Logger.Warn(fmt.Sprintf(msg, args...), "component", name, "id", id)
}

func (driverLogger) Infof(name string, id string, msg string, args ...any) {
	backend.Logger.Debug(fmt.Sprintf(msg, args...), "component", name, "id", id)
}

func (driverLogger) Debugf(name string, id string, msg string, args ...any) {
	backend.Logger.Debug(fmt.Sprintf(msg, args...), "component", name, "id", id)
}
