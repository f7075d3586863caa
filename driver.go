package neo4jds

import (
	"context"
)

// Record is one row returned by the database. Keys and Values have the same length.
type Record struct {
	Keys   []string
	Values []any
}

// ExecutionResult holds the fully materialized records of one query, in the order the database returned them.
type ExecutionResult struct {
	Records []Record
}

// Driver is a simple interface that defines how to connect to a backend graph datasource
type Driver interface {
	// Connect creates the connection handle. It does not need to verify connectivity.
	Connect(ctx context.Context, settings ConnectionSettings) (Connection, error)
	// Macros are applied to the query text after template variables
	Macros() Macros
}

// Connection represents a pool-capable client and is satisfied by the neo4j driver wrapper.
// Every Execute call owns its own session for its whole duration and releases it before returning.
type Connection interface {
	VerifyConnectivity(ctx context.Context) error
	Execute(ctx context.Context, cypher string, params map[string]any) (*ExecutionResult, error)
	Close(ctx context.Context) error
}
