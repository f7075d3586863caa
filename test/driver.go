package test

import (
	"context"

	"github.com/grafana/neo4jds"
)

// NewDriver creates a new in-memory datasource driver and the handler recording its calls
func NewDriver(data Data, opts DriverOpts) (*Driver, *BoltHandler) {
	handler := &BoltHandler{
		Data: data,
		Opts: opts,
	}
	return &Driver{handler: handler}, handler
}

// Driver implements neo4jds.Driver on top of a BoltHandler
type Driver struct {
	handler *BoltHandler
}

// Connect - connects to the test database
func (d *Driver) Connect(_ context.Context, settings neo4jds.ConnectionSettings) (neo4jds.Connection, error) {
	d.handler.State.ConnectAttempts++
	d.handler.Settings = settings
	if d.handler.Opts.ConnectError != nil {
		return nil, d.handler.Opts.ConnectError
	}
	return d.handler, nil
}

// Macros - Macros for the test database
func (d *Driver) Macros() neo4jds.Macros {
	return neo4jds.DefaultMacros
}

// BoltHandler answers queries from Data
type BoltHandler struct {
	Data     Data
	Opts     DriverOpts
	State    State
	Settings neo4jds.ConnectionSettings
}

// VerifyConnectivity represents a database ping
func (h *BoltHandler) VerifyConnectivity(ctx context.Context) error {
	h.State.VerifyAttempts++
	return h.Opts.VerifyError
}

// Execute returns the records registered for cypher, or no records at all
func (h *BoltHandler) Execute(ctx context.Context, cypher string, _ map[string]any) (*neo4jds.ExecutionResult, error) {
	h.State.QueryAttempts++
	h.State.Queries = append(h.State.Queries, cypher)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.Opts.QueryError != nil {
		return nil, h.Opts.QueryError
	}
	return &neo4jds.ExecutionResult{Records: h.Data.Results[cypher]}, nil
}

// Close implements the database Close interface
func (h *BoltHandler) Close(_ context.Context) error {
	h.State.CloseCalls++
	return h.Opts.CloseError
}

// Data - the records returned per cypher query
type Data struct {
	Results map[string][]neo4jds.Record
}

// DriverOpts the optional settings
type DriverOpts struct {
	ConnectError error
	VerifyError  error
	QueryError   error
	CloseError   error
}

// State is the state of the connections/queries
type State struct {
	ConnectAttempts int
	VerifyAttempts  int
	QueryAttempts   int
	CloseCalls      int
	Queries         []string
}
