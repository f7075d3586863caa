package mock

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Driver is a neo4j.DriverWithContext that hands out a single fake Session.
// Methods the plugin does not call are left to the embedded nil interface.
type Driver struct {
	neo4j.DriverWithContext
	Session     *Session
	VerifyError error

	SessionConfigs []neo4j.SessionConfig
	CloseCalls     int
}

func (d *Driver) NewSession(_ context.Context, config neo4j.SessionConfig) neo4j.SessionWithContext {
	d.SessionConfigs = append(d.SessionConfigs, config)
	return d.Session
}

func (d *Driver) VerifyConnectivity(_ context.Context) error {
	return d.VerifyError
}

func (d *Driver) Close(_ context.Context) error {
	d.CloseCalls++
	return nil
}

// Session ...
type Session struct {
	neo4j.SessionWithContext
	Tx         *Transaction
	BeginError error
	CloseError error

	CloseCalls int
}

func (s *Session) BeginTransaction(_ context.Context, _ ...func(*neo4j.TransactionConfig)) (neo4j.ExplicitTransaction, error) {
	if s.BeginError != nil {
		return nil, s.BeginError
	}
	return s.Tx, nil
}

func (s *Session) Close(_ context.Context) error {
	s.CloseCalls++
	return s.CloseError
}

// Transaction returns Records from Run unless one of the errors is set
type Transaction struct {
	neo4j.ExplicitTransaction
	Records      []*neo4j.Record
	RunError     error
	CollectError error
	CommitError  error
	CloseError   error

	Queries    []string
	Committed  bool
	CloseCalls int
}

func (t *Transaction) Run(_ context.Context, cypher string, _ map[string]any) (neo4j.ResultWithContext, error) {
	t.Queries = append(t.Queries, cypher)
	if t.RunError != nil {
		return nil, t.RunError
	}
	return &Result{records: t.Records, err: t.CollectError}, nil
}

func (t *Transaction) Commit(_ context.Context) error {
	if t.CommitError != nil {
		return t.CommitError
	}
	t.Committed = true
	return nil
}

func (t *Transaction) Close(_ context.Context) error {
	t.CloseCalls++
	return t.CloseError
}

// Result ...
type Result struct {
	neo4j.ResultWithContext
	records []*neo4j.Record
	err     error
}

func (r *Result) Collect(_ context.Context) ([]*neo4j.Record, error) {
	return r.records, r.err
}

// Record builds a record with values in key order
func Record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}
