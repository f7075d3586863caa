package neo4jds

import (
	"context"
	"errors"
	"testing"

	"github.com/grafana/neo4jds/mock"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthToken(t *testing.T) {
	tests := []struct {
		name     string
		settings ConnectionSettings
		scheme   string
	}{
		{name: "username and password", settings: ConnectionSettings{Username: "neo4j", Password: "Password123"}, scheme: "basic"},
		{name: "username only", settings: ConnectionSettings{Username: "neo4j"}, scheme: "none"},
		{name: "password only", settings: ConnectionSettings{Password: "Password123"}, scheme: "none"},
		{name: "no credentials", settings: ConnectionSettings{}, scheme: "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := authToken(tt.settings)
			assert.Equal(t, tt.scheme, token.Tokens["scheme"])
			if tt.scheme == "basic" {
				assert.Equal(t, tt.settings.Username, token.Tokens["principal"])
				assert.Equal(t, tt.settings.Password, token.Tokens["credentials"])
			}
		})
	}
}

func TestNeo4jDriver_ConnectInvalidURL(t *testing.T) {
	_, err := NewNeo4jDriver().Connect(context.Background(), ConnectionSettings{URL: "mysql://localhost:3306"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrorConnection))
}

func newMockConnection(tx *mock.Transaction) (Connection, *mock.Driver) {
	session := &mock.Session{Tx: tx}
	driver := &mock.Driver{Session: session}
	return NewBoltConnection(driver, "movies"), driver
}

func TestBoltConnection_Execute(t *testing.T) {
	keys := []string{"name"}

	t.Run("it should collect every record in a read session", func(t *testing.T) {
		tx := &mock.Transaction{Records: []*neo4j.Record{
			mock.Record(keys, "Alice"),
			mock.Record(keys, "Bob"),
		}}
		conn, driver := newMockConnection(tx)

		res, err := conn.Execute(context.Background(), "MATCH (n) RETURN n.name AS name LIMIT 2", nil)
		require.NoError(t, err)
		assert.Equal(t, []Record{
			{Keys: keys, Values: []any{"Alice"}},
			{Keys: keys, Values: []any{"Bob"}},
		}, res.Records)

		require.Len(t, driver.SessionConfigs, 1)
		assert.Equal(t, neo4j.AccessModeRead, driver.SessionConfigs[0].AccessMode)
		assert.Equal(t, "movies", driver.SessionConfigs[0].DatabaseName)
		assert.Equal(t, []string{"MATCH (n) RETURN n.name AS name LIMIT 2"}, tx.Queries)
		assert.True(t, tx.Committed)
		assert.Equal(t, 1, tx.CloseCalls)
		assert.Equal(t, 1, driver.Session.CloseCalls)
	})

	t.Run("no records is not an error", func(t *testing.T) {
		conn, driver := newMockConnection(&mock.Transaction{})

		res, err := conn.Execute(context.Background(), "MATCH (n:NoSuchLabel) RETURN n", nil)
		require.NoError(t, err)
		assert.Empty(t, res.Records)
		assert.Equal(t, 1, driver.Session.CloseCalls)
	})

	t.Run("a query error is returned and the session is still released", func(t *testing.T) {
		tx := &mock.Transaction{RunError: &neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: "Invalid input"}}
		conn, driver := newMockConnection(tx)

		_, err := conn.Execute(context.Background(), "MATC (n) RETURN n", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrorQuery))
		assert.False(t, tx.Committed)
		assert.Equal(t, 1, tx.CloseCalls)
		assert.Equal(t, 1, driver.Session.CloseCalls)
	})

	t.Run("a collect error is returned", func(t *testing.T) {
		tx := &mock.Transaction{CollectError: errors.New("stream reset")}
		conn, driver := newMockConnection(tx)

		_, err := conn.Execute(context.Background(), "MATCH (n) RETURN n", nil)
		assert.True(t, errors.Is(err, ErrorQuery))
		assert.Equal(t, 1, tx.CloseCalls)
		assert.Equal(t, 1, driver.Session.CloseCalls)
	})

	t.Run("an authentication failure is a connection error", func(t *testing.T) {
		session := &mock.Session{BeginError: &neo4j.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized", Msg: "unauthorized due to authentication failure"}}
		driver := &mock.Driver{Session: session}
		conn := NewBoltConnection(driver, "")

		_, err := conn.Execute(context.Background(), "MATCH (n) RETURN n", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrorConnection))
		assert.Contains(t, err.Error(), "unauthorized due to authentication failure")
		assert.Equal(t, 1, session.CloseCalls)
	})

	t.Run("a close failure does not replace the query error", func(t *testing.T) {
		tx := &mock.Transaction{
			RunError:   &neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: "Invalid input"},
			CloseError: errors.New("tx close failed"),
		}
		conn, driver := newMockConnection(tx)
		driver.Session.CloseError = errors.New("session close failed")

		_, err := conn.Execute(context.Background(), "MATC (n) RETURN n", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid input")
		assert.NotContains(t, err.Error(), "close failed")
	})

	t.Run("a close failure after a successful query keeps the result", func(t *testing.T) {
		tx := &mock.Transaction{Records: []*neo4j.Record{mock.Record(keys, "Alice")}}
		conn, driver := newMockConnection(tx)
		driver.Session.CloseError = errors.New("session close failed")

		res, err := conn.Execute(context.Background(), "MATCH (n) RETURN n.name AS name", nil)
		require.NoError(t, err)
		assert.Len(t, res.Records, 1)
		assert.Equal(t, 1, driver.Session.CloseCalls)
	})

	t.Run("sessions are released even when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tx := &mock.Transaction{RunError: context.Canceled}
		conn, driver := newMockConnection(tx)

		_, err := conn.Execute(ctx, "MATCH (n) RETURN n", nil)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, tx.CloseCalls)
		assert.Equal(t, 1, driver.Session.CloseCalls)
	})
}

func TestBoltConnection_VerifyConnectivity(t *testing.T) {
	driver := &mock.Driver{VerifyError: &neo4j.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized"}}
	conn := NewBoltConnection(driver, "")

	err := conn.VerifyConnectivity(context.Background())
	assert.True(t, errors.Is(err, ErrorConnection))

	require.NoError(t, conn.Close(context.Background()))
	assert.Equal(t, 1, driver.CloseCalls)
}
