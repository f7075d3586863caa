package neo4jds

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		expected   error
		downstream bool
	}{
		{
			name:       "authentication failure",
			err:        &neo4j.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized", Msg: "The client is unauthorized due to authentication failure."},
			expected:   ErrorConnection,
			downstream: true,
		},
		{
			name:       "syntax error",
			err:        &neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: "Invalid input"},
			expected:   ErrorQuery,
			downstream: true,
		},
		{
			name:       "unknown database",
			err:        &neo4j.Neo4jError{Code: "Neo.ClientError.Database.DatabaseNotFound", Msg: "this database does not exist"},
			expected:   ErrorQuery,
			downstream: true,
		},
		{
			name:       "wrapped authentication failure",
			err:        fmt.Errorf("begin: %w", &neo4j.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized"}),
			expected:   ErrorConnection,
			downstream: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err)
			assert.True(t, errors.Is(err, tt.expected), err.Error())
			assert.Equal(t, tt.downstream, backend.IsDownstreamError(err))
		})
	}

	assert.Nil(t, classifyError(nil))
	assert.Equal(t, context.Canceled, classifyError(context.Canceled))
}

func TestErrorResponse(t *testing.T) {
	res := errorResponse(nil, backend.DownstreamError(ErrorQuery))
	assert.Equal(t, backend.ErrorSourceDownstream, res.ErrorSource)

	res = errorResponse(nil, ErrorJSON)
	assert.Equal(t, backend.ErrorSourcePlugin, res.ErrorSource)
}
