package neo4jds

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/data"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"
)

var (
	// ErrorJSON is returned when json.Unmarshal fails
	ErrorJSON = errors.New("error unmarshaling query JSON the Query Model")
	// ErrorSettings is returned when the datasource settings can not be decoded
	ErrorSettings = errors.New("can not deserialize DataSource settings")
	// ErrorMissingURL is returned when the datasource settings have no bolt url
	ErrorMissingURL = errors.New("missing neo4j url")
	// ErrorConnection is returned when the database is unreachable or rejects the credentials
	ErrorConnection = errors.New("error connecting to the database")
	// ErrorQuery is returned when the query could not complete / execute
	ErrorQuery = errors.New("error querying the database")
	// ErrorCleanup is returned when a session or transaction could not be released
	ErrorCleanup = errors.New("error releasing database resources")
	// ErrorMissingConnection ...
	ErrorMissingConnection = errors.New("unable to get db connection")
)

// securityCodePrefix marks authentication and authorization failures reported by the server.
const securityCodePrefix = "Neo.ClientError.Security."

// classifyError maps a driver failure onto ErrorConnection or ErrorQuery.
// Cancellations are returned as they are so callers can still match context.Canceled.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}

	errType := ErrorQuery
	if isConnectionError(err) {
		errType = ErrorConnection
	}

	return backend.DownstreamError(fmt.Errorf("%w: %w", errType, err))
}

func isConnectionError(err error) bool {
	if neo4j.IsConnectivityError(err) {
		return true
	}

	var neoErr *neo4j.Neo4jError
	if stderrors.As(err, &neoErr) {
		return strings.HasPrefix(neoErr.Code, securityCodePrefix)
	}

	return false
}

// ErrorSource reports whether err originated outside the plugin.
func ErrorSource(err error) backend.ErrorSource {
	if backend.IsDownstreamError(err) {
		return backend.ErrorSourceDownstream
	}
	return backend.ErrorSourcePlugin
}

func errorResponse(frames data.Frames, err error) backend.DataResponse {
	return backend.DataResponse{
		Frames:      frames,
		Error:       err,
		ErrorSource: ErrorSource(err),
	}
}
