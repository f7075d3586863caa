package neo4jds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/instancemgmt"
	"github.com/grafana/grafana-plugin-sdk-go/backend/resource/httpadapter"
	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// Neo4jDatasource must implement required interfaces. This is important to do
// since otherwise we will only get a not implemented error response from plugin in
// runtime.
var (
	_ backend.QueryDataHandler      = (*Neo4jDatasource)(nil)
	_ backend.CheckHealthHandler    = (*Neo4jDatasource)(nil)
	_ backend.CallResourceHandler   = (*Neo4jDatasource)(nil)
	_ instancemgmt.InstanceDisposer = (*Neo4jDatasource)(nil)
)

type Neo4jDatasource struct {
	Completable
	// Interpolator resolves dashboard variables in the query text. TemplateService is used when nil.
	Interpolator Interpolator

	backend.CallResourceHandler
	CustomRoutes map[string]func(http.ResponseWriter, *http.Request)

	id        string
	driver    Driver
	connector *Connector
	metrics   Metrics
}

// NewDatasource initializes the Datasource wrapper and instance manager
func NewDatasource(d Driver) *Neo4jDatasource {
	return &Neo4jDatasource{
		driver: d,
	}
}

// NewDatasource creates a new `Neo4jDatasource` instance for the given settings.
// It is the instance factory handed to the plugin SDK; the receiver only provides the driver
// and the optional collaborators.
func (ds *Neo4jDatasource) NewDatasource(ctx context.Context, settings backend.DataSourceInstanceSettings) (instancemgmt.Instance, error) {
	id := uuid.New().String()
	backend.Logger.Debug("Create Datasource", "datasourceInstance", id, "uid", settings.UID)

	cs, err := LoadSettings(settings)
	if err != nil {
		backend.Logger.Error("loading settings failed", "datasourceInstance", id, "error", err)
		return nil, err
	}

	connector, err := NewConnector(ctx, ds.driver, settings.UID, cs)
	if err != nil {
		return nil, err
	}

	instance := &Neo4jDatasource{
		Completable:  ds.Completable,
		Interpolator: ds.Interpolator,
		CustomRoutes: ds.CustomRoutes,
		id:           id,
		driver:       ds.driver,
		connector:    connector,
		metrics:      NewMetrics(settings),
	}
	if instance.Interpolator == nil {
		instance.Interpolator = TemplateService{}
	}
	if instance.Completable == nil {
		instance.Completable = &schemaCompletable{ds: instance}
	}

	mux := http.NewServeMux()
	if err := instance.registerRoutes(mux); err != nil {
		connector.Dispose()
		return nil, err
	}
	instance.CallResourceHandler = httpadapter.New(mux)

	return instance, nil
}

// Dispose cleans up datasource instance resources.
// Note: Called when testing and saving a datasource
func (ds *Neo4jDatasource) Dispose() {
	backend.Logger.Debug("Dispose Datasource", "datasourceInstance", ds.id)
	if ds.connector != nil {
		ds.connector.Dispose()
	}
}

// QueryData creates the Responses list and executes each query.
// Queries run one after the other, in request order.
func (ds *Neo4jDatasource) QueryData(ctx context.Context, req *backend.QueryDataRequest) (*backend.QueryDataResponse, error) {
	response := backend.NewQueryDataResponse()

	for _, q := range req.Queries {
		frames, err := ds.handleQuery(ctx, q)
		if err != nil {
			backend.Logger.Error("Error in query", "datasourceInstance", ds.id, "refId", q.RefID, "error", err)
			response.Responses[q.RefID] = errorResponse(frames, err)
			continue
		}

		response.Responses[q.RefID] = backend.DataResponse{Frames: frames}
	}

	return response, nil
}

func (ds *Neo4jDatasource) handleQuery(ctx context.Context, req backend.DataQuery) (data.Frames, error) {
	// Convert the backend.DataQuery into a Query object
	q, err := GetQuery(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	frames, err := ds.run(ctx, q)
	ds.metrics.ObserveQuery(start, q.Format, err)

	return frames, err
}

// run interpolates variables and macros, then executes the query on its own session
func (ds *Neo4jDatasource) run(ctx context.Context, q *Query) (data.Frames, error) {
	q, err := ds.prepare(q)
	if err != nil {
		return getErrorFrameFromQuery(q), err
	}

	if ds.connector == nil {
		return getErrorFrameFromQuery(q), ErrorMissingConnection
	}
	conn, err := ds.connector.Connection()
	if err != nil {
		return getErrorFrameFromQuery(q), err
	}

	if timeout := ds.connector.Settings().Timeout; timeout != 0 {
		tctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		ctx = tctx
	}

	backend.Logger.Debug("Execute Cypher Query", "datasourceInstance", ds.id, "refId", q.RefID, "query", q.CypherQuery)
	return query(ctx, conn, q)
}

func (ds *Neo4jDatasource) prepare(q *Query) (*Query, error) {
	interpolator := ds.Interpolator
	if interpolator == nil {
		interpolator = TemplateService{}
	}

	cypher, err := interpolator.Interpolate(q.CypherQuery, q.Variables)
	if err != nil {
		return q, backend.DownstreamError(fmt.Errorf("%s: %w", "Could not interpolate variables", err))
	}
	q = q.WithCypher(cypher)

	cypher, err = Interpolate(ds.driver, q)
	if err != nil {
		return q, backend.DownstreamError(fmt.Errorf("%s: %w", "Could not apply macros", err))
	}

	return q.WithCypher(cypher), nil
}

// CheckHealth verifies connectivity and runs a trivial query
func (ds *Neo4jDatasource) CheckHealth(ctx context.Context, req *backend.CheckHealthRequest) (*backend.CheckHealthResult, error) {
	hc := &HealthChecker{
		Connector: ds.connector,
		Metrics:   ds.metrics,
	}
	return hc.Check(ctx, req)
}
