package neo4jds

import (
	"context"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
)

// HealthQuery returns at most one arbitrary node
const HealthQuery = "MATCH (n) RETURN n LIMIT 1"

type HealthChecker struct {
	Connector *Connector
	Metrics   Metrics
}

// Check verifies connectivity and runs HealthQuery. Failures are reported in the result, not as an error.
func (hc *HealthChecker) Check(ctx context.Context, req *backend.CheckHealthRequest) (*backend.CheckHealthResult, error) {
	start := time.Now()

	err := hc.check(ctx)
	hc.Metrics.ObserveHealth(start, err)
	if err != nil {
		backend.Logger.Error("health check failed", "error", err)
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: err.Error(),
		}, nil
	}

	return &backend.CheckHealthResult{
		Status:  backend.HealthStatusOk,
		Message: "Data source is working",
	}, nil
}

func (hc *HealthChecker) check(ctx context.Context) error {
	if hc.Connector == nil {
		return ErrorMissingConnection
	}
	conn, err := hc.Connector.Connection()
	if err != nil {
		return err
	}

	// Some failures, like an unknown database, only surface when a query runs
	if err := conn.VerifyConnectivity(ctx); err != nil {
		return err
	}
	_, err = conn.Execute(ctx, HealthQuery, map[string]any{})
	return err
}
