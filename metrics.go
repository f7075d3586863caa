package neo4jds

import (
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var healthExternalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "plugins",
	Name:      "plugin_health_external_duration_seconds",
	Help:      "Duration of external plugin health check",
}, []string{"datasource_name", "datasource_type", "error_source"})

var queryExternalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "plugins",
	Name:      "plugin_query_external_duration_seconds",
	Help:      "Duration of cypher queries sent to neo4j",
}, []string{"datasource_name", "datasource_type", "format", "error_source"})

// Metrics records query and health durations for one datasource instance
type Metrics struct {
	DSName string
	DSType string
}

// NewMetrics ...
func NewMetrics(settings backend.DataSourceInstanceSettings) Metrics {
	return Metrics{DSName: settings.Name, DSType: settings.Type}
}

func errorSourceLabel(err error) string {
	if err == nil {
		return "none"
	}
	return string(ErrorSource(err))
}

// ObserveQuery records the duration of one query
func (m Metrics) ObserveQuery(start time.Time, format FormatQueryOption, err error) {
	queryExternalDuration.WithLabelValues(m.DSName, m.DSType, string(format.Visualization()), errorSourceLabel(err)).Observe(time.Since(start).Seconds())
}

// ObserveHealth records the duration of one health check
func (m Metrics) ObserveHealth(start time.Time, err error) {
	healthExternalDuration.WithLabelValues(m.DSName, m.DSType, errorSourceLabel(err)).Observe(time.Since(start).Seconds())
}
