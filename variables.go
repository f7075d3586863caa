package neo4jds

import (
	"context"
	"fmt"

	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// MetricFindValue is one option of a query backed dashboard variable
type MetricFindValue struct {
	Text string `json:"text"`
}

// VariableValues reads the first column of the frame, one value per row.
// A frame without columns or rows yields an empty list.
func VariableValues(frame *data.Frame) []MetricFindValue {
	values := []MetricFindValue{}
	if frame == nil || len(frame.Fields) == 0 {
		return values
	}

	field := frame.Fields[0]
	for i := 0; i < field.Len(); i++ {
		v, ok := field.ConcreteAt(i)
		if !ok {
			values = append(values, MetricFindValue{})
			continue
		}
		values = append(values, MetricFindValue{Text: fmt.Sprint(v)})
	}
	return values
}

// ResolveVariable runs a variable query and returns the values of its first column
func (ds *Neo4jDatasource) ResolveVariable(ctx context.Context, q *Query) ([]MetricFindValue, error) {
	frames, err := ds.run(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return []MetricFindValue{}, nil
	}
	return VariableValues(frames[0]), nil
}
