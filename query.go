package neo4jds

import (
	"context"
	"encoding/json"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// FormatQueryOption defines how the user has chosen to represent the data
type FormatQueryOption string

const (
	// FormatOptionTable renders the result as a table
	FormatOptionTable FormatQueryOption = "table"
	// FormatOptionNodeGraph sets the preferred visualization to node graph
	FormatOptionNodeGraph FormatQueryOption = "nodegraph"
)

// Visualization is the frame hint for the host. Anything but nodegraph is a table.
func (f FormatQueryOption) Visualization() data.VisType {
	if f == FormatOptionNodeGraph {
		return data.VisTypeNodeGraph
	}
	return data.VisTypeTable
}

// Query is the model that represents the query that users submit from the panel / queryeditor.
// For the sake of backwards compatibility, when making changes to this type, ensure that changes are
// only additive.
type Query struct {
	CypherQuery string            `json:"cypherQuery"`
	Format      FormatQueryOption `json:"Format"`
	// Variables is the dashboard variable scope used to interpolate CypherQuery
	Variables Variables `json:"variables,omitempty"`

	RefID         string            `json:"-"`
	Interval      time.Duration     `json:"-"`
	TimeRange     backend.TimeRange `json:"-"`
	MaxDataPoints int64             `json:"-"`
}

// WithCypher copies the Query, but with a different CypherQuery value.
// This is mostly useful in the macro interpolation, where the CypherQuery value is modified in a loop
func (q *Query) WithCypher(query string) *Query {
	return &Query{
		CypherQuery:   query,
		Format:        q.Format,
		Variables:     q.Variables,
		RefID:         q.RefID,
		Interval:      q.Interval,
		TimeRange:     q.TimeRange,
		MaxDataPoints: q.MaxDataPoints,
	}
}

// GetQuery returns a Query object given a backend.DataQuery using json.Unmarshal
func GetQuery(query backend.DataQuery) (*Query, error) {
	model := &Query{}

	if err := json.Unmarshal(query.JSON, &model); err != nil {
		return nil, backend.DownstreamError(ErrorJSON)
	}

	// Copy directly from the well typed query
	return &Query{
		CypherQuery:   model.CypherQuery,
		Format:        model.Format,
		Variables:     model.Variables,
		RefID:         query.RefID,
		Interval:      query.Interval,
		TimeRange:     query.TimeRange,
		MaxDataPoints: query.MaxDataPoints,
	}, nil
}

// getErrorFrameFromQuery returns a error frames with empty data and meta fields
func getErrorFrameFromQuery(query *Query) data.Frames {
	frames := data.Frames{}
	frame := data.NewFrame(query.RefID)
	frame.RefID = query.RefID
	frame.Meta = &data.FrameMeta{
		ExecutedQueryString: query.CypherQuery,
	}
	frames = append(frames, frame)
	return frames
}

// query sends the query to the connection and converts the records to a dataframe.
func query(ctx context.Context, conn Connection, query *Query) (data.Frames, error) {
	res, err := conn.Execute(ctx, query.CypherQuery, map[string]any{})
	if err != nil {
		return getErrorFrameFromQuery(query), err
	}

	frame := FrameFromResult(query.RefID, res)
	frame.Meta = &data.FrameMeta{
		ExecutedQueryString:    query.CypherQuery,
		PreferredVisualization: query.Format.Visualization(),
	}

	return data.Frames{frame}, nil
}
