package neo4jds

import (
	"strconv"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/data"
	jsoniter "github.com/json-iterator/go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

var valueJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	dateLayout          = "2006-01-02"
	timeLayout          = "15:04:05.999999999Z07:00"
	localTimeLayout     = "15:04:05.999999999"
	localDateTimeLayout = "2006-01-02T15:04:05.999999999"
)

// FrameFromResult converts the records into a table frame named after refID.
// The keys of the first record define the columns. Every cell is rendered as nullable text.
// Records with fewer values than the first one get null cells; extra values are dropped.
func FrameFromResult(refID string, res *ExecutionResult) *data.Frame {
	frame := data.NewFrame(refID)
	frame.RefID = refID

	if res == nil || len(res.Records) == 0 {
		return frame
	}

	columns := res.Records[0].Keys
	values := make([][]*string, len(columns))
	for i := range values {
		values[i] = make([]*string, len(res.Records))
	}

	for row, record := range res.Records {
		for col := range columns {
			if col < len(record.Values) {
				values[col][row] = toText(record.Values[col])
			}
		}
	}

	for i, name := range columns {
		frame.Fields = append(frame.Fields, data.NewField(name, nil, values[i]))
	}
	return frame
}

// https://github.com/neo4j/neo4j-go-driver#value-types
func toText(val any) *string {
	var s string
	switch t := val.(type) {
	case nil:
		return nil
	case string:
		s = t
	case int64:
		s = strconv.FormatInt(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	case time.Time:
		s = t.Format(time.RFC3339Nano)
	case dbtype.Date:
		s = t.Time().Format(dateLayout)
	case dbtype.Time:
		s = t.Time().Format(timeLayout)
	case dbtype.LocalTime:
		s = t.Time().Format(localTimeLayout)
	case dbtype.LocalDateTime:
		s = t.Time().Format(localDateTimeLayout)
	case dbtype.Duration:
		s = t.String()
	case dbtype.Point2D:
		s = t.String()
	case dbtype.Point3D:
		s = t.String()
	default:
		r, err := valueJSON.Marshal(val)
		if err != nil {
			backend.Logger.Warn("json marshalling failed", "error", err)
			return nil
		}
		s = string(r)
	}
	return &s
}
