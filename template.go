package neo4jds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrorUnknownVariableFormat is returned for a ${name:format} placeholder with an unsupported format
var ErrorUnknownVariableFormat = errors.New("unknown variable format")

// VariableValue holds the current value(s) of a dashboard variable.
// It decodes from a string, a list, or a scoped variable object ({"text": ..., "value": ...}).
type VariableValue struct {
	Values []string
}

// Value builds a VariableValue from one or more values
func Value(values ...string) VariableValue {
	return VariableValue{Values: values}
}

func (v *VariableValue) UnmarshalJSON(b []byte) error {
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()

	var raw any
	if err := d.Decode(&raw); err != nil {
		return err
	}

	values, err := variableValues(raw)
	if err != nil {
		return err
	}
	v.Values = values
	return nil
}

func variableValues(raw any) ([]string, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		values := make([]string, 0, len(t))
		for _, item := range t {
			values = append(values, fmt.Sprint(item))
		}
		return values, nil
	case map[string]any:
		if value, ok := t["value"]; ok {
			return variableValues(value)
		}
		return nil, fmt.Errorf("variable object without value: %v", t)
	default:
		return []string{fmt.Sprint(t)}, nil
	}
}

// Variables is the dashboard variable scope, keyed by variable name
type Variables map[string]VariableValue

// Interpolator substitutes template variables in the raw query text.
// The datasource treats the result as an opaque string.
type Interpolator interface {
	Interpolate(text string, scope Variables) (string, error)
}

// variableRegex matches $name, [[name]], [[name:format]], ${name} and ${name:format}
var variableRegex = regexp.MustCompile(`\$(\w+)|\[\[(\w+?)(?::(\w+))?\]\]|\$\{(\w+)(?::(\w+))?\}`)

// TemplateService replaces dashboard variable placeholders the way Grafana's template service does.
// Placeholders of variables that are not in scope are left as they are.
type TemplateService struct{}

func (TemplateService) Interpolate(text string, scope Variables) (string, error) {
	if len(scope) == 0 {
		return text, nil
	}

	var err error
	res := variableRegex.ReplaceAllStringFunc(text, func(match string) string {
		if err != nil {
			return match
		}
		m := variableRegex.FindStringSubmatch(match)
		name := firstNonEmpty(m[1], m[2], m[4])
		value, ok := scope[name]
		if !ok {
			return match
		}

		formatted, ferr := formatVariable(value.Values, firstNonEmpty(m[3], m[5]))
		if ferr != nil {
			err = fmt.Errorf("%w: %s", ferr, match)
			return match
		}
		return formatted
	})

	return res, err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func formatVariable(values []string, format string) (string, error) {
	switch format {
	case "":
		if len(values) == 1 {
			return values[0], nil
		}
		return quoteAll(values, "'"), nil
	case "raw", "csv":
		return strings.Join(values, ","), nil
	case "pipe":
		return strings.Join(values, "|"), nil
	case "singlequote":
		return quoteAll(values, "'"), nil
	case "doublequote":
		return quoteAll(values, `"`), nil
	case "json":
		var (
			b   []byte
			err error
		)
		if len(values) == 1 {
			b, err = json.Marshal(values[0])
		} else {
			b, err = json.Marshal(values)
		}
		return string(b), err
	case "regex":
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = regexp.QuoteMeta(v)
		}
		if len(escaped) == 1 {
			return escaped[0], nil
		}
		return "(" + strings.Join(escaped, "|") + ")", nil
	default:
		return "", ErrorUnknownVariableFormat
	}
}

func quoteAll(values []string, quote string) string {
	escaper := strings.NewReplacer(`\`, `\\`, quote, `\`+quote)
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote + escaper.Replace(v) + quote
	}
	return strings.Join(quoted, ",")
}
