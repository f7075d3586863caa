package neo4jds

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrorBadArgumentCount is returned from macros when the wrong number of arguments were provided
	ErrorBadArgumentCount = errors.New("unexpected number of arguments")
)

// MacroFunc defines a signature for applying a query macro
// Query macro implementations are defined by users / consumers of this package
type MacroFunc func(*Query, []string) (string, error)

// Macros is a list of MacroFuncs.
// The "string" key is the name of the macro function. This name has to be regex friendly.
type Macros map[string]MacroFunc

// DefaultMacros are the time range macros available to every cypher query
var DefaultMacros = Macros{
	"timeFilter":  macroTimeFilter,
	"timeFrom":    macroTimeFrom,
	"timeTo":      macroTimeTo,
	"timeFrom_ms": macroTimeFromMs,
	"timeTo_ms":   macroTimeToMs,
	"interval":    macroInterval,
	"interval_ms": macroIntervalMs,
}

func datetime(t time.Time) string {
	return fmt.Sprintf("datetime('%s')", t.UTC().Format(time.RFC3339Nano))
}

func noArguments(args []string) error {
	if len(args) > 1 || (len(args) == 1 && args[0] != "") {
		return fmt.Errorf("%w: expected 0 arguments, received %d", ErrorBadArgumentCount, len(args))
	}
	return nil
}

func macroTimeFilter(query *Query, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: expected 1 argument, received %d", ErrorBadArgumentCount, len(args))
	}
	return fmt.Sprintf("%s >= %s AND %s <= %s", args[0], datetime(query.TimeRange.From), args[0], datetime(query.TimeRange.To)), nil
}

func macroTimeFrom(query *Query, args []string) (string, error) {
	if err := noArguments(args); err != nil {
		return "", err
	}
	return datetime(query.TimeRange.From), nil
}

func macroTimeTo(query *Query, args []string) (string, error) {
	if err := noArguments(args); err != nil {
		return "", err
	}
	return datetime(query.TimeRange.To), nil
}

func macroTimeFromMs(query *Query, args []string) (string, error) {
	if err := noArguments(args); err != nil {
		return "", err
	}
	return strconv.FormatInt(query.TimeRange.From.UnixMilli(), 10), nil
}

func macroTimeToMs(query *Query, args []string) (string, error) {
	if err := noArguments(args); err != nil {
		return "", err
	}
	return strconv.FormatInt(query.TimeRange.To.UnixMilli(), 10), nil
}

// macroInterval renders the interval as a cypher duration literal
func macroInterval(query *Query, args []string) (string, error) {
	if err := noArguments(args); err != nil {
		return "", err
	}
	return fmt.Sprintf("duration({milliseconds: %d})", query.Interval.Milliseconds()), nil
}

func macroIntervalMs(query *Query, args []string) (string, error) {
	if err := noArguments(args); err != nil {
		return "", err
	}
	return strconv.FormatInt(query.Interval.Milliseconds(), 10), nil
}

func trimAll(s []string) []string {
	r := make([]string, len(s))
	for i, v := range s {
		r[i] = strings.TrimSpace(v)
	}

	return r
}

// getMacroRegex matches $__name and $__name(args). The word boundary keeps
// $__timeFrom from matching inside $__timeFrom_ms.
func getMacroRegex(name string) string {
	return fmt.Sprintf("\\$__%s\\b(?:\\((.*?)\\))?", regexp.QuoteMeta(name))
}

// Interpolate applies the driver macros to the query text
func Interpolate(driver Driver, query *Query) (string, error) {
	macros := driver.Macros()
	cypher := query.CypherQuery
	for key, macro := range macros {
		rgx, err := regexp.Compile(getMacroRegex(key))
		if err != nil {
			return cypher, err
		}
		matches := rgx.FindAllStringSubmatch(cypher, -1)
		for _, match := range matches {
			if len(match) == 0 {
				// There were no matches for this macro
				continue
			}

			args := []string{}
			if len(match) > 1 && match[1] != "" {
				// This macro has arguments
				args = trimAll(strings.Split(match[1], ","))
			}

			res, err := macro(query.WithCypher(cypher), args)
			if err != nil {
				return cypher, err
			}

			cypher = strings.Replace(cypher, match[0], res, -1)
		}
	}

	return cypher, nil
}
