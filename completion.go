package neo4jds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
)

// ErrorNotImplemented is returned if the function is not implemented by the provided Completable
var ErrorNotImplemented = errors.New("not implemented")

// Completable will be used to autocomplete labels, relationship types and property keys in the query editor
type Completable interface {
	Labels(ctx context.Context) ([]string, error)
	RelationshipTypes(ctx context.Context) ([]string, error)
	PropertyKeys(ctx context.Context) ([]string, error)
}

// schemaCompletable reads the schema through the database procedures
type schemaCompletable struct {
	ds *Neo4jDatasource
}

func (s *schemaCompletable) Labels(ctx context.Context) ([]string, error) {
	return s.firstColumn(ctx, "CALL db.labels()")
}

func (s *schemaCompletable) RelationshipTypes(ctx context.Context) ([]string, error) {
	return s.firstColumn(ctx, "CALL db.relationshipTypes()")
}

func (s *schemaCompletable) PropertyKeys(ctx context.Context) ([]string, error) {
	return s.firstColumn(ctx, "CALL db.propertyKeys()")
}

func (s *schemaCompletable) firstColumn(ctx context.Context, cypher string) ([]string, error) {
	values, err := s.ds.ResolveVariable(ctx, &Query{CypherQuery: cypher})
	if err != nil {
		return nil, err
	}
	res := make([]string, len(values))
	for i, v := range values {
		res[i] = v.Text
	}
	return res, nil
}

func handleError(rw http.ResponseWriter, err error) {
	rw.WriteHeader(http.StatusBadRequest)
	_, err = rw.Write([]byte(err.Error()))
	if err != nil {
		backend.Logger.Error(err.Error())
	}
}

func sendResourceResponse(rw http.ResponseWriter, res any) {
	rw.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		handleError(rw, err)
		return
	}
}

func (ds *Neo4jDatasource) completionHandler(list func(Completable, context.Context) ([]string, error)) func(http.ResponseWriter, *http.Request) {
	return func(rw http.ResponseWriter, req *http.Request) {
		if ds.Completable == nil {
			handleError(rw, ErrorNotImplemented)
			return
		}

		res, err := list(ds.Completable, req.Context())
		if err != nil {
			handleError(rw, err)
			return
		}

		sendResourceResponse(rw, res)
	}
}

func (ds *Neo4jDatasource) getVariableValues(rw http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		handleError(rw, err)
		return
	}

	q, err := GetQuery(backend.DataQuery{RefID: "variable", JSON: body})
	if err != nil {
		handleError(rw, err)
		return
	}

	res, err := ds.ResolveVariable(req.Context(), q)
	if err != nil {
		handleError(rw, err)
		return
	}

	sendResourceResponse(rw, res)
}

func (ds *Neo4jDatasource) registerRoutes(mux *http.ServeMux) error {
	defaultRoutes := map[string]func(http.ResponseWriter, *http.Request){
		"/labels":             ds.completionHandler(Completable.Labels),
		"/relationship-types": ds.completionHandler(Completable.RelationshipTypes),
		"/property-keys":      ds.completionHandler(Completable.PropertyKeys),
		"/variables":          ds.getVariableValues,
	}
	for route, handler := range defaultRoutes {
		mux.HandleFunc(route, handler)
	}
	for route, handler := range ds.CustomRoutes {
		if _, ok := defaultRoutes[route]; ok {
			return fmt.Errorf("unable to redefine %s, use the Completable interface instead", route)
		}
		mux.HandleFunc(route, handler)
	}
	return nil
}
