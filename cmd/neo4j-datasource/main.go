package main

import (
	"os"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/datasource"
	"github.com/grafana/neo4jds"
)

// pluginID must match the id in plugin.json
const pluginID = "grafana-neo4j-datasource"

func main() {
	ds := neo4jds.NewDatasource(neo4jds.NewNeo4jDriver())

	// Start listening to requests sent from Grafana. This call is blocking so
	// it won't finish until Grafana shuts down the process or the plugin choose
	// to exit by itself using os.Exit. Manage automatically manages life cycle
	// of datasource instances.
	if err := datasource.Manage(pluginID, ds.NewDatasource, datasource.ManageOpts{}); err != nil {
		backend.Logger.Error(err.Error())
		os.Exit(1)
	}
}
