package neo4jds

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
)

// passwordKey is the secure json key holding the neo4j password.
const passwordKey = "password"

// ConnectionSettings are the connection details of a datasource instance.
// They are read whenever the plugin is initialized, or after the data source settings are updated,
// and are never changed while queries run.
type ConnectionSettings struct {
	URL      string `json:"url"`
	Database string `json:"database"`
	Username string `json:"username"`
	// Password is only ever read from the decrypted secure json data
	Password string `json:"-"`
	// Timeout bounds a single query. Zero leaves it to the host request and the driver defaults.
	Timeout time.Duration `json:"-"`
}

type jsonSettings struct {
	ConnectionSettings
	TimeoutSeconds int64 `json:"timeout"`
}

// HasCredentials reports whether basic authentication should be used.
func (s ConnectionSettings) HasCredentials() bool {
	return s.Username != "" && s.Password != ""
}

// LoadSettings will read and validate Settings from the DataSourceConfig
func LoadSettings(config backend.DataSourceInstanceSettings) (ConnectionSettings, error) {
	var settings jsonSettings
	if len(config.JSONData) > 0 {
		if err := json.Unmarshal(config.JSONData, &settings); err != nil {
			return ConnectionSettings{}, fmt.Errorf("%w: %s", ErrorSettings, err.Error())
		}
	}

	s := settings.ConnectionSettings
	if settings.TimeoutSeconds > 0 {
		s.Timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}
	if password, ok := config.DecryptedSecureJSONData[passwordKey]; ok {
		s.Password = password
	}

	if s.URL == "" {
		return s, ErrorMissingURL
	}

	return s, nil
}
