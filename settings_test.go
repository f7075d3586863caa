package neo4jds

import (
	"errors"
	"testing"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings backend.DataSourceInstanceSettings
		expected ConnectionSettings
		err      error
	}{
		{
			name: "password from secure json",
			settings: backend.DataSourceInstanceSettings{
				JSONData:                []byte(`{"url": "neo4j://localhost:7687", "database": "movies", "username": "neo4j", "password": "ignored"}`),
				DecryptedSecureJSONData: map[string]string{"password": "Password123"},
			},
			expected: ConnectionSettings{URL: "neo4j://localhost:7687", Database: "movies", Username: "neo4j", Password: "Password123"},
		},
		{
			name: "timeout in seconds",
			settings: backend.DataSourceInstanceSettings{
				JSONData: []byte(`{"url": "bolt://localhost:7687", "timeout": 30}`),
			},
			expected: ConnectionSettings{URL: "bolt://localhost:7687", Timeout: 30 * time.Second},
		},
		{
			name:     "missing url",
			settings: backend.DataSourceInstanceSettings{JSONData: []byte(`{"database": "movies"}`)},
			expected: ConnectionSettings{Database: "movies"},
			err:      ErrorMissingURL,
		},
		{
			name:     "invalid json",
			settings: backend.DataSourceInstanceSettings{JSONData: []byte{1}},
			err:      ErrorSettings,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadSettings(tt.settings)
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestConnectionSettings_HasCredentials(t *testing.T) {
	assert.True(t, ConnectionSettings{Username: "neo4j", Password: "secret"}.HasCredentials())
	assert.False(t, ConnectionSettings{Username: "neo4j"}.HasCredentials())
	assert.False(t, ConnectionSettings{Password: "secret"}.HasCredentials())
	assert.False(t, ConnectionSettings{}.HasCredentials())
}
