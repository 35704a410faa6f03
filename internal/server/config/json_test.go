package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": "0.0.0.0:80",
		"endpoint_addr_grpc": "",
		"database_dsn":       "postgres://x",
		"secret_key":         "k",
		"push_tx_timeout":    "750ms",
		"upsert_batch_size":  10,
		"pull_default_limit": 50,
		"pull_max_limit":     60,
		"max_body_bytes":     2048,
		"require_pro":        true,
		"log_file":           "server.log",
		"log_level":          "warn",
	})

	t.Run("loads every field", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "0.0.0.0:80", cfg.EndpointAddrHTTP)
		assert.Equal(t, "", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, "k", cfg.SecretKey)
		assert.Equal(t, 750*time.Millisecond, cfg.PushTxTimeout)
		assert.Equal(t, 10, cfg.UpsertBatchSize)
		assert.Equal(t, 50, cfg.PullDefaultLimit)
		assert.Equal(t, 60, cfg.PullMaxLimit)
		assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
		assert.True(t, cfg.RequirePro)
		assert.Equal(t, "server.log", cfg.LogFile)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("no flag loads nothing", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	})
}

func Test_parseJson_PartialFileKeepsDefaults(t *testing.T) {
	path := writeTempJSON(t, "", "partial.json", map[string]any{
		"push_tx_timeout": 2000000000,
	})

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseJson(cfg, []string{"-c", path}))

	assert.Equal(t, 2*time.Second, cfg.PushTxTimeout)
	assert.Equal(t, 100, cfg.UpsertBatchSize)
	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func Test_parseJson_Errors(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseJson(cfg, []string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	err = parseJson(cfg, []string{"-c", bad})
	require.Error(t, err)
}
