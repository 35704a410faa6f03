package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept both "5s" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"secret_key"`
	PushTxTimeout    timex.Duration `json:"push_tx_timeout"`
	UpsertBatchSize  int            `json:"upsert_batch_size"`
	PullDefaultLimit int            `json:"pull_default_limit"`
	PullMaxLimit     int            `json:"pull_max_limit"`
	MaxBodyBytes     int64          `json:"max_body_bytes"`
	RequirePro       bool           `json:"require_pro"`
	LogFile          string         `json:"log_file"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config onto config. Keys missing
// from the file keep their current values. Without the flag nothing is
// loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{
		EndpointAddrHTTP: config.EndpointAddrHTTP,
		EndpointAddrGRPC: config.EndpointAddrGRPC,
		DatabaseDSN:      config.DatabaseDSN,
		SecretKey:        config.SecretKey,
		PushTxTimeout:    timex.Duration{Duration: config.PushTxTimeout},
		UpsertBatchSize:  config.UpsertBatchSize,
		PullDefaultLimit: config.PullDefaultLimit,
		PullMaxLimit:     config.PullMaxLimit,
		MaxBodyBytes:     config.MaxBodyBytes,
		RequirePro:       config.RequirePro,
		LogFile:          config.LogFile,
		LogLevel:         config.LogLevel,
	}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.PushTxTimeout = c.PushTxTimeout.Duration
	config.UpsertBatchSize = c.UpsertBatchSize
	config.PullDefaultLimit = c.PullDefaultLimit
	config.PullMaxLimit = c.PullMaxLimit
	config.MaxBodyBytes = c.MaxBodyBytes
	config.RequirePro = c.RequirePro
	config.LogFile = c.LogFile
	config.LogLevel = c.LogLevel

	return nil
}
