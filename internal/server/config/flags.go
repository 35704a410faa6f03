package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

var knownFlags = []string{"-a", "-g", "-d", "-s", "-t", "-b", "-l", "-m", "-x", "-pro", "-f", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-g string     gRPC bind address, empty disables gRPC
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   push transaction timeout (e.g. "5s")
//	-b int        upsert batch size
//	-l int        default pull page size
//	-m int        maximum pull page size
//	-x int        maximum push body size in bytes
//	-pro          require the pro plan for sync
//	-f string     log file (rotated), empty logs to stdout
//	-v string     log level
//
// Arguments not in this set are ignored, so -c/-config can share the
// command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("notekeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.PushTxTimeout, "t", config.PushTxTimeout, "push transaction timeout")
	fs.IntVar(&config.UpsertBatchSize, "b", config.UpsertBatchSize, "upsert batch size")
	fs.IntVar(&config.PullDefaultLimit, "l", config.PullDefaultLimit, "default pull page size")
	fs.IntVar(&config.PullMaxLimit, "m", config.PullMaxLimit, "maximum pull page size")
	fs.Int64Var(&config.MaxBodyBytes, "x", config.MaxBodyBytes, "maximum push body size in bytes")
	fs.BoolVar(&config.RequirePro, "pro", config.RequirePro, "require pro plan for sync")
	fs.StringVar(&config.LogFile, "f", config.LogFile, "log file")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
