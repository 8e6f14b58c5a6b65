package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/microblog/internal/flagx"
)

var serverFlags = []string{
	"-a", "-l", "-k", "-r", "-w", "-n", "-d", "-m", "-q", "-x", "-t",
	"-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-l string     HTTP bind address (e.g., ":8080")
//	-k string     storage backend: redis, postgres or memory
//	-r string     Redis address
//	-w string     Redis password
//	-n int        Redis database number
//	-d string     PostgreSQL DSN
//	-m string     user timeline range mode: inclusive or half-open
//	-q            reject duplicate user names
//	-x            transactional multi-step writes
//	-t duration   per-request timeout (e.g., "5s")
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Boolean flags take no separate value; use -q=false to turn one off.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.GRPCAddress, "a", config.GRPCAddress, "gRPC address and port to run server")
	fs.StringVar(&config.HTTPAddress, "l", config.HTTPAddress, "HTTP address and port to run server")
	fs.StringVar(&config.Backend, "k", config.Backend, "storage backend (redis, postgres, memory)")
	fs.StringVar(&config.RedisAddress, "r", config.RedisAddress, "Redis address")
	fs.StringVar(&config.RedisPassword, "w", config.RedisPassword, "Redis password")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "Redis database")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RangeMode, "m", config.RangeMode, "timeline range mode (inclusive, half-open)")
	fs.BoolVar(&config.UniqueUserNames, "q", config.UniqueUserNames, "reject duplicate user names")
	fs.BoolVar(&config.Transactional, "x", config.Transactional, "transactional writes")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "request timeout")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	return fs.Parse(args)
}
