package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/microblog/internal/flagx"
	"github.com/dmitrijs2005/microblog/internal/timex"
)

// JsonConfig mirrors Config for JSON files. RequestTimeout accepts either a
// duration string such as "5s" or integer nanoseconds.
type JsonConfig struct {
	GRPCAddress     string         `json:"grpc_address"`
	HTTPAddress     string         `json:"http_address"`
	Backend         string         `json:"backend"`
	RedisAddress    string         `json:"redis_address"`
	RedisPassword   string         `json:"redis_password"`
	RedisDB         int            `json:"redis_db"`
	DatabaseDSN     string         `json:"database_dsn"`
	RangeMode       string         `json:"range_mode"`
	UniqueUserNames bool           `json:"unique_user_names"`
	Transactional   bool           `json:"transactional"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
}

// parseJson overlays the file named by -c or -config onto config. Keys
// missing from the file keep their current values.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := JsonConfig{
		GRPCAddress:     config.GRPCAddress,
		HTTPAddress:     config.HTTPAddress,
		Backend:         config.Backend,
		RedisAddress:    config.RedisAddress,
		RedisPassword:   config.RedisPassword,
		RedisDB:         config.RedisDB,
		DatabaseDSN:     config.DatabaseDSN,
		RangeMode:       config.RangeMode,
		UniqueUserNames: config.UniqueUserNames,
		Transactional:   config.Transactional,
		RequestTimeout:  timex.Duration{Duration: config.RequestTimeout},
		S3RootUser:      config.S3RootUser,
		S3RootPassword:  config.S3RootPassword,
		S3Bucket:        config.S3Bucket,
		S3Region:        config.S3Region,
		S3BaseEndpoint:  config.S3BaseEndpoint,
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	config.GRPCAddress = c.GRPCAddress
	config.HTTPAddress = c.HTTPAddress
	config.Backend = c.Backend
	config.RedisAddress = c.RedisAddress
	config.RedisPassword = c.RedisPassword
	config.RedisDB = c.RedisDB
	config.DatabaseDSN = c.DatabaseDSN
	config.RangeMode = c.RangeMode
	config.UniqueUserNames = c.UniqueUserNames
	config.Transactional = c.Transactional
	config.RequestTimeout = c.RequestTimeout.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	return nil
}
