// Package config loads runtime configuration for the job tracker CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config; .yaml/.yml files are
//     read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-g string   host:port of the gRPC health endpoint
//	-i int      online status check interval (seconds)
//	-w int      search debounce window (milliseconds)
//	-d string   path of the local session database
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "500ms" or
// integer nanoseconds:
//
//	server_url: http://127.0.0.1:8080/api
//	health_endpoint_addr: 127.0.0.1:50051
//	online_check_interval: 3s
//	debounce_window: 500ms
//	request_timeout: 10s
//	session_db_path: jobtracker.db
//	export_bucket: job-exports
//	s3_region: us-east-1
//	s3_base_endpoint: http://127.0.0.1:9000
//	s3_access_key: minio
//	s3_secret_key: minio123
package config
