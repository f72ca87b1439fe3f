package config

import "time"

// Config holds runtime settings for the job tracker CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API, including the /api prefix.
//   - HealthEndpointAddr: host:port of the server's gRPC health service.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DebounceWindow: quiet period before typed search text is applied.
//   - RequestTimeout: upper bound for a single API call.
//   - SessionDBPath: SQLite file holding the signed-in user between runs.
//   - Export*/S3*: destination of "export s3".
type Config struct {
	ServerURL           string
	HealthEndpointAddr  string
	OnlineCheckInterval time.Duration
	DebounceWindow      time.Duration
	RequestTimeout      time.Duration
	SessionDBPath       string

	ExportBucket   string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.HealthEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DebounceWindow = 500 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
	c.SessionDBPath = "jobtracker.db"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
