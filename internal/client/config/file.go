package config

import (
	"github.com/dmitrijs2005/jobtracker/internal/cfgfile"
	"github.com/dmitrijs2005/jobtracker/internal/flagx"
	"github.com/dmitrijs2005/jobtracker/internal/timex"
)

// FileConfig is the on-disk shape of Config. Zero values leave the current
// setting alone.
type FileConfig struct {
	ServerURL           string         `json:"server_url" yaml:"server_url"`
	HealthEndpointAddr  string         `json:"health_endpoint_addr" yaml:"health_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	DebounceWindow      timex.Duration `json:"debounce_window" yaml:"debounce_window"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SessionDBPath       string         `json:"session_db_path" yaml:"session_db_path"`
	ExportBucket        string         `json:"export_bucket" yaml:"export_bucket"`
	S3Region            string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey         string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key" yaml:"s3_secret_key"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
// It panics when the file cannot be read or parsed.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	var fc FileConfig
	if err := cfgfile.Decode(path, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.HealthEndpointAddr, fc.HealthEndpointAddr)
	setString(&cfg.SessionDBPath, fc.SessionDBPath)
	setString(&cfg.ExportBucket, fc.ExportBucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)

	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.DebounceWindow.Duration > 0 {
		cfg.DebounceWindow = fc.DebounceWindow.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
