package config

const (
	defaultTotalBeds       = 9
	defaultDataDir         = "~/.local/share/ewms"
	defaultLogDir          = "~/.local/share/ewms/logs"
	defaultAPIBind         = "127.0.0.1:7486"
	defaultRequestTimeout  = 10
	defaultDrainInterval   = 15
	defaultRetryBackoffMin = 2
	defaultRetryBackoffMax = 60
	defaultLogFormat       = "text"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults. Sync is
// disabled until an endpoint is configured.
func Default() Config {
	return Config{
		Ward: Ward{
			TotalBeds: defaultTotalBeds,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Sync: Sync{
			RequestTimeout:  defaultRequestTimeout,
			DrainInterval:   defaultDrainInterval,
			RetryBackoffMin: defaultRetryBackoffMin,
			RetryBackoffMax: defaultRetryBackoffMax,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
