package config

const (
	defaultConfigPath        = "~/.athletematch/config.toml"
	defaultProjectConfig     = "athletematch.toml"
	defaultDatabasePath      = "~/.athletematch/athletes.db"
	defaultKnownAthletesPath = "~/.athletematch/known_athletes.json"
	defaultSearchLimit       = 10
	defaultMaxLimit          = 100
	defaultSearchThreshold   = 45.0
	defaultCacheSize         = 16
	defaultLinkThreshold     = 85.0
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
)

// Environment overrides
const (
	EnvConfigPath        = "ATHLETEMATCH_CONFIG"
	EnvDatabasePath      = "ATHLETEMATCH_DB_PATH"
	EnvKnownAthletesPath = "ATHLETEMATCH_KNOWN_ATHLETES_PATH"
	EnvLogLevel          = "ATHLETEMATCH_LOG_LEVEL"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			DatabasePath: defaultDatabasePath,
		},
		Registry: Registry{
			KnownAthletesPath: defaultKnownAthletesPath,
		},
		Search: Search{
			DefaultLimit:     defaultSearchLimit,
			MaxLimit:         defaultMaxLimit,
			DefaultThreshold: defaultSearchThreshold,
			CacheSize:        defaultCacheSize,
			IncludeKnown:     true,
		},
		Linking: Linking{
			Threshold: defaultLinkThreshold,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
