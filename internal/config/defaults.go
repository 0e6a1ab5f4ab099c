package config

const (
	defaultLogDir               = "~/.local/share/watchtag/logs"
	defaultAPIBind              = "127.0.0.1:7787"
	defaultTMDBBaseURL          = "https://api.themoviedb.org/3"
	defaultTMDBRegion           = "DE"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
	defaultScheduleCron         = "0 3 * * *"
)

func defaultItemKinds() []string {
	return []string{"Movie", "Series", "Episode"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL: defaultTMDBBaseURL,
			Region:  defaultTMDBRegion,
		},
		Catalog: Catalog{
			ItemKinds: defaultItemKinds(),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Sweep:          true,
			Errors:         true,
		},
		Schedule: Schedule{
			Enabled: true,
			Cron:    defaultScheduleCron,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
