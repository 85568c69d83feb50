package config

const (
	defaultLogDir       = "~/.local/share/subtool/logs"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultBatchDBPath  = "~/.local/share/subtool/batch.db"
	defaultBatchKeep    = "forced"
	defaultBundleDirRel = "resources/ffmpeg"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			PreferBundled: false,
			BundleDir:     defaultBundleDirRel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
		Batch: Batch{
			DatabasePath: defaultBatchDBPath,
			Keep:         defaultBatchKeep,
		},
	}
}
