package config

const (
	defaultInputPath       = "alt-text-data.csv"
	defaultIDColumn        = "image_id"
	defaultPrimaryColumn   = "base_url"
	defaultSecondaryColumn = "context_url"
	defaultOutputDir       = "alt-text-data"
	defaultPrimarySuffix   = "primary"
	defaultSecondarySuffix = "secondary"
	defaultTimeoutSeconds  = 30
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultPublishHost     = "https://raw.githubusercontent.com"
	defaultPublishOwner    = "shresthjain-bs"
	defaultPublishRepo     = "public"
	defaultPublishBranch   = "main"
)

// Default returns a Config populated with repository defaults. An empty user
// agent selects the fetcher's built-in browser identification.
func Default() Config {
	return Config{
		Input: Input{
			Path:            defaultInputPath,
			IDColumn:        defaultIDColumn,
			PrimaryColumn:   defaultPrimaryColumn,
			SecondaryColumn: defaultSecondaryColumn,
		},
		Output: Output{
			Dir:             defaultOutputDir,
			PrimarySuffix:   defaultPrimarySuffix,
			SecondarySuffix: defaultSecondarySuffix,
		},
		HTTP: HTTP{
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Publish: Publish{
			Host:   defaultPublishHost,
			Owner:  defaultPublishOwner,
			Repo:   defaultPublishRepo,
			Branch: defaultPublishBranch,
		},
	}
}
