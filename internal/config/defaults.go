package config

const (
	defaultLibraryDir          = "~/vod-archive"
	defaultStreamer            = "MichiMochievee"
	defaultPlatform            = "youtube"
	defaultSection             = "VODs"
	defaultIDPrefix            = "yt-v"
	defaultLocalIDPrefix       = "yt-2localvt22"
	defaultYTDLPBinary         = "yt-dlp"
	defaultConcurrentFragments = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a configuration populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
		},
		Naming: Naming{
			Streamer:      defaultStreamer,
			Platform:      defaultPlatform,
			Section:       defaultSection,
			IDPrefix:      defaultIDPrefix,
			LocalIDPrefix: defaultLocalIDPrefix,
		},
		Tools: Tools{
			YTDLPBinary:         defaultYTDLPBinary,
			ConcurrentFragments: defaultConcurrentFragments,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
