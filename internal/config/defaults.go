package config

const (
	defaultLogDir                 = "~/.local/share/coverscout/logs"
	defaultCacheDir               = "~/.cache/coverscout"
	defaultAcoustIDBaseURL        = "https://api.acoustid.org/v2"
	defaultAcoustIDMinScore       = 0.5
	defaultFingerprintLength      = 120
	defaultAcoustIDRequestTimeout = 30
	defaultCoverArtUserAgent      = "coverscout/dev (https://coverscout.invalid)"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLookupCacheFile        = "lookups.db"
)

// DefaultExtensions is the audio extension allow-list applied when the scan
// section does not override it. Matching is case-insensitive.
var DefaultExtensions = []string{
	"mp3", "m4a", "flac", "ogg", "opus", "wav", "aiff", "aif",
	"ape", "wv", "tta", "mpc", "mp4", "aac", "wma", "alac",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		AcoustID: AcoustID{
			BaseURL:           defaultAcoustIDBaseURL,
			MinScore:          defaultAcoustIDMinScore,
			FingerprintLength: defaultFingerprintLength,
			RequestTimeout:    defaultAcoustIDRequestTimeout,
		},
		CoverArt: CoverArt{
			UserAgent: defaultCoverArtUserAgent,
		},
		Scan: Scan{
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		LookupCache: LookupCache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
