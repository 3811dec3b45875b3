package module

import (
	"time"

	"ytchat/internal/platform/config"
	"ytchat/internal/services/transcripts/domain"
)

// Options configures the transcripts module
type Options struct {
	BaseURL      string
	Lang         string
	Timeout      time.Duration
	FetchTimeout time.Duration
	MaxTries     int
	CacheTTL     time.Duration

	// Source overrides the youtube caption client, used by tests and the cli
	Source domain.CaptionSource
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CORE_CAPTIONS_")
	rc := cfg.Prefix("CORE_REDIS_")
	return Options{
		BaseURL:      cc.MayString("BASE_URL", ""),
		Lang:         cc.MayEnum("LANG", "en", "en"),
		Timeout:      cc.MayDuration("TIMEOUT", 10*time.Second),
		FetchTimeout: cc.MayDuration("FETCH_TIMEOUT", 45*time.Second),
		MaxTries:     cc.MayInt("MAX_TRIES", 3),
		CacheTTL:     rc.MayDuration("TRANSCRIPT_TTL", 24*time.Hour),
	}
}
