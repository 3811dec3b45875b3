// Package youtube fetches caption tracks for YouTube videos
//
// The flow mirrors what the web player does: read the innertube api key from
// the watch page, ask the player endpoint for the caption track list, then
// download the chosen track as json3 timedtext
package youtube

import (
	"context"
	"io"
	"net/http"
	"time"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/logger"

	"github.com/cenkalti/backoff/v5"
)

const (
	baseURLDefault   = "https://www.youtube.com"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "Mozilla/5.0 (compatible; ytchat/1.0)"
	defaultMaxTries  = 3
	defaultRetryBase = 500 * time.Millisecond
	defaultMaxWait   = 30 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds each http round trip
	Timeout time.Duration

	// Retry config for transient and rate limited responses
	MaxTries  uint
	RetryBase time.Duration
	MaxWait   time.Duration
}

// Client fetches captions over plain https
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a new Client with defaults applied
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxTries == 0 {
		o.MaxTries = defaultMaxTries
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MaxWait <= 0 {
		o.MaxWait = defaultMaxWait
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("captions"),
		now:  time.Now,
	}
}

// Fetch returns the ordered caption segments for id in lang
// transcript.ErrNoTranscript is returned when captions are disabled, the
// language has no track, or the track is empty
func (c *Client) Fetch(ctx context.Context, id videoref.ID, lang string) ([]transcript.Segment, error) {
	start := c.now()

	key, err := c.apiKey(ctx, id)
	if err != nil {
		return nil, err
	}
	pr, err := c.player(ctx, id, key)
	if err != nil {
		return nil, err
	}
	if err := pr.playable(); err != nil {
		return nil, err
	}
	track, ok := pr.track(lang)
	if !ok {
		c.log.Debug().Str("video_id", id.String()).Str("lang", lang).Strs("available", pr.languages()).Msg("no caption track")
		return nil, transcript.ErrNoTranscript
	}
	segs, err := c.timedtext(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	segs = transcript.Clean(segs)
	if len(segs) == 0 {
		return nil, transcript.ErrNoTranscript
	}

	c.log.Debug().
		Str("video_id", id.String()).
		Str("lang", track.LanguageCode).
		Bool("generated", track.Kind == "asr").
		Int("segments", len(segs)).
		Dur("latency", c.now().Sub(start)).
		Msg("captions fetched")
	return segs, nil
}

// do runs one request with retries; build is called per attempt so bodies can be replayed
// the response returned has a 2xx status and must be closed by the caller
func (c *Client) do(ctx context.Context, op string, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.RetryBase
	bo.MaxInterval = c.opts.MaxWait

	attempt := 0
	return backoff.Retry(ctx, func() (*http.Response, error) {
		attempt++
		req, err := build(ctx)
		if err != nil {
			return nil, backoff.Permanent(perr.Wrapf(err, perr.ErrorCodeUnknown, "captions %s new request failed", op))
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			c.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("captions transport error")
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "captions %s failed", op)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			_ = drainAndClose(resp.Body)
			c.log.Warn().Str("op", op).Int("attempt", attempt).Msg("captions rate limited")
			return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "captions %s rate limited", op)
		case resp.StatusCode >= 500:
			_ = drainAndClose(resp.Body)
			c.log.Warn().Str("op", op).Int("status", resp.StatusCode).Int("attempt", attempt).Msg("captions transient error")
			return nil, perr.Newf(perr.ErrorCodeUnavailable, "captions %s status %d", op, resp.StatusCode)
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			return nil, backoff.Permanent(perr.Newf(perr.ErrorCodeUnknown, "captions %s unexpected status %d body %s", op, resp.StatusCode, string(body)))
		}
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.opts.MaxTries),
		backoff.WithMaxElapsedTime(c.opts.MaxWait),
	)
}
