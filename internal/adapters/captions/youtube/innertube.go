package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"ytchat/internal/core/transcript"
	"ytchat/internal/core/videoref"
	perr "ytchat/internal/platform/errors"
)

// the android client still gets caption urls without a po token
const (
	innertubeClientName    = "ANDROID"
	innertubeClientVersion = "20.10.38"
)

var apiKeyRe = regexp.MustCompile(`"INNERTUBE_API_KEY":\s*"([a-zA-Z0-9_-]+)"`)

// apiKey scrapes the innertube key from the watch page
func (c *Client) apiKey(ctx context.Context, id videoref.ID) (string, error) {
	watch := c.opts.BaseURL + "/watch?v=" + url.QueryEscape(id.String())
	resp, err := c.do(ctx, "watch", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watch, nil)
		if err != nil {
			return nil, err
		}
		req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+cb"})
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	page, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "captions watch read failed")
	}
	if m := apiKeyRe.FindSubmatch(page); m != nil {
		return string(m[1]), nil
	}
	if bytes.Contains(page, []byte(`class="g-recaptcha"`)) {
		return "", perr.Newf(perr.ErrorCodeUnavailable, "captions blocked by bot check")
	}
	return "", perr.Newf(perr.ErrorCodeUnknown, "captions api key not found on watch page")
}

type playerRequest struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type captionList struct {
	Renderer struct {
		Tracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *captionList `json:"captions"`
}

// player asks innertube for the caption track list
func (c *Client) player(ctx context.Context, id videoref.ID, key string) (*playerResponse, error) {
	var in playerRequest
	in.Context.Client.ClientName = innertubeClientName
	in.Context.Client.ClientVersion = innertubeClientVersion
	in.VideoID = id.String()
	body, err := json.Marshal(in)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "captions player encode failed")
	}

	endpoint := c.opts.BaseURL + "/youtubei/v1/player?key=" + url.QueryEscape(key)
	resp, err := c.do(ctx, "player", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var out playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "captions player decode failed")
	}
	return &out, nil
}

// playable maps the playability status onto our error codes
func (p *playerResponse) playable() error {
	switch st := p.PlayabilityStatus.Status; st {
	case "OK", "":
		return nil
	case "LOGIN_REQUIRED":
		return perr.Newf(perr.ErrorCodeUnavailable, "captions video requires login: %s", p.PlayabilityStatus.Reason)
	default:
		return perr.Newf(perr.ErrorCodeNotFound, "captions video unplayable (%s): %s", st, p.PlayabilityStatus.Reason)
	}
}

// track picks a manual track in lang, then a regional variant, then the generated one
func (p *playerResponse) track(lang string) (captionTrack, bool) {
	if p.Captions == nil {
		return captionTrack{}, false
	}
	lang = strings.ToLower(lang)
	tracks := p.Captions.Renderer.Tracks

	var regional, generated *captionTrack
	for i := range tracks {
		t := &tracks[i]
		code := strings.ToLower(t.LanguageCode)
		switch {
		case code == lang && t.Kind != "asr":
			return *t, true
		case strings.HasPrefix(code, lang+"-") && t.Kind != "asr" && regional == nil:
			regional = t
		case (code == lang || strings.HasPrefix(code, lang+"-")) && t.Kind == "asr" && generated == nil:
			generated = t
		}
	}
	if regional != nil {
		return *regional, true
	}
	if generated != nil {
		return *generated, true
	}
	return captionTrack{}, false
}

func (p *playerResponse) languages() []string {
	if p.Captions == nil {
		return nil
	}
	out := make([]string, 0, len(p.Captions.Renderer.Tracks))
	for _, t := range p.Captions.Renderer.Tracks {
		out = append(out, t.LanguageCode)
	}
	return out
}

type json3 struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// timedtext downloads a caption track as json3 and flattens it into segments
func (c *Client) timedtext(ctx context.Context, base string) ([]transcript.Segment, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "captions track url invalid")
	}
	if !u.IsAbs() {
		root, _ := url.Parse(c.opts.BaseURL)
		u = root.ResolveReference(u)
	}
	q := u.Query()
	q.Set("fmt", "json3")
	u.RawQuery = q.Encode()
	target := u.String()

	resp, err := c.do(ctx, "timedtext", func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "captions timedtext read failed")
	}
	// an empty body is how youtube reports a track with no cues
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var doc json3
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "captions timedtext decode failed")
	}

	segs := make([]transcript.Segment, 0, len(doc.Events))
	for _, ev := range doc.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, s := range ev.Segs {
			b.WriteString(s.UTF8)
		}
		segs = append(segs, transcript.Segment{
			Text:     b.String(),
			Start:    float64(ev.StartMs) / 1000,
			Duration: float64(ev.DurationMs) / 1000,
		})
	}
	return segs, nil
}
