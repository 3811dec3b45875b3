// Package videoref resolves YouTube urls to video ids
package videoref

import (
	"net/url"
	"strings"

	perr "ytchat/internal/platform/errors"
)

// ID is a YouTube video id. It doubles as the vector index namespace
type ID string

// String returns the raw id
func (id ID) String() string { return string(id) }

// ErrInvalidURL is returned for anything that does not name a video
var ErrInvalidURL = perr.WithField(perr.New(perr.ErrorCodeValidation, "Invalid YouTube URL"), "youtube_url")

// Resolve extracts the video id from a watch or short url
//
//	https://www.youtube.com/watch?v=ID  -> ID
//	https://youtu.be/ID                 -> ID
func Resolve(raw string) (ID, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidURL
	}

	switch strings.ToLower(u.Hostname()) {
	case "youtube.com", "www.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return ID(v), nil
		}
	case "youtu.be":
		if id := strings.TrimPrefix(u.Path, "/"); id != "" {
			return ID(id), nil
		}
	}
	return "", ErrInvalidURL
}
