package services

import (
	"net/url"
	"strings"

	"github.com/desertthunder/vinlylog/internal/models"
)

// Classification is the result of inspecting a raw link URL.
type Classification struct {
	Kind models.Provider
	Raw  string

	// Host is the lowercased hostname with any "www." prefix stripped.
	// Empty when the URL could not be parsed.
	Host string

	// SpotifyResourceType is the first path segment of an open.spotify.com
	// URL (track, album, playlist, episode, show, artist).
	SpotifyResourceType string

	// URL is the parsed form of Raw, nil when unparseable or hostless.
	URL *url.URL
}

// Classify inspects a URL and determines which metadata-fetch strategy
// applies. It is pure and never fails: malformed input degrades to
// [models.ProviderLink].
func Classify(rawURL string) Classification {
	c := Classification{Kind: models.ProviderLink, Raw: rawURL}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return c
	}

	c.URL = u
	c.Host = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch {
	case c.Host == "youtu.be" || strings.HasSuffix(c.Host, "youtube.com"):
		c.Kind = models.ProviderYouTube
	case c.Host == "open.spotify.com":
		c.Kind = models.ProviderSpotify
		c.SpotifyResourceType = firstPathSegment(u.Path)
	case strings.HasSuffix(c.Host, "music.apple.com"):
		c.Kind = models.ProviderApple
	}

	return c
}

// firstPathSegment returns the first non-empty path segment of p.
func firstPathSegment(p string) string {
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

// lastPathSegment returns the last non-empty path segment of p.
func lastPathSegment(p string) string {
	segs := strings.Split(p, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return ""
}
