// Spotify metadata [Resolver] implementation.
//
// The embed URL and a default player height derive from the link itself, so
// resolution works fully offline. The oEmbed endpoint is attempted on top
// of that, and when its embed markup carries an iframe the iframe's
// src/height win over the derived defaults.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/vinlylog/internal/models"
)

const (
	spotifyOEmbedURL = "https://open.spotify.com/oembed"
	spotifyEmbedBase = "https://open.spotify.com/embed"

	// Player heights by resource type, matching Spotify's compact and
	// full-size embed variants.
	spotifyCompactHeight = 152
	spotifyFullHeight    = 352
)

// SpotifyResolver resolves open.spotify.com links via oEmbed with an
// offline-derived fallback, and optionally enriches failed lookups through
// the Web API when credentials are configured.
type SpotifyResolver struct {
	oembedBase string
	httpClient *http.Client
	api        *SpotifyAPI
}

// NewSpotifyResolver creates a Spotify resolver. api may be nil, in which
// case only oEmbed and offline derivation are used.
func NewSpotifyResolver(client *http.Client, api *SpotifyAPI) *SpotifyResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &SpotifyResolver{oembedBase: spotifyOEmbedURL, httpClient: client, api: api}
}

// spotifyEmbedDefaults derives the embed URL and height for a classified
// Spotify link without any network call.
func spotifyEmbedDefaults(c Classification) (string, int) {
	if c.URL == nil || c.SpotifyResourceType == "" {
		return "", 0
	}

	height := spotifyFullHeight
	switch c.SpotifyResourceType {
	case "track", "episode":
		height = spotifyCompactHeight
	}

	return spotifyEmbedBase + c.URL.EscapedPath(), height
}

// Resolve derives offline embed fields, then attempts oEmbed. oEmbed
// title/thumbnail are preferred, and an iframe in its markup overrides the
// derived embed src/height. On failure the Web API fallback runs when
// configured; the offline fields always survive.
func (r *SpotifyResolver) Resolve(ctx context.Context, c Classification) (models.LinkMetadata, error) {
	var meta models.LinkMetadata
	meta.EmbedURL, meta.EmbedHeight = spotifyEmbedDefaults(c)

	endpoint := fmt.Sprintf("%s?url=%s", r.oembedBase, url.QueryEscape(c.Raw))
	data, err := fetchOEmbed(ctx, r.httpClient, endpoint)
	if err != nil {
		if r.api != nil && c.URL != nil {
			id := normalizeSpotifyID(lastPathSegment(c.URL.EscapedPath()))
			if title, thumb, apiErr := r.api.Lookup(ctx, c.SpotifyResourceType, id); apiErr == nil {
				meta.Title = title
				meta.ThumbURL = thumb
				return meta, nil
			}
		}
		return meta, err
	}

	meta.Title = data.Title
	meta.ThumbURL = data.ThumbnailURL

	if src, height, ok := parseIframe(data.HTML); ok {
		meta.EmbedURL = src
		if height > 0 {
			meta.EmbedHeight = height
		}
	}

	return meta, nil
}

// normalizeSpotifyID strips any query or fragment residue from a path
// segment used as a resource id.
func normalizeSpotifyID(seg string) string {
	if i := strings.IndexAny(seg, "?#"); i >= 0 {
		return seg[:i]
	}
	return seg
}
