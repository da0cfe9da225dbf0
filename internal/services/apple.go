// Apple Music metadata [Resolver] implementation.
//
// Fallback chain: host rewrite to the embed subdomain (offline), then the
// oEmbed endpoint, then the iTunes Lookup API keyed by storefront country
// and numeric resource id.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/desertthunder/vinlylog/internal/models"
)

const (
	appleOEmbedURL = "https://music.apple.com/oembed"
	appleLookupURL = "https://itunes.apple.com"
	appleEmbedHost = "embed.music.apple.com"

	appleEmbedHeight     = 150
	defaultStorefront    = "us"
	upscaledArtworkClass = "600x600bb.jpg"
)

var (
	storefrontPattern = regexp.MustCompile(`^[a-zA-Z]{2}$`)
	numericIDPattern  = regexp.MustCompile(`^\d+$`)
	artworkPattern    = regexp.MustCompile(`(?i)\d+x\d+bb\.jpg$`)
)

// lookupResult is one entry of an iTunes Lookup response.
type lookupResult struct {
	CollectionName string `json:"collectionName"`
	TrackName      string `json:"trackName"`
	ArtistName     string `json:"artistName"`
	ArtworkURL100  string `json:"artworkUrl100"`
}

// AppleResolver resolves music.apple.com links.
type AppleResolver struct {
	oembedBase string
	lookupBase string
	httpClient *http.Client
}

// NewAppleResolver creates an Apple Music resolver using the given HTTP client.
func NewAppleResolver(client *http.Client) *AppleResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &AppleResolver{
		oembedBase: appleOEmbedURL,
		lookupBase: appleLookupURL,
		httpClient: client,
	}
}

// Resolve derives the embed player URL by host rewrite, then layers oEmbed
// and the iTunes lookup on top for title and artwork.
func (r *AppleResolver) Resolve(ctx context.Context, c Classification) (models.LinkMetadata, error) {
	var meta models.LinkMetadata

	if c.URL != nil {
		embed := *c.URL
		embed.Scheme = "https"
		embed.Host = appleEmbedHost
		meta.EmbedURL = embed.String()
		meta.EmbedHeight = appleEmbedHeight
	}

	endpoint := fmt.Sprintf("%s?url=%s", r.oembedBase, url.QueryEscape(c.Raw))
	data, err := fetchOEmbed(ctx, r.httpClient, endpoint)
	if err == nil {
		meta.Title = data.Title
		meta.ThumbURL = data.ThumbnailURL
		if src, height, ok := parseIframe(data.HTML); ok {
			meta.EmbedURL = src
			if height > 0 {
				meta.EmbedHeight = height
			}
		}
	}

	if meta.Title != "" && meta.ThumbURL != "" {
		return meta, nil
	}

	title, thumb, lookupErr := r.lookup(ctx, c)
	if lookupErr != nil {
		// Keep whatever oEmbed produced; surface the first failure.
		if err != nil {
			return meta, err
		}
		return meta, nil
	}

	if meta.Title == "" {
		meta.Title = title
	}
	if meta.ThumbURL == "" {
		meta.ThumbURL = thumb
	}

	return meta, nil
}

// lookup queries the iTunes Lookup API using the storefront country parsed
// from the URL's first path segment and the numeric id from its last.
func (r *AppleResolver) lookup(ctx context.Context, c Classification) (title, thumbURL string, err error) {
	if c.URL == nil {
		return "", "", fmt.Errorf("no parseable URL for lookup")
	}

	id := lastPathSegment(c.URL.EscapedPath())
	if !numericIDPattern.MatchString(id) {
		return "", "", fmt.Errorf("no numeric resource id in path %q", c.URL.Path)
	}

	country := defaultStorefront
	if first := firstPathSegment(c.URL.EscapedPath()); storefrontPattern.MatchString(first) {
		country = first
	}

	endpoint := fmt.Sprintf("%s/lookup?id=%s&country=%s", r.lookupBase, url.QueryEscape(id), url.QueryEscape(country))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("lookup error: status %d", resp.StatusCode)
	}

	var payload struct {
		Results []lookupResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if len(payload.Results) == 0 {
		return "", "", fmt.Errorf("lookup returned no results")
	}

	result := payload.Results[0]

	name := result.TrackName
	if name == "" {
		name = result.CollectionName
	}
	title = name
	if title != "" && result.ArtistName != "" {
		title = fmt.Sprintf("%s - %s", name, result.ArtistName)
	}

	return title, upscaleArtwork(result.ArtworkURL100), nil
}

// upscaleArtwork rewrites a 100x100 artwork URL to its 600x600 variant.
func upscaleArtwork(artworkURL string) string {
	if artworkURL == "" {
		return ""
	}
	return artworkPattern.ReplaceAllString(artworkURL, upscaledArtworkClass)
}
