// Optional Spotify Web API client used as a secondary metadata fallback.
//
// Uses the client-credentials grant via [clientcredentials.Config]; no user
// authorization is involved, only catalog reads.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/vinlylog/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyAPIBase  = "https://api.spotify.com/v1"
)

// spotifyImage is an image resource in Web API responses.
type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// spotifyResource is the subset of track/album/playlist objects needed for
// title and artwork fallback.
type spotifyResource struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
	Album  *struct {
		Images []spotifyImage `json:"images"`
	} `json:"album"`
}

// SpotifyAPI performs catalog lookups against the Spotify Web API.
type SpotifyAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyAPI creates a Web API client authenticated with the
// client-credentials flow. Token refresh is handled by the oauth2 client.
func NewSpotifyAPI(ctx context.Context, cfg shared.SpotifyConfig) (*SpotifyAPI, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: spotify client credentials", shared.ErrMissingConfig)
	}

	conf := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyAPI{
		baseURL:    spotifyAPIBase,
		httpClient: conf.Client(ctx),
	}, nil
}

// resourceEndpoints maps oEmbed resource types to Web API collections.
var resourceEndpoints = map[string]string{
	"track":    "tracks",
	"album":    "albums",
	"playlist": "playlists",
}

// Lookup fetches the display title and artwork URL for a resource. Resource
// types without a catalog endpoint (show, episode, artist) return an error
// and the caller keeps its offline-derived fields.
func (a *SpotifyAPI) Lookup(ctx context.Context, resourceType, id string) (title, thumbURL string, err error) {
	collection, ok := resourceEndpoints[resourceType]
	if !ok || id == "" {
		return "", "", fmt.Errorf("no catalog endpoint for resource type %q", resourceType)
	}

	endpoint := fmt.Sprintf("%s/%s/%s", a.baseURL, collection, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	var resource spotifyResource
	if err := json.NewDecoder(resp.Body).Decode(&resource); err != nil {
		return "", "", fmt.Errorf("failed to decode response: %w", err)
	}

	images := resource.Images
	if len(images) == 0 && resource.Album != nil {
		images = resource.Album.Images
	}
	if len(images) > 0 {
		thumbURL = images[0].URL
	}

	return resource.Name, thumbURL, nil
}
