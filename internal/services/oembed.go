package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// oEmbedResponse is the subset of the oEmbed JSON shape the resolvers use.
// All providers here return at least title/thumbnail_url; Spotify and Apple
// additionally return embed markup in html.
type oEmbedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	HTML         string `json:"html"`
}

// fetchOEmbed performs a GET against an oEmbed endpoint and decodes the
// response. Non-2xx statuses are errors; the caller decides how to degrade.
func fetchOEmbed(ctx context.Context, client *http.Client, endpoint string) (*oEmbedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oembed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oembed error: status %d", resp.StatusCode)
	}

	var data oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}

	data.Title = strings.TrimSpace(data.Title)
	data.ThumbnailURL = strings.TrimSpace(data.ThumbnailURL)
	return &data, nil
}

var (
	iframeSrcPattern    = regexp.MustCompile(`(?is)<iframe[^>]*\bsrc="([^"]+)"`)
	iframeHeightPattern = regexp.MustCompile(`(?is)<iframe[^>]*\bheight="(\d+)"`)
)

// parseIframe extracts the src and height attributes from oEmbed embed
// markup. ok is false when the markup contains no iframe src.
func parseIframe(html string) (src string, height int, ok bool) {
	m := iframeSrcPattern.FindStringSubmatch(html)
	if m == nil {
		return "", 0, false
	}
	src = m[1]

	if hm := iframeHeightPattern.FindStringSubmatch(html); hm != nil {
		height, _ = strconv.Atoi(hm[1])
	}

	return src, height, true
}
