// YouTube metadata [Resolver] implementation.
//
// The only network call is the public oEmbed endpoint; everything else
// (embed URL, fallback thumbnail) derives from the video id alone, so a
// failed oEmbed call still yields a playable entry.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/vinlylog/internal/models"
)

const (
	youtubeOEmbedURL = "https://www.youtube.com/oembed"
	youtubeEmbedBase = "https://www.youtube-nocookie.com/embed"
	youtubeThumbBase = "https://i.ytimg.com/vi"
)

var shortsPattern = regexp.MustCompile(`^/shorts/([^/?#]+)`)

// ExtractVideoID pulls the video id out of a YouTube URL: the v= query
// param, the youtu.be path, or a /shorts/<id> path. Returns "" when no id
// can be found or the URL is malformed.
func ExtractVideoID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	if host == "youtu.be" {
		return strings.TrimPrefix(u.Path, "/")
	}

	if strings.HasSuffix(host, "youtube.com") {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		if m := shortsPattern.FindStringSubmatch(u.Path); m != nil {
			return m[1]
		}
	}

	return ""
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// EmbedURL returns the privacy-enhanced embed player URL for a video id.
func EmbedURL(videoID string) string {
	return fmt.Sprintf("%s/%s?rel=0&modestbranding=1", youtubeEmbedBase, url.PathEscape(videoID))
}

// YouTubeResolver resolves YouTube watch/short/share links via oEmbed.
type YouTubeResolver struct {
	oembedBase string
	httpClient *http.Client
}

// NewYouTubeResolver creates a YouTube resolver using the given HTTP client.
func NewYouTubeResolver(client *http.Client) *YouTubeResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &YouTubeResolver{oembedBase: youtubeOEmbedURL, httpClient: client}
}

// Resolve extracts the video id, derives the embed URL, and asks oEmbed for
// title and thumbnail. On oEmbed failure the deterministic hqdefault
// thumbnail is substituted and the error is returned alongside the partial
// metadata.
func (r *YouTubeResolver) Resolve(ctx context.Context, c Classification) (models.LinkMetadata, error) {
	meta := models.LinkMetadata{VideoID: ExtractVideoID(c.Raw)}

	target := c.Raw
	if meta.VideoID != "" {
		meta.EmbedURL = EmbedURL(meta.VideoID)
		target = WatchURL(meta.VideoID)
	}

	endpoint := fmt.Sprintf("%s?format=json&url=%s", r.oembedBase, url.QueryEscape(target))
	data, err := fetchOEmbed(ctx, r.httpClient, endpoint)
	if err != nil {
		if meta.VideoID != "" {
			meta.ThumbURL = fallbackThumb(meta.VideoID)
		}
		return meta, err
	}

	meta.Title = data.Title
	meta.ThumbURL = data.ThumbnailURL
	if meta.ThumbURL == "" && meta.VideoID != "" {
		meta.ThumbURL = fallbackThumb(meta.VideoID)
	}

	return meta, nil
}

func fallbackThumb(videoID string) string {
	return fmt.Sprintf("%s/%s/hqdefault.jpg", youtubeThumbBase, url.PathEscape(videoID))
}
