package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vinlylog/internal/models"
)

// GenericResolver handles links that belong to no known provider. It makes
// no network call and returns empty metadata; display labels come from
// [LinkLabel] at render time.
type GenericResolver struct{}

// NewGenericResolver creates the no-op fallback resolver.
func NewGenericResolver() *GenericResolver {
	return &GenericResolver{}
}

// Resolve returns empty metadata.
func (r *GenericResolver) Resolve(_ context.Context, _ Classification) (models.LinkMetadata, error) {
	return models.LinkMetadata{}, nil
}

// LinkLabel derives a human-readable label for a URL with no stored title.
// YouTube links get a mix/playlist/video label, other hosts fall back to
// their bare hostname, and unparseable input yields the literal "Link".
func LinkLabel(rawURL string) string {
	c := Classify(rawURL)
	if c.URL == nil {
		return "Link"
	}

	if c.Host == "youtu.be" {
		return fmt.Sprintf("YouTube: %s", strings.TrimPrefix(c.URL.Path, "/"))
	}

	if strings.HasSuffix(c.Host, "youtube.com") {
		list := c.URL.Query().Get("list")
		v := c.URL.Query().Get("v")
		switch {
		case list != "" && v != "":
			return fmt.Sprintf("YouTube mix: %s", v)
		case list != "":
			return fmt.Sprintf("YouTube playlist: %s", list)
		case v != "":
			return fmt.Sprintf("YouTube video: %s", v)
		}
	}

	return c.Host
}
