package services

import (
	"context"

	"github.com/desertthunder/vinlylog/internal/models"
)

// Resolver fetches display and embed metadata for a classified link.
//
// The returned metadata is usable even when err != nil: offline-derived
// fields (embed URLs, fallback thumbnails) survive a failed API call.
// Implementations never return transport errors for fields they can
// derive without the network.
type Resolver interface {
	Resolve(ctx context.Context, c Classification) (models.LinkMetadata, error)
}

// DocumentStore abstracts the remote document host for fetch and store of
// the single shared document.
type DocumentStore interface {
	Fetch(ctx context.Context) (*models.Document, error)
	Store(ctx context.Context, doc *models.Document) error
}
