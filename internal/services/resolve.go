package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/shared"
)

// Pipeline is the single entry point for link resolution: it classifies a
// URL, dispatches to the matching provider resolver, and tags the result
// with the provider kind. Resolver fetch errors are logged and degraded to
// absent fields here; callers never see them.
type Pipeline struct {
	youtube Resolver
	spotify Resolver
	apple   Resolver
	generic Resolver
	logger  *log.Logger
}

// PipelineOpts contains the per-provider resolvers for a Pipeline. Nil
// fields get default resolvers built on the given HTTP client.
type PipelineOpts struct {
	YouTube Resolver
	Spotify Resolver
	Apple   Resolver
	Generic Resolver
	Logger  *log.Logger
}

// NewPipeline creates a Pipeline with defaults filled in from opts.
func NewPipeline(opts PipelineOpts) *Pipeline {
	if opts.YouTube == nil {
		opts.YouTube = NewYouTubeResolver(nil)
	}
	if opts.Spotify == nil {
		opts.Spotify = NewSpotifyResolver(nil, nil)
	}
	if opts.Apple == nil {
		opts.Apple = NewAppleResolver(nil)
	}
	if opts.Generic == nil {
		opts.Generic = NewGenericResolver()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Pipeline{
		youtube: opts.YouTube,
		spotify: opts.Spotify,
		apple:   opts.Apple,
		generic: opts.Generic,
		logger:  opts.Logger,
	}
}

// Resolve classifies rawURL and runs the matching resolver. The result is
// always usable: a failed provider call leaves the offline-derived fields
// and drops the rest.
func (p *Pipeline) Resolve(ctx context.Context, rawURL string) models.Resolved {
	c := Classify(rawURL)

	var resolver Resolver
	switch c.Kind {
	case models.ProviderYouTube:
		resolver = p.youtube
	case models.ProviderSpotify:
		resolver = p.spotify
	case models.ProviderApple:
		resolver = p.apple
	case models.ProviderLink:
		resolver = p.generic
	}

	meta, err := resolver.Resolve(ctx, c)
	if err != nil {
		p.logger.Warn("metadata fetch degraded", "provider", c.Kind, "url", rawURL, "err", err)
	}

	return models.Resolved{Provider: c.Kind, LinkMetadata: meta}
}
