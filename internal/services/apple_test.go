package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAppleResolver(t *testing.T) {
	ctx := context.Background()
	raw := "https://music.apple.com/us/album/abbey-road/1441164426"

	t.Run("derives the embed url by host rewrite", func(t *testing.T) {
		oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"title":"Abbey Road","thumbnail_url":"https://is1-ssl.mzstatic.com/cover.jpg"}`)
		}))
		defer oembed.Close()

		resolver := NewAppleResolver(oembed.Client())
		resolver.oembedBase = oembed.URL

		meta, err := resolver.Resolve(ctx, Classify(raw))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if meta.EmbedURL != "https://embed.music.apple.com/us/album/abbey-road/1441164426" {
			t.Errorf("unexpected embed url %q", meta.EmbedURL)
		}
		if meta.EmbedHeight != appleEmbedHeight {
			t.Errorf("unexpected embed height %d", meta.EmbedHeight)
		}
		if meta.Title != "Abbey Road" {
			t.Errorf("unexpected title %q", meta.Title)
		}
	})

	t.Run("falls back to the itunes lookup when oembed fails", func(t *testing.T) {
		oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer oembed.Close()

		lookup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("id") != "1441164426" {
				t.Errorf("unexpected lookup id %q", r.URL.Query().Get("id"))
			}
			if r.URL.Query().Get("country") != "us" {
				t.Errorf("unexpected storefront %q", r.URL.Query().Get("country"))
			}
			io.WriteString(w, `{"results":[{"collectionName":"Abbey Road","artistName":"The Beatles",`+
				`"artworkUrl100":"https://is1-ssl.mzstatic.com/image/100x100bb.jpg"}]}`)
		}))
		defer lookup.Close()

		resolver := NewAppleResolver(oembed.Client())
		resolver.oembedBase = oembed.URL
		resolver.lookupBase = lookup.URL

		meta, err := resolver.Resolve(ctx, Classify(raw))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if meta.Title != "Abbey Road - The Beatles" {
			t.Errorf("unexpected title %q", meta.Title)
		}
		if meta.ThumbURL != "https://is1-ssl.mzstatic.com/image/600x600bb.jpg" {
			t.Errorf("expected upscaled artwork, got %q", meta.ThumbURL)
		}
		if meta.EmbedURL == "" {
			t.Error("expected the derived embed url to survive")
		}
	})

	t.Run("surfaces the oembed failure when lookup also fails", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer failing.Close()

		resolver := NewAppleResolver(failing.Client())
		resolver.oembedBase = failing.URL
		resolver.lookupBase = failing.URL

		meta, err := resolver.Resolve(ctx, Classify(raw))
		if err == nil {
			t.Fatal("expected an error")
		}
		if meta.EmbedURL == "" {
			t.Error("expected offline fields to survive")
		}
	})
}

func TestUpscaleArtwork(t *testing.T) {
	got := upscaleArtwork("https://example.com/art/100x100bb.jpg")
	if got != "https://example.com/art/600x600bb.jpg" {
		t.Errorf("unexpected artwork url %q", got)
	}
	if upscaleArtwork("") != "" {
		t.Error("expected empty input to stay empty")
	}
}

func TestParseIframe(t *testing.T) {
	t.Run("extracts src and height", func(t *testing.T) {
		src, height, ok := parseIframe(`<iframe id="embed" src="https://embed.example.com/x" height="450" width="660"></iframe>`)
		if !ok || src != "https://embed.example.com/x" || height != 450 {
			t.Errorf("unexpected result: %q %d %v", src, height, ok)
		}
	})

	t.Run("markup without an iframe", func(t *testing.T) {
		if _, _, ok := parseIframe(`<blockquote>nope</blockquote>`); ok {
			t.Error("expected ok=false")
		}
	})
}
