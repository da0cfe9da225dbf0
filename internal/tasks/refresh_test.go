package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/shared"
	tu "github.com/desertthunder/vinlylog/internal/testing"
)

func TestRefreshCache(t *testing.T) {
	ctx := context.Background()

	entries := []models.LinkEntry{
		{URL: "https://youtu.be/abc", AddedAt: "2024-01-01T00:00:00.000Z"},
		{URL: "https://youtu.be/def", AddedAt: "2024-02-01T00:00:00.000Z"},
		{URL: "https://youtu.be/abc", AddedAt: "2024-03-01T00:00:00.000Z"},
	}

	t.Run("re-resolves each distinct url into the cache", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entries...))
		engine, resolver, cache := newTestEngine(store)
		resolver.Result = models.Resolved{Provider: models.ProviderYouTube}

		result, err := engine.RefreshCache(ctx, "ada", RefreshOpts{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.TotalLinks != 2 {
			t.Errorf("expected 2 distinct urls, got %d", result.TotalLinks)
		}
		if result.Refreshed != 2 || result.Failed != 0 {
			t.Errorf("expected 2 refreshed, got %+v", result)
		}
		if resolver.CallCount() != 2 {
			t.Errorf("expected 2 resolutions, got %d", resolver.CallCount())
		}
		if len(cache.Entries) != 2 {
			t.Errorf("expected 2 cache entries, got %d", len(cache.Entries))
		}
	})

	t.Run("never touches the shared document", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entries...))
		engine, _, _ := newTestEngine(store)

		if _, err := engine.RefreshCache(ctx, "ada", RefreshOpts{}, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.Stored) != 0 {
			t.Error("expected no document writes during a refresh")
		}
	})

	t.Run("counts cache write failures without aborting", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entries...))
		engine, _, cache := newTestEngine(store)
		cache.PutErr = errors.New("disk gone")

		result, err := engine.RefreshCache(ctx, "ada", RefreshOpts{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed != 2 || result.Refreshed != 0 {
			t.Errorf("expected all failures counted, got %+v", result)
		}
		for _, outcome := range result.Outcomes {
			if outcome.Success || outcome.Error == nil {
				t.Errorf("expected failed outcome, got %+v", outcome)
			}
		}
	})

	t.Run("emits progress updates", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entries...))
		engine, _, _ := newTestEngine(store)

		progress := make(chan ProgressUpdate, 16)
		if _, err := engine.RefreshCache(ctx, "ada", RefreshOpts{}, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		var refreshed int
		for update := range progress {
			if update.Phase == RefreshLinks {
				refreshed++
			}
		}
		if refreshed == 0 {
			t.Error("expected refresh progress updates")
		}
	})

	t.Run("an empty list is a no-op", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, resolver, _ := newTestEngine(store)

		result, err := engine.RefreshCache(ctx, "ada", RefreshOpts{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalLinks != 0 || resolver.CallCount() != 0 {
			t.Errorf("expected nothing to refresh, got %+v", result)
		}
	})

	t.Run("requires a configured cache", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entries...))
		engine := NewShelfEngine(store, &tu.StaticResolver{}, nil, nil)

		if _, err := engine.RefreshCache(ctx, "ada", RefreshOpts{}, nil); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Fatalf("expected config error, got %v", err)
		}
	})

	t.Run("fails for an unknown user", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, _, _ := newTestEngine(store)

		if _, err := engine.RefreshCache(ctx, "ghost", RefreshOpts{}, nil); !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected user not found, got %v", err)
		}
	})
}
