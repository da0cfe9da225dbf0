package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestLinkCacheRepository(t *testing.T) {
	videoURL := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	resolved := models.Resolved{
		Provider: models.ProviderYouTube,
		LinkMetadata: models.LinkMetadata{
			Title:    "Test Video",
			ThumbURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
			VideoID:  "dQw4w9WgXcQ",
		},
	}

	t.Run("Get misses on an empty cache", func(t *testing.T) {
		repo := NewLinkCacheRepository(setupTestDB(t), 0)

		_, ok, err := repo.Get(videoURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected a cache miss")
		}
	})

	t.Run("Put then Get round-trips metadata", func(t *testing.T) {
		repo := NewLinkCacheRepository(setupTestDB(t), 0)

		if err := repo.Put(videoURL, resolved); err != nil {
			t.Fatalf("failed to cache link: %v", err)
		}

		got, ok, err := repo.Get(videoURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected a cache hit")
		}
		if got.Provider != models.ProviderYouTube {
			t.Errorf("expected provider youtube, got %s", got.Provider)
		}
		if got.Title != resolved.Title {
			t.Errorf("expected title %q, got %q", resolved.Title, got.Title)
		}
		if got.VideoID != resolved.VideoID {
			t.Errorf("expected video id %q, got %q", resolved.VideoID, got.VideoID)
		}
	})

	t.Run("Put replaces an existing entry", func(t *testing.T) {
		repo := NewLinkCacheRepository(setupTestDB(t), 0)

		if err := repo.Put(videoURL, resolved); err != nil {
			t.Fatalf("failed to cache link: %v", err)
		}

		updated := resolved
		updated.Title = "Renamed Video"
		if err := repo.Put(videoURL, updated); err != nil {
			t.Fatalf("failed to replace cached link: %v", err)
		}

		got, ok, err := repo.Get(videoURL)
		if err != nil || !ok {
			t.Fatalf("expected a cache hit, got ok=%v err=%v", ok, err)
		}
		if got.Title != "Renamed Video" {
			t.Errorf("expected replaced title, got %q", got.Title)
		}
	})

	t.Run("Get misses when the entry has expired", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLinkCacheRepository(db, time.Hour)

		if err := repo.Put(videoURL, resolved); err != nil {
			t.Fatalf("failed to cache link: %v", err)
		}

		stale := time.Now().UTC().Add(-2 * time.Hour)
		if _, err := db.Exec("UPDATE link_cache SET resolved_at = ?", stale); err != nil {
			t.Fatalf("failed to age entry: %v", err)
		}

		_, ok, err := repo.Get(videoURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected expired entry to miss")
		}
	})

	t.Run("Purge deletes old entries and keeps fresh ones", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLinkCacheRepository(db, 0)

		if err := repo.Put(videoURL, resolved); err != nil {
			t.Fatalf("failed to cache link: %v", err)
		}
		if err := repo.Put("https://example.com/old", models.Resolved{Provider: models.ProviderLink}); err != nil {
			t.Fatalf("failed to cache link: %v", err)
		}

		stale := time.Now().UTC().Add(-48 * time.Hour)
		if _, err := db.Exec("UPDATE link_cache SET resolved_at = ? WHERE url = ?", stale, "https://example.com/old"); err != nil {
			t.Fatalf("failed to age entry: %v", err)
		}

		deleted, err := repo.Purge(24 * time.Hour)
		if err != nil {
			t.Fatalf("failed to purge: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted row, got %d", deleted)
		}

		if _, ok, _ := repo.Get(videoURL); !ok {
			t.Error("expected fresh entry to survive purge")
		}
	})
}
