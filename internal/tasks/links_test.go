package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/shared"
	tu "github.com/desertthunder/vinlylog/internal/testing"
)

func docWithUser(entries ...models.LinkEntry) *models.Document {
	if entries == nil {
		entries = []models.LinkEntry{}
	}
	return &models.Document{
		Users:     []models.User{{Username: "ada", Pin: "1234", Playlists: entries}},
		UpdatedAt: "2024-01-01T00:00:00.000Z",
	}
}

var adaSession = models.Session{Username: "ada", Pin: "1234"}

func TestAddLink(t *testing.T) {
	ctx := context.Background()
	videoURL := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	t.Run("rejects a blank url", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, resolver, _ := newTestEngine(store)

		_, err := engine.AddLink(ctx, adaSession, "  ", "", nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
		if resolver.CallCount() != 0 {
			t.Error("expected no resolution for invalid input")
		}
	})

	t.Run("appends a resolved entry to the user's list", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, resolver, _ := newTestEngine(store)
		resolver.Result = models.Resolved{
			Provider: models.ProviderYouTube,
			LinkMetadata: models.LinkMetadata{
				Title:   "Never Gonna Give You Up",
				VideoID: "dQw4w9WgXcQ",
			},
		}

		entry, err := engine.AddLink(ctx, adaSession, videoURL, "a classic", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Provider != models.ProviderYouTube || entry.VideoID != "dQw4w9WgXcQ" {
			t.Errorf("expected resolved metadata on entry, got %+v", entry)
		}
		if entry.Note != "a classic" {
			t.Errorf("expected note to carry through, got %q", entry.Note)
		}
		if entry.AddedAt == "" {
			t.Error("expected a timestamp on the entry")
		}

		stored := store.LastStored()
		if stored == nil {
			t.Fatal("expected a stored document")
		}
		user := models.FindUser(stored, "ada")
		if user == nil || len(user.Playlists) != 1 {
			t.Fatalf("expected one stored entry, got %+v", user)
		}
		if user.Playlists[0].Key() != entry.Key() {
			t.Errorf("expected stored entry to match returned entry")
		}
		if stored.UpdatedAt <= "2024-01-01T00:00:00.000Z" {
			t.Errorf("expected updatedAt to advance, got %s", stored.UpdatedAt)
		}
	})

	t.Run("serves repeat urls from the metadata cache", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, resolver, _ := newTestEngine(store)

		if _, err := engine.AddLink(ctx, adaSession, videoURL, "", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := engine.AddLink(ctx, adaSession, videoURL, "again", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resolver.CallCount() != 1 {
			t.Errorf("expected a single live resolution, got %d", resolver.CallCount())
		}
	})

	t.Run("recreates the user row when another client removed it", func(t *testing.T) {
		store := tu.NewMockDocStore(nil)
		engine, _, _ := newTestEngine(store)

		if _, err := engine.AddLink(ctx, adaSession, videoURL, "", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		user := models.FindUser(store.LastStored(), "ada")
		if user == nil {
			t.Fatal("expected user row to be recreated")
		}
		if user.Pin != "1234" || len(user.Playlists) != 1 {
			t.Errorf("expected recreated user with the new entry, got %+v", user)
		}
	})

	t.Run("aborts on a pin mismatch without writing", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, _, _ := newTestEngine(store)

		_, err := engine.AddLink(ctx, models.Session{Username: "ada", Pin: "9999"}, videoURL, "", nil)
		if !errors.Is(err, shared.ErrPinMismatch) {
			t.Fatalf("expected pin mismatch, got %v", err)
		}
		if len(store.Stored) != 0 {
			t.Error("expected no write on a pin mismatch")
		}
	})

	t.Run("falls through to live resolution when the cache fails", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, resolver, cache := newTestEngine(store)
		cache.GetErr = errors.New("disk gone")
		cache.PutErr = errors.New("disk gone")

		if _, err := engine.AddLink(ctx, adaSession, videoURL, "", nil); err != nil {
			t.Fatalf("expected cache failures to be soft, got %v", err)
		}
		if resolver.CallCount() != 1 {
			t.Errorf("expected a live resolution, got %d calls", resolver.CallCount())
		}
	})
}

func TestRemoveLink(t *testing.T) {
	ctx := context.Background()
	entry := models.LinkEntry{
		URL:     "https://example.com/mix",
		AddedAt: "2024-03-01T10:00:00.000Z",
	}

	t.Run("removes the entry matching the key", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entry))
		engine, _, _ := newTestEngine(store)

		if err := engine.RemoveLink(ctx, adaSession, entry.AddedAt, entry.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		user := models.FindUser(store.LastStored(), "ada")
		if user == nil || len(user.Playlists) != 0 {
			t.Errorf("expected entry to be removed, got %+v", user)
		}
	})

	t.Run("aborts without writing when no entry matches", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entry))
		engine, _, _ := newTestEngine(store)

		err := engine.RemoveLink(ctx, adaSession, "2024-03-01T10:00:00.000Z", "https://example.com/other")
		if !errors.Is(err, shared.ErrLinkNotFound) {
			t.Fatalf("expected link not found, got %v", err)
		}
		if len(store.Stored) != 0 {
			t.Error("expected no write when the entry is missing")
		}
	})

	t.Run("same url at a different time is a different entry", func(t *testing.T) {
		other := entry
		other.AddedAt = "2024-03-02T10:00:00.000Z"
		store := tu.NewMockDocStore(docWithUser(entry, other))
		engine, _, _ := newTestEngine(store)

		if err := engine.RemoveLink(ctx, adaSession, other.AddedAt, other.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		user := models.FindUser(store.LastStored(), "ada")
		if len(user.Playlists) != 1 || user.Playlists[0].AddedAt != entry.AddedAt {
			t.Errorf("expected only the matching entry removed, got %+v", user.Playlists)
		}
	})

	t.Run("fails for an unknown user", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entry))
		engine, _, _ := newTestEngine(store)

		err := engine.RemoveLink(ctx, models.Session{Username: "ghost", Pin: "1234"}, entry.AddedAt, entry.URL)
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected user not found, got %v", err)
		}
	})
}

func TestListLinks(t *testing.T) {
	ctx := context.Background()

	oldest := models.LinkEntry{URL: "https://example.com/a", Title: "First", AddedAt: "2024-01-01T00:00:00.000Z"}
	middle := models.LinkEntry{URL: "https://example.com/b", Title: "Second", AddedAt: "2024-02-01T00:00:00.000Z"}
	newest := models.LinkEntry{URL: "https://example.com/c", Title: "Third", AddedAt: "2024-03-01T00:00:00.000Z"}

	t.Run("returns entries newest first", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(middle, newest, oldest))
		engine, _, _ := newTestEngine(store)

		entries, err := engine.ListLinks(ctx, "ada")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		for i, want := range []string{"Third", "Second", "First"} {
			if entries[i].Title != want {
				t.Errorf("position %d: expected %s, got %s", i, want, entries[i].Title)
			}
		}
	})

	t.Run("matches usernames case-insensitively", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(oldest))
		engine, _, _ := newTestEngine(store)

		if _, err := engine.ListLinks(ctx, "ADA"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("fails for an unknown user", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser())
		engine, _, _ := newTestEngine(store)

		_, err := engine.ListLinks(ctx, "ghost")
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected user not found, got %v", err)
		}
	})
}

func TestSearchLinks(t *testing.T) {
	ctx := context.Background()

	entries := []models.LinkEntry{
		{URL: "https://open.spotify.com/album/1", Title: "Blue Train", Note: "late night", AddedAt: "2024-01-01T00:00:00.000Z"},
		{URL: "https://example.com/radio", Title: "Morning Show", AddedAt: "2024-02-01T00:00:00.000Z"},
		{URL: "https://youtu.be/abc", Note: "train songs", AddedAt: "2024-03-01T00:00:00.000Z"},
	}

	t.Run("matches title, note, and url case-insensitively", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entries...))
		engine, _, _ := newTestEngine(store)

		matches, err := engine.SearchLinks(ctx, "ada", "TRAIN")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(matches))
		}

		matches, err = engine.SearchLinks(ctx, "ada", "spotify.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 || matches[0].Title != "Blue Train" {
			t.Errorf("expected the url match, got %+v", matches)
		}
	})

	t.Run("an empty query returns everything", func(t *testing.T) {
		store := tu.NewMockDocStore(docWithUser(entries...))
		engine, _, _ := newTestEngine(store)

		matches, err := engine.SearchLinks(ctx, "ada", "   ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 3 {
			t.Errorf("expected all entries, got %d", len(matches))
		}
	})
}

func TestExportDocumentFile(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the document as pretty JSON", func(t *testing.T) {
		entry := models.LinkEntry{URL: "https://example.com", AddedAt: "2024-01-01T00:00:00.000Z"}
		store := tu.NewMockDocStore(docWithUser(entry))
		engine, _, _ := newTestEngine(store)

		path := filepath.Join(t.TempDir(), "export.json")
		written, err := engine.ExportDocumentFile(ctx, path, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		var doc models.Document
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &doc); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(doc.Users) != 1 || len(doc.Users[0].Playlists) != 1 {
			t.Errorf("expected full document in export, got %+v", doc)
		}
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		store := tu.NewMockDocStore(nil)
		store.FetchErr = shared.ErrRemoteUnavailable
		engine, _, _ := newTestEngine(store)

		if _, err := engine.ExportDocumentFile(ctx, filepath.Join(t.TempDir(), "x.json"), nil); !errors.Is(err, shared.ErrRemoteUnavailable) {
			t.Fatalf("expected remote error, got %v", err)
		}
	})
}
