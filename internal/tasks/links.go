package tasks

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/services"
	"github.com/desertthunder/vinlylog/internal/shared"
)

// LinkResolver resolves a raw URL into provider-tagged metadata.
// Implemented by [services.Pipeline].
type LinkResolver interface {
	Resolve(ctx context.Context, rawURL string) models.Resolved
}

// MetadataCache is the local store of resolved link metadata. Implemented
// by [repositories.LinkCacheRepository]. Cache failures are soft: the
// engine logs them and falls through to a live resolution.
type MetadataCache interface {
	Get(url string) (models.Resolved, bool, error)
	Put(url string, resolved models.Resolved) error
}

// ShelfEngine orchestrates all operations on the shared link document:
// sign-in, link mutations, listing, search, export, and cache refreshes.
type ShelfEngine struct {
	store    services.DocumentStore
	resolver LinkResolver
	cache    MetadataCache
	merge    *MergeEngine
	logger   *log.Logger
}

// NewShelfEngine creates a ShelfEngine with the provided dependencies.
// cache may be nil to disable local metadata caching.
func NewShelfEngine(store services.DocumentStore, resolver LinkResolver, cache MetadataCache, logger *log.Logger) *ShelfEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ShelfEngine{
		store:    store,
		resolver: resolver,
		cache:    cache,
		merge:    NewMergeEngine(store, logger),
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ShelfEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// resolve returns metadata for rawURL, consulting the cache first and
// filling it after a live resolution.
func (e *ShelfEngine) resolve(ctx context.Context, rawURL string) models.Resolved {
	if e.cache != nil {
		cached, ok, err := e.cache.Get(rawURL)
		if err != nil {
			e.logger.Warn("metadata cache read failed", "url", rawURL, "err", err)
		} else if ok {
			return cached
		}
	}

	resolved := e.resolver.Resolve(ctx, rawURL)

	if e.cache != nil {
		if err := e.cache.Put(rawURL, resolved); err != nil {
			e.logger.Warn("metadata cache write failed", "url", rawURL, "err", err)
		}
	}

	return resolved
}

// claimUser returns the document user matching the session, verifying the
// pin. A missing user is recreated from the session (the session was
// authenticated against a document state that another client has since
// rewritten).
func claimUser(doc *models.Document, session models.Session) (*models.User, error) {
	if user := models.FindUser(doc, session.Username); user != nil {
		if user.Pin != session.Pin {
			return nil, shared.ErrPinMismatch
		}
		return user, nil
	}

	doc.Users = append(doc.Users, models.User{
		Username:  session.Username,
		Pin:       session.Pin,
		Playlists: []models.LinkEntry{},
	})
	return &doc.Users[len(doc.Users)-1], nil
}

// AddLink resolves rawURL's metadata and appends a new entry to the
// session user's list. Returns the entry as written.
func (e *ShelfEngine) AddLink(ctx context.Context, session models.Session, rawURL, note string, progress chan<- ProgressUpdate) (models.LinkEntry, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return models.LinkEntry{}, fmt.Errorf("%w: url is required", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, resolveLinkUpdate(1, 2, rawURL))
	entry := models.NewEntry(rawURL, note, e.resolve(ctx, rawURL))

	e.sendProgress(progress, mergeDocumentUpdate(2, 2))
	_, err := e.merge.Apply(ctx, func(doc *models.Document) error {
		user, err := claimUser(doc, session)
		if err != nil {
			return err
		}
		user.Playlists = append(user.Playlists, entry)
		return nil
	})
	if err != nil {
		return models.LinkEntry{}, err
	}

	return entry, nil
}

// RemoveLink deletes the entry identified by (addedAt, url) from the
// session user's list. A missing entry aborts the cycle with
// [shared.ErrLinkNotFound] and nothing is written.
func (e *ShelfEngine) RemoveLink(ctx context.Context, session models.Session, addedAt, url string) error {
	key := models.EntryKey(addedAt, url)

	_, err := e.merge.Apply(ctx, func(doc *models.Document) error {
		user := models.FindUser(doc, session.Username)
		if user == nil {
			return fmt.Errorf("%w: %s", shared.ErrUserNotFound, session.Username)
		}
		if user.Pin != session.Pin {
			return shared.ErrPinMismatch
		}

		for i := range user.Playlists {
			if user.Playlists[i].Key() == key {
				user.Playlists = append(user.Playlists[:i], user.Playlists[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: no entry matches %s", shared.ErrLinkNotFound, key)
	})
	return err
}

// ListLinks returns the named user's entries sorted newest first.
func (e *ShelfEngine) ListLinks(ctx context.Context, username string) ([]models.LinkEntry, error) {
	doc, err := e.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	user := models.FindUser(doc, username)
	if user == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}

	entries := make([]models.LinkEntry, len(user.Playlists))
	copy(entries, user.Playlists)

	// Fixed-width timestamps make string comparison chronological.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AddedAt != entries[j].AddedAt {
			return entries[i].AddedAt > entries[j].AddedAt
		}
		return entries[i].URL < entries[j].URL
	})

	return entries, nil
}

// SearchLinks filters the named user's entries by a case-insensitive
// substring match over title, note, and URL. An empty query matches
// everything.
func (e *ShelfEngine) SearchLinks(ctx context.Context, username, query string) ([]models.LinkEntry, error) {
	entries, err := e.ListLinks(ctx, username)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries, nil
	}

	matches := make([]models.LinkEntry, 0, len(entries))
	for _, entry := range entries {
		haystack := strings.ToLower(entry.Title + "\n" + entry.Note + "\n" + entry.URL)
		if strings.Contains(haystack, query) {
			matches = append(matches, entry)
		}
	}

	return matches, nil
}

// ExportDocumentFile writes the full document as pretty-printed JSON to
// path and returns the path written. An empty path selects
// vinlylog-export-<date>.json in the working directory.
func (e *ShelfEngine) ExportDocumentFile(ctx context.Context, path string, progress chan<- ProgressUpdate) (string, error) {
	if path == "" {
		path = fmt.Sprintf("vinlylog-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	}

	e.sendProgress(progress, fetchDocumentUpdate(1, 2))
	doc, err := e.store.Fetch(ctx)
	if err != nil {
		return "", err
	}

	e.sendProgress(progress, exportDocumentUpdate(2, 2, path))
	data, err := shared.MarshalJSON(doc, true)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	return path, nil
}

// Document returns the current shared document.
func (e *ShelfEngine) Document(ctx context.Context) (*models.Document, error) {
	return e.store.Fetch(ctx)
}
