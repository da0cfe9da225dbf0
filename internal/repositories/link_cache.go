package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vinlylog/internal/models"
)

// DefaultCacheTTL is how long a cached resolution stays fresh.
const DefaultCacheTTL = 7 * 24 * time.Hour

// LinkCacheRepository persists resolved link metadata in SQLite.
type LinkCacheRepository struct {
	db  *sql.DB
	ttl time.Duration
}

// NewLinkCacheRepository creates a cache repository. A ttl <= 0 selects
// [DefaultCacheTTL].
func NewLinkCacheRepository(db *sql.DB, ttl time.Duration) *LinkCacheRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LinkCacheRepository{db: db, ttl: ttl}
}

// Get returns the cached resolution for url. The second return value is
// false on a miss or when the entry has expired.
func (r *LinkCacheRepository) Get(url string) (models.Resolved, bool, error) {
	query := `
		SELECT provider, title, thumb_url, video_id, embed_url, embed_height, resolved_at
		FROM link_cache
		WHERE url = ?
	`

	var (
		resolved   models.Resolved
		provider   string
		resolvedAt time.Time
	)

	err := r.db.QueryRow(query, url).Scan(
		&provider,
		&resolved.Title,
		&resolved.ThumbURL,
		&resolved.VideoID,
		&resolved.EmbedURL,
		&resolved.EmbedHeight,
		&resolvedAt,
	)
	if err == sql.ErrNoRows {
		return models.Resolved{}, false, nil
	}
	if err != nil {
		return models.Resolved{}, false, fmt.Errorf("failed to query link cache: %w", err)
	}

	if time.Since(resolvedAt) > r.ttl {
		return models.Resolved{}, false, nil
	}

	resolved.Provider = models.Provider(provider)
	return resolved, true, nil
}

// Put stores or replaces the cached resolution for url.
func (r *LinkCacheRepository) Put(url string, resolved models.Resolved) error {
	query := `
		INSERT INTO link_cache (url, provider, title, thumb_url, video_id, embed_url, embed_height, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			provider = excluded.provider,
			title = excluded.title,
			thumb_url = excluded.thumb_url,
			video_id = excluded.video_id,
			embed_url = excluded.embed_url,
			embed_height = excluded.embed_height,
			resolved_at = excluded.resolved_at
	`

	_, err := r.db.Exec(query,
		url,
		string(resolved.Provider),
		resolved.Title,
		resolved.ThumbURL,
		resolved.VideoID,
		resolved.EmbedURL,
		resolved.EmbedHeight,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache link: %w", err)
	}

	return nil
}

// Purge removes entries resolved earlier than olderThan ago and reports how
// many rows were deleted.
func (r *LinkCacheRepository) Purge(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	result, err := r.db.Exec("DELETE FROM link_cache WHERE resolved_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge link cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
