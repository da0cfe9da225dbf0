package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is ISO-8601 UTC with fixed-width milliseconds, matching the
// timestamps already stored in the document. Fixed width keeps lexicographic
// order equal to chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Timestamp returns the current time formatted with [TimeLayout].
func Timestamp() string {
	return time.Now().UTC().Format(TimeLayout)
}

// Provider identifies which external service a link belongs to.
type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderSpotify Provider = "spotify"
	ProviderApple   Provider = "apple"
	ProviderLink    Provider = "link"
)

// Valid reports whether p is one of the known provider kinds.
func (p Provider) Valid() bool {
	switch p {
	case ProviderYouTube, ProviderSpotify, ProviderApple, ProviderLink:
		return true
	}
	return false
}

// Document is the entire persisted state of the shared list.
type Document struct {
	Users     []User `json:"users"`
	UpdatedAt string `json:"updatedAt"`
}

// User is one member of the shared document, keyed case-insensitively by
// username. The pin is a shared cleartext secret, not a credential.
type User struct {
	Username  string      `json:"username"`
	Pin       string      `json:"pin"`
	Playlists []LinkEntry `json:"playlists"`
}

// LinkEntry is one saved link plus its resolved display/embed metadata.
type LinkEntry struct {
	URL         string   `json:"url"`
	Provider    Provider `json:"provider,omitempty"`
	Title       string   `json:"title,omitempty"`
	ThumbURL    string   `json:"thumbUrl,omitempty"`
	VideoID     string   `json:"videoId,omitempty"`
	EmbedURL    string   `json:"embedUrl,omitempty"`
	EmbedHeight int      `json:"embedHeight,omitempty"`
	Note        string   `json:"note,omitempty"`
	AddedAt     string   `json:"addedAt"`
}

// Key returns the entry's identity key within a playlist.
func (e LinkEntry) Key() string {
	return EntryKey(e.AddedAt, e.URL)
}

// EntryKey composes the (addedAt, url) identity key for a playlist entry.
func EntryKey(addedAt, url string) string {
	return fmt.Sprintf("%s|%s", addedAt, url)
}

// LinkMetadata is the best-effort result of resolving a link against its
// provider. Every field is optional; an all-zero value is a valid result.
type LinkMetadata struct {
	Title       string `json:"title,omitempty"`
	ThumbURL    string `json:"thumbUrl,omitempty"`
	VideoID     string `json:"videoId,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"`
	EmbedHeight int    `json:"embedHeight,omitempty"`
}

// Resolved is link metadata tagged with the provider that produced it.
type Resolved struct {
	Provider Provider `json:"provider"`
	LinkMetadata
}

// Session identifies the acting user for mutating operations.
type Session struct {
	Username string
	Pin      string
}

// EmptyDocument returns a fresh document with no users and updatedAt set to now.
// Used when the remote bin is missing, empty, or holds a foreign payload.
func EmptyDocument() *Document {
	return &Document{Users: []User{}, UpdatedAt: Timestamp()}
}

// FindUser returns the user matching username case-insensitively, or nil.
func FindUser(doc *Document, username string) *User {
	if doc == nil {
		return nil
	}
	for i := range doc.Users {
		if strings.EqualFold(doc.Users[i].Username, username) {
			return &doc.Users[i]
		}
	}
	return nil
}

// ValidPin reports whether pin is exactly four ASCII digits.
func ValidPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CleanUsername trims surrounding whitespace from a username.
func CleanUsername(username string) string {
	return strings.TrimSpace(username)
}

// NewEntry builds a LinkEntry from resolved metadata, stamped with the
// current time.
func NewEntry(url, note string, resolved Resolved) LinkEntry {
	return LinkEntry{
		URL:         url,
		Provider:    resolved.Provider,
		Title:       resolved.Title,
		ThumbURL:    resolved.ThumbURL,
		VideoID:     resolved.VideoID,
		EmbedURL:    resolved.EmbedURL,
		EmbedHeight: resolved.EmbedHeight,
		Note:        note,
		AddedAt:     Timestamp(),
	}
}
