// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/vinlylog/internal/models"
)

// MockDocStore is an in-memory test double for the document store. It
// records every stored snapshot and counts fetches.
type MockDocStore struct {
	mu sync.Mutex

	Doc      *models.Document
	FetchErr error
	StoreErr error

	FetchCalls int
	Stored     []*models.Document

	// OnFetch, when set, runs before each fetch returns. Lets tests
	// simulate a concurrent writer changing the document mid-cycle.
	OnFetch func(calls int, doc *models.Document)
}

func NewMockDocStore(doc *models.Document) *MockDocStore {
	if doc == nil {
		doc = models.EmptyDocument()
	}
	return &MockDocStore{Doc: doc}
}

func (m *MockDocStore) Fetch(ctx context.Context) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.OnFetch != nil {
		m.OnFetch(m.FetchCalls, m.Doc)
	}
	return cloneDocument(m.Doc), nil
}

func (m *MockDocStore) Store(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StoreErr != nil {
		return m.StoreErr
	}
	snapshot := cloneDocument(doc)
	m.Doc = snapshot
	m.Stored = append(m.Stored, snapshot)
	return nil
}

// LastStored returns the most recent snapshot written, or nil.
func (m *MockDocStore) LastStored() *models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Stored) == 0 {
		return nil
	}
	return m.Stored[len(m.Stored)-1]
}

func cloneDocument(doc *models.Document) *models.Document {
	clone := &models.Document{
		Users:     make([]models.User, len(doc.Users)),
		UpdatedAt: doc.UpdatedAt,
	}
	for i, user := range doc.Users {
		clone.Users[i] = user
		clone.Users[i].Playlists = append([]models.LinkEntry(nil), user.Playlists...)
	}
	return clone
}

// StaticResolver is a test double for the link resolution pipeline. It
// returns a fixed result and records the URLs it saw.
type StaticResolver struct {
	mu sync.Mutex

	Result models.Resolved
	Calls  []string
}

func (r *StaticResolver) Resolve(ctx context.Context, rawURL string) models.Resolved {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, rawURL)
	return r.Result
}

func (r *StaticResolver) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}

// MapCache is an in-memory metadata cache test double.
type MapCache struct {
	mu sync.Mutex

	Entries map[string]models.Resolved
	GetErr  error
	PutErr  error
}

func NewMapCache() *MapCache {
	return &MapCache{Entries: map[string]models.Resolved{}}
}

func (c *MapCache) Get(url string) (models.Resolved, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.GetErr != nil {
		return models.Resolved{}, false, c.GetErr
	}
	resolved, ok := c.Entries[url]
	return resolved, ok, nil
}

func (c *MapCache) Put(url string, resolved models.Resolved) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.PutErr != nil {
		return c.PutErr
	}
	c.Entries[url] = resolved
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
