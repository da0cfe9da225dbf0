// JSONBin document client.
//
// Talks to a single fixed bin: GET /b/{id}/latest returns the document
// wrapped in a {"record": ...} envelope, PUT /b/{id} replaces it whole.
// Every call is a full-document transfer; the API exposes no version token
// and no partial update.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/shared"
)

// JSONBinService implements [DocumentStore] against the JSONBin v3 API.
type JSONBinService struct {
	baseURL    string
	binID      string
	masterKey  string
	httpClient *http.Client
}

// NewJSONBinService creates a document client for the configured bin.
// Fails fast with [shared.ErrMissingConfig] when either secret is empty.
func NewJSONBinService(cfg shared.JSONBinConfig, client *http.Client) (*JSONBinService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.jsonbin.io/v3"
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}

	return &JSONBinService{
		baseURL:    baseURL,
		binID:      cfg.BinID,
		masterKey:  cfg.MasterKey,
		httpClient: client,
	}, nil
}

// Fetch retrieves the latest document. A payload that does not match the
// document shape (first run, foreign bin contents) degrades to an empty
// document rather than failing.
func (s *JSONBinService) Fetch(ctx context.Context) (*models.Document, error) {
	endpoint := fmt.Sprintf("%s/b/%s/latest", s.baseURL, s.binID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Master-Key", s.masterKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, shared.NewRemoteError(resp.StatusCode, body)
	}

	var envelope struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.EmptyDocument(), nil
	}

	return decodeDocument(envelope.Record), nil
}

// Store replaces the remote document. The API returns no content of
// interest on success.
func (s *JSONBinService) Store(ctx context.Context, doc *models.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	endpoint := fmt.Sprintf("%s/b/%s", s.baseURL, s.binID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Master-Key", s.masterKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return shared.NewRemoteError(resp.StatusCode, body)
	}

	return nil
}

// decodeDocument turns a raw record into a document, substituting an empty
// document when the payload does not have the expected shape (users must be
// an array and updatedAt a string).
func decodeDocument(record json.RawMessage) *models.Document {
	var probe struct {
		Users     []json.RawMessage `json:"users"`
		UpdatedAt *string           `json:"updatedAt"`
	}
	if err := json.Unmarshal(record, &probe); err != nil || probe.Users == nil || probe.UpdatedAt == nil {
		return models.EmptyDocument()
	}

	var doc models.Document
	if err := json.Unmarshal(record, &doc); err != nil {
		return models.EmptyDocument()
	}
	if doc.Users == nil {
		doc.Users = []models.User{}
	}

	return &doc
}
