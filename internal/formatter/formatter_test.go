package formatter

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vinlylog/internal/models"
	tu "github.com/desertthunder/vinlylog/internal/testing"
)

var sampleEntries = []models.LinkEntry{
	{
		URL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Provider: models.ProviderYouTube,
		Title:    "Never Gonna Give You Up",
		VideoID:  "dQw4w9WgXcQ",
		Note:     "a classic",
		AddedAt:  "2024-03-01T10:00:00.000Z",
	},
	{
		URL:      "https://example.com/radio",
		Provider: models.ProviderLink,
		AddedAt:  "2024-02-01T10:00:00.000Z",
	},
}

func TestExportToCSV(t *testing.T) {
	t.Run("writes a header and one row per entry", func(t *testing.T) {
		data, err := ExportToCSV(sampleEntries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV output: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(records))
		}
		if records[0][0] != "URL" {
			t.Errorf("expected URL header, got %s", records[0][0])
		}
		if records[1][2] != "Never Gonna Give You Up" {
			t.Errorf("expected title in row, got %s", records[1][2])
		}
		if records[2][1] != "link" {
			t.Errorf("expected provider in row, got %s", records[2][1])
		}
	})

	t.Run("an empty list yields only the header", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil || len(records) != 1 {
			t.Errorf("expected only the header, got %d rows (err %v)", len(records), err)
		}
	})
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("renders titles, notes, and fallback labels", func(t *testing.T) {
		data, err := ExportToMarkdown("ada", sampleEntries, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := string(data)

		if !strings.Contains(out, "# ada's links") {
			t.Error("expected username heading")
		}
		if !strings.Contains(out, "[Never Gonna Give You Up](https://www.youtube.com/watch?v=dQw4w9WgXcQ)") {
			t.Error("expected linked title")
		}
		if !strings.Contains(out, "> a classic") {
			t.Error("expected note blockquote")
		}
		if !strings.Contains(out, "[example.com]") {
			t.Errorf("expected hostname fallback label, got:\n%s", out)
		}
	})

	t.Run("includes the cover image when given", func(t *testing.T) {
		data, err := ExportToMarkdown("ada", sampleEntries, "cover.jpg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "![Cover](cover.jpg)") {
			t.Error("expected cover image reference")
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText("ada", sampleEntries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "User: ada") || !strings.Contains(out, "Links: 2") {
		t.Error("expected list summary")
	}
	if !strings.Contains(out, "1. Never Gonna Give You Up") {
		t.Error("expected numbered entries")
	}
}

func TestWriteCSVExport(t *testing.T) {
	t.Run("creates the links file and metadata sidecar", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "ada")

		result, err := WriteCSVExport("ada", sampleEntries, base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, result.LinksFile)
		tu.AssertFileExists(t, result.MetadataFile)

		var meta struct {
			Username  string `json:"username"`
			LinkCount int    `json:"linkCount"`
		}
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.MetadataFile)), &meta); err != nil {
			t.Fatalf("invalid metadata JSON: %v", err)
		}
		if meta.Username != "ada" || meta.LinkCount != 2 {
			t.Errorf("unexpected metadata: %+v", meta)
		}
	})
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("creates a README in the output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "ada")

		result, err := WriteMarkdownExport("ada", sampleEntries, dir, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Directory != dir {
			t.Errorf("expected directory %s, got %s", dir, result.Directory)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "README.md"))
		if result.CoverImage != "" {
			t.Error("expected no cover without an image URL")
		}
	})
}

func TestWriteTextExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ada_links.txt")

	written, err := WriteTextExport("ada", sampleEntries, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != path {
		t.Errorf("expected path %s, got %s", path, written)
	}
	tu.AssertFileExists(t, path)
}
