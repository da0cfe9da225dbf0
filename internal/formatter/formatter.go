// package formatter renders a user's link list to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/services"
	"github.com/desertthunder/vinlylog/internal/shared"
)

// entryLabel returns the stored title, falling back to a derived label for
// entries whose resolution produced none.
func entryLabel(entry models.LinkEntry) string {
	if entry.Title != "" {
		return entry.Title
	}
	return services.LinkLabel(entry.URL)
}

// ExportToCSV converts a link list to CSV format with columns: URL, Provider, Title, Note, AddedAt, VideoID
func ExportToCSV(entries []models.LinkEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"URL", "Provider", "Title", "Note", "AddedAt", "VideoID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.URL,
			string(entry.Provider),
			entry.Title,
			entry.Note,
			entry.AddedAt,
			entry.VideoID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a link list to Markdown format with optional cover image
func ExportToMarkdown(username string, entries []models.LinkEntry, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s's links\n\n", username))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Links**: %d\n\n", len(entries)))

	buf.WriteString("## Links\n\n")
	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) (%s)\n", i+1, entryLabel(entry), entry.URL, entry.AddedAt))
		if entry.Note != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", entry.Note))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a link list to plain text format
func ExportToText(username string, entries []models.LinkEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("User: %s\n", username))
	buf.WriteString(fmt.Sprintf("Links: %d\n\n", len(entries)))

	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, entryLabel(entry), entry.URL))
		if entry.Note != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", entry.Note))
		}
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// listMetadata is the sidecar summary written next to CSV exports.
type listMetadata struct {
	Username   string `json:"username"`
	LinkCount  int    `json:"linkCount"`
	ExportedAt string `json:"exportedAt"`
}

// ToMetadataJSON generates a JSON summary of a link list (without entries)
func ToMetadataJSON(username string, entries []models.LinkEntry) ([]byte, error) {
	return shared.MarshalJSON(listMetadata{
		Username:   username,
		LinkCount:  len(entries),
		ExportedAt: models.Timestamp(),
	}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	LinksFile    string
	MetadataFile string
}

// WriteCSVExport exports a link list to CSV with an accompanying metadata JSON file.
//
// Defaults to the username as the base filename & creates {base}_links.csv and {base}_metadata.json
func WriteCSVExport(username string, entries []models.LinkEntry, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = username
	}

	csvData, err := ExportToCSV(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	linksFile := baseFilepath + "_links.csv"
	if err := os.WriteFile(linksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(username, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		LinksFile:    linksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a link list to Markdown format in a dedicated directory.
//
// Directory name defaults to the username.
// The imageURL parameter is optional - if provided, attempts to download a cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(username string, entries []models.LinkEntry, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = username
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(username, entries, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a link list to plain text format.
//
// Defaults to {username}_links.txt as the filename.
func WriteTextExport(username string, entries []models.LinkEntry, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_links.txt", username)
	}

	textData, err := ExportToText(username, entries)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
