package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchDocument Phase = iota
	ResolveLink
	MergeDocument
	RefreshLinks
	ExportDocument
)

func (p Phase) String() string {
	switch p {
	case FetchDocument:
		return "fetch_document"
	case ResolveLink:
		return "resolve_link"
	case MergeDocument:
		return "merge_document"
	case RefreshLinks:
		return "refresh_links"
	case ExportDocument:
		return "export_document"
	default:
		return ""
	}
}

func fetchDocumentUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDocument,
		Step:    step,
		Total:   total,
		Message: "Fetching shared document...",
	}
}

func resolveLinkUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveLink,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving link metadata (%s)...", url),
	}
}

func mergeDocumentUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeDocument,
		Step:    step,
		Total:   total,
		Message: "Saving shared document...",
	}
}

func refreshingLinkUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshLinks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Refreshing: %s...", step, total, url),
	}
}

func refreshCompletedUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshLinks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, url),
	}
}

func refreshFailedUpdate(step, total int, url string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshLinks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, url, err),
	}
}

func exportDocumentUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportDocument,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exporting document to %s...", path),
	}
}
