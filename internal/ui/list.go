package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/services"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.LinkEntry] to implement [list.Item].
type entryItem struct {
	entry models.LinkEntry
}

func (i entryItem) FilterValue() string {
	return i.Title() + " " + i.entry.Note + " " + i.entry.URL
}

func (i entryItem) Title() string {
	if i.entry.Title != "" {
		return i.entry.Title
	}
	return services.LinkLabel(i.entry.URL)
}

func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.entry.Provider, i.entry.AddedAt)
	if i.entry.Note != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.entry.Note)
	}
	return desc
}
