package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LinkListView ViewState = iota
	DetailView
	ConfirmRemoveView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	engine   *tasks.ShelfEngine
	session  models.Session
	width    int
	height   int
	linkList list.Model
	entries  []models.LinkEntry
	selected *models.LinkEntry
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

type linksFetchedMsg struct {
	entries []models.LinkEntry
	err     error
}

type removeCompleteMsg struct {
	entry models.LinkEntry
	err   error
}

// NewModel creates a new TUI model for the signed-in user.
func NewModel(ctx context.Context, engine *tasks.ShelfEngine, session models.Session) *Model {
	return &Model{
		ctx:     ctx,
		view:    LinkListView,
		engine:  engine,
		session: session,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the user's links.
func (m *Model) Init() tea.Cmd {
	return m.fetchLinks()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.linkList.Width() == 0 {
			m.linkList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LinkListView:
			return m.handleLinkListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmRemoveView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case linksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.entries = msg.entries
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = entryItem{entry: entry}
		}
		m.linkList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.linkList.Title = fmt.Sprintf("%s's links", m.session.Username)
		m.linkList.SetSize(m.width-4, m.height-8)
		m.view = LinkListView
		return m, nil

	case removeCompleteMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Removed %s", msg.entry.URL)
		}
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LinkListView:
		return m.renderLinkList()
	case DetailView:
		return m.renderDetail()
	case ConfirmRemoveView:
		return m.renderConfirm()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleLinkListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.fetchLinks()
	case "enter":
		if selected := m.linkList.SelectedItem(); selected != nil {
			if item, ok := selected.(entryItem); ok {
				entry := item.entry
				m.selected = &entry
				m.view = DetailView
			}
		}
		return m, nil
	case "d":
		if selected := m.linkList.SelectedItem(); selected != nil {
			if item, ok := selected.(entryItem); ok {
				entry := item.entry
				m.selected = &entry
				m.view = ConfirmRemoveView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.linkList, cmd = m.linkList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = LinkListView
		return m, nil
	case "d":
		m.view = ConfirmRemoveView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = LinkListView
		return m, nil
	case "y":
		return m, m.removeSelected()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r", "enter", "esc":
		m.err = nil
		m.status = ""
		m.selected = nil
		return m, m.fetchLinks()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == LinkListView {
		m.linkList, cmd = m.linkList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchLinks() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.engine.ListLinks(m.ctx, m.session.Username)
		return linksFetchedMsg{entries: entries, err: err}
	}
}

func (m *Model) removeSelected() tea.Cmd {
	entry := *m.selected
	return func() tea.Msg {
		err := m.engine.RemoveLink(m.ctx, m.session, entry.AddedAt, entry.URL)
		return removeCompleteMsg{entry: entry, err: err}
	}
}

func (m *Model) renderLinkList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.linkList.View(), helpView)
}

func (m *Model) renderDetail() string {
	entry := m.selected
	title := styles.title.Render(entryItem{entry: *entry}.Title())

	info := fmt.Sprintf(
		"\nURL: %s\nProvider: %s\nAdded: %s\n",
		entry.URL, entry.Provider, entry.AddedAt,
	)
	if entry.Note != "" {
		info += fmt.Sprintf("Note: %s\n", entry.Note)
	}
	if entry.VideoID != "" {
		info += fmt.Sprintf("Video ID: %s\n", entry.VideoID)
	}
	if entry.EmbedURL != "" {
		info += fmt.Sprintf("Embed: %s (height %d)\n", entry.EmbedURL, entry.EmbedHeight)
	}
	if entry.ThumbURL != "" {
		info += fmt.Sprintf("Thumbnail: %s\n", entry.ThumbURL)
	}

	helpKeys := []key.Binding{m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Remove this link?")
	info := fmt.Sprintf("\n%s\nAdded: %s\n", m.selected.URL, m.selected.AddedAt)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Removal failed: %v\n\nPress r to reload, q to quit", m.err))
	}

	title := styles.ok.Render("✓ " + m.status)

	helpKeys := []key.Binding{m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}
