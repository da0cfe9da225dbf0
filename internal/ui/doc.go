// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the signed-in user's links:
//  1. [LinkListView] : Browse the link list, newest first
//  2. [DetailView] : Inspect one entry's resolved metadata
//  3. [ConfirmRemoveView] : Confirm deletion of an entry
//  4. [ResultView] : Display the outcome of a removal
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Removals go through the same merge cycle as the CLI, so a refusal (wrong
// pin, entry already gone) surfaces in the result view instead of corrupting
// the shared document.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
