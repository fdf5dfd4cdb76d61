// Package tui implements the terminal user interface for the StoryKeep
// story database.
//
// Built on the Bubble Tea framework, the package follows the Elm
// architecture with immutable state updates and a Model-Update-View cycle.
//
// # Architecture
//
// The application is organized into five screens routed by AppModel:
//   - Loading: opens the library store and loads every record kind
//   - Home: library overview with per-kind counts and recent records
//   - Browse: one kind as a filterable, sortable card list
//   - Detail: one record in full, with markdown notes and back-references
//   - Editor: create or edit a record through an upgraded legacy form
//
// All screens render through a unified container pattern
// (RenderApplicationContainer) for consistent layout with header, content
// area, and a context-sensitive footer. The toast notification stack is
// composited on top by AppModel.View.
//
// # Framework Components
//
// The screens lean on Bubble Tea ecosystem components throughout:
//   - bubbles/spinner and bubbles/progress: the loading screen
//   - bubbles/list: record browsing with built-in fuzzy filtering
//   - bubbles/help and bubbles/key: context-aware key bindings
//   - glamour: markdown rendering of record notes
//   - lipgloss: styling and layout
//
// plus the in-house component set from internal/component (cards, modals,
// text fields, selects, buttons) for everything record-shaped.
//
// # Screen Flow
//
//  1. Loading opens the SQLite library and transitions to Home, or shows a
//     classified storage error with troubleshooting hints.
//  2. Home jumps to a kind with 1-4, toggles LAN preview sharing with P,
//     and quits (confirmed) with q.
//  3. Browse filters with /, cycles sort with o, quick-adds with a, and
//     deletes with d behind a confirmation modal that shows how many other
//     records reference the victim.
//  4. Editor validates on save, tracks dirty state, and guards escape with
//     an unsaved-changes modal.
//
// # Usage Example
//
//	app := tui.NewAppModel(registry)
//	program := tea.NewProgram(app, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
package tui
