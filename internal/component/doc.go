// Package component provides StoryKeep's terminal UI component library.
//
// Each component owns one rendered subtree (its View output) and an ordered
// list of child components. Components are constructed from typed
// configuration structs, mutated through fluent setters, and torn down with
// Destroy. The package guarantees:
//
//   - Every mutator returns its receiver, so calls chain.
//   - Every method is a no-op after Destroy - never a panic or an error.
//   - Destroying a parent destroys its children depth-first; a destroyed
//     component is no longer reachable from any live parent's child list.
//
// # Components
//
//   - Button: variant/size/icon, loading state with exact label round-trip
//   - TextField: label + input + help text + inline validation
//   - Select: single or multi select with type-ahead filtering
//   - Card: badge/header/body/footer with collapse and selection state
//   - Modal: centered confirm/cancel overlay
//
// # Events
//
// Components dispatch named events (change, open, close, click, toggle,
// select). External code can register handlers with On, which returns a
// Subscription whose Cancel unregisters the handler. A panicking handler is
// caught and logged; sibling handlers still run. Emitting also produces a
// typed bubbletea message (ChangeMsg, ClickMsg, ...) so screens receive the
// same events through the normal Update path without registering anything.
//
// Interactive components follow the bubbles conventions: Focus/Blur plus an
// Update method that consumes tea.Msg, so screens embed them exactly like
// the stock bubbles models.
package component
