// Package tui implements the interactive terminal interface of Mietradar.
//
// Built on the Bubble Tea framework, it follows the Elm architecture with
// immutable state updates and a Model-Update-View pattern.
//
// # Architecture
//
// A single coordinator model (AppModel) owns the cross-cutting state: the
// active form mode (prediction vs. city request), the shared result and
// error display slots, the advanced-mode flag, and the info overlay. It
// renders exactly one form at a time. Each form model owns its own input
// and validation state and hands outcomes back to the coordinator as
// messages; forms never touch each other's state.
//
//   - Prediction form: apartment attributes with per-keystroke numeric
//     sanitization, a postal-code autocomplete dropdown fed from the
//     reference table, and amenity checkboxes in advanced mode
//   - City-request form: postal code and city name for the automation
//     webhook
//   - Info overlay: read-only metadata about the deployed champion model,
//     fetched lazily on first open
//
// # Framework Components
//
//   - bubbles/textinput: form fields
//   - bubbles/spinner: in-flight indicator while a request is outstanding
//   - bubbles/help, bubbles/key: context-aware key binding help
//   - lipgloss: styling and layout
//
// # Concurrency
//
// Network calls run as tea.Cmd goroutines and deliver completion messages
// back into the single update loop. Each form allows one outstanding
// submission (the submit key is ignored while one is in flight) and
// re-enables itself on every completion path. The model-info fetch is
// issued at most once: reopening the overlay while loading or after a
// successful load is a no-op.
package tui
