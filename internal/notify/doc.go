// Package notify implements the toast notification stack.
//
// Toasts carry a severity and auto-dismiss after a severity-based interval:
// info and success after 3 seconds, warnings after 5, errors after 8 so
// failures stay readable. At most three toasts are visible at once; pushing
// a fourth evicts the oldest. Expiry is driven by bubbletea tick messages
// routed through Manager.Update, so the manager never owns a goroutine.
package notify
