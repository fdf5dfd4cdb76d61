// Package watch delivers debounced change notifications for individual
// files.
//
// Raw fsnotify output is too noisy to act on directly: editors save through
// rename+write storms, and the application's own atomic writes (tmp file
// then rename) fire several events for one logical change. The watcher
// settles events behind a 500 ms debounce window, then hashes the file
// content and suppresses the notification entirely when the hash matches
// the last one seen for that path.
//
// Consumers: config hot-reload in the TUI and database change detection in
// the preview server.
package watch
