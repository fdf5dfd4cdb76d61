// Package preview implements the read-only LAN preview server.
//
// The server shares the story library with other devices on the local
// network: a browsable HTML index, a small JSON API, and a websocket change
// feed that tells connected readers when the library changes. It announces
// itself over mDNS as _storykeep._tcp so reader apps can find it without
// configuration.
//
// The server never writes to the library. It opens the store read-only and
// reloads when the database file changes on disk and the stored generation
// marker actually moved.
package preview
