// Package entity defines the library's record types: characters, locations,
// plots, and world elements.
//
// Every record shares a common Base (id, name, free-form description and
// notes, tags, attribute map, timestamps) and adds its own classifier and
// relationship arrays. Relationships are plain id arrays - no foreign keys;
// referential integrity is managed at the repository level, where deleting a
// record strips its id from every other record's arrays in one transaction.
//
// The Record interface gives the repository and the sweep generic access
// without reflection:
//
//	rec.Meta()            // the shared Base fields
//	rec.Kind()            // which of the four kinds this is
//	rec.RefIDs()          // every id this record points at
//	rec.RemoveRef(id)     // strip id from all relationship arrays
//	rec.Clone()           // deep copy for snapshots
//
// EncodeList and DecodeList translate between []Record and the JSON array
// blobs the store holds, one blob per kind.
package entity
