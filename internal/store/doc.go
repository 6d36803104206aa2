// Package store persists video annotations in SQLite.
//
// Every save writes one numbered version of a video's annotation: either a
// new version after the latest, or an overwrite of an existing one. Task
// segments and participant markers are replaced wholesale inside the same
// transaction, so readers never observe a partially written version.
//
// Schema changes bump schemaVersion in schema.go; older databases are
// rejected with ErrSchemaMismatch rather than migrated in place.
package store
