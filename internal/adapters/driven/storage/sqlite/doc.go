// Package sqlite persists SOP collections in a single SQLite database.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation, so the
// binary builds without CGO. Each workspace is an ordered list of rows in
// the sops table; the SOP itself is stored as canonical JSON alongside a
// few columns used for ordering and inspection.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in
// schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.playbook/data/playbook.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// with a busy timeout.
package sqlite
