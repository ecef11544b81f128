// Package repository defines the data access interface for stored graphs.
//
// A stored graph keeps its node table schema in native column order, every
// node's raw attribute values, its edges, and the render colors computed by
// the last colorize run. The implementation is in the sqlite subpackage.
//
// # SQLite Implementation
//
// The sqlite repository uses the pure Go modernc.org/sqlite driver with WAL
// mode and foreign keys enabled. Graph writes and color writes each run in a
// single transaction, so a reader never sees a half-saved color set.
//
// # Schema Migration
//
// The schema is created on startup with CREATE TABLE IF NOT EXISTS.
package repository
