// Package sqlite provides SQLite-backed session persistence.
// Chat transcripts survive process restarts; the database lives under
// the shopquery data directory and is migrated on open.
package sqlite
