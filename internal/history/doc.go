// Package history records translation runs in a SQLite ledger so past runs,
// their final state, and any failure reason can be listed later.
package history
