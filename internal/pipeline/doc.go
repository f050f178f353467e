// Package pipeline runs one subtitle translation end to end.
//
// A run moves through INIT, PUBLISHED, VERIFIED, TRANSLATED, WRITTEN and
// optionally CLEANED before reaching DONE. Steps execute sequentially on the
// caller's goroutine; each transition emits Events and is recorded in the
// history ledger when one is attached. The publish target is always torn down
// once publishing has started, whatever the outcome.
package pipeline
