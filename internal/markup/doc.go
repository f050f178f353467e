// Package markup renders subtitle documents into the HTML page handed to the
// translation host and decodes the translated page back into entries.
//
// Rendering and decoding share one contract: an element with id "run-id"
// whose text is the run identifier, and one "srt-object" container per entry
// holding exactly three element children. Field identity comes from child
// position (index, timing, text), not from tag or class names, because the
// host page is free to rewrite both. A future hardening could key fields by
// attribute instead.
package markup
