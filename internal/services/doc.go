// Package services defines shared utilities consumed by the translation
// pipeline and its collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and pipeline phases for
//     logging.
//   - Structured error markers plus the Wrap helper that let the pipeline and
//     the CLI classify failures (fatal vs reported-and-continue).
//
// Use these helpers when wiring new pipeline steps so failure handling and
// observability stay uniform.
package services
