// Package main hosts the srt-translate CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into translation runs,
// subtitle stream listings, file renames, run history queries, and
// configuration scaffolding. It centralizes configuration resolution, logger
// construction, and collaborator wiring so subcommands stay declarative while
// the work lives in the internal packages.
package main
