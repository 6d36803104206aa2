// Package main hosts the vidseg CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the shared logger and
// annotation store, and hands videos to the processing engine. Results are
// rendered as tables, JSON or YAML. Keep this package thin: behaviour lives in
// the internal packages and is surfaced here through commands and flags.
package main
