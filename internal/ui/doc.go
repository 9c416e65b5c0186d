// Package ui renders operator-facing terminal output: colored per-repository
// status lines during a mirroring run and tabular listings and summaries.
package ui
