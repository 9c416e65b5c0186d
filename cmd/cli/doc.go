// Package cli assembles the gitea-mirror command hierarchy, wiring
// configuration loading, structured logging, and the mirroring commands.
package cli
