// Package mirror implements the GitHub to Gitea mirroring workflow: listing
// the source account's repositories, reconciling orphaned destination mirrors,
// and driving per-repository migrations against the Gitea migration endpoint.
package mirror
