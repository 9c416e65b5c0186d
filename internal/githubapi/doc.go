// Package githubapi provides a minimal GitHub REST client focused on listing
// the repositories owned by an account, including private repositories when a
// personal access token is available.
package githubapi
