// Package giteaapi provides a Gitea REST client covering the repository
// operations mirroring needs: listing the authenticated user's repositories,
// deleting repositories, and requesting repository migrations.
package giteaapi
