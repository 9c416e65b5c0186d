package mirror

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/temirov/gitea-mirror/internal/giteaapi"
	"github.com/temirov/gitea-mirror/internal/githubapi"
)

const (
	missingSourceCredentialMessageConstant = "private repository requires a source access token"
	missingCloneURLMessageTemplateConstant = "repository %s has no browsable clone URL"
	invalidCloneURLErrorTemplateConstant   = "unable to parse clone URL for %s: %w"
)

// ErrMissingSourceCredential signals a private repository encountered without a source token.
var ErrMissingSourceCredential = errors.New(missingSourceCredentialMessageConstant)

// BuildMigrationRequest derives the Gitea migration payload for one source repository.
//
// Private repositories embed the source token as inline clone credentials;
// without a token the caller must skip the repository. The repository name is
// carried over unchanged because the name is the sole cross-host identity key.
func BuildMigrationRequest(repository githubapi.Repository, destinationOwner string, strategy SyncStrategy, sourceToken string) (giteaapi.MigrationRequest, error) {
	cloneAddress, cloneAddressError := buildCloneAddress(repository, sourceToken)
	if cloneAddressError != nil {
		return giteaapi.MigrationRequest{}, cloneAddressError
	}

	migrationRequest := giteaapi.MigrationRequest{
		CloneAddress:    cloneAddress,
		Mirror:          strategy.MirrorEnabled(),
		Private:         repository.Private,
		RepositoryOwner: destinationOwner,
		RepositoryName:  repository.Name,
	}

	return migrationRequest, nil
}

func buildCloneAddress(repository githubapi.Repository, sourceToken string) (string, error) {
	trimmedCloneURL := strings.TrimSpace(repository.HTMLURL)
	if len(trimmedCloneURL) == 0 {
		return "", fmt.Errorf(missingCloneURLMessageTemplateConstant, repository.FullName)
	}

	if !repository.Private {
		return trimmedCloneURL, nil
	}

	if len(strings.TrimSpace(sourceToken)) == 0 {
		return "", ErrMissingSourceCredential
	}

	parsedCloneURL, parseError := url.Parse(trimmedCloneURL)
	if parseError != nil {
		return "", fmt.Errorf(invalidCloneURLErrorTemplateConstant, repository.FullName, parseError)
	}

	parsedCloneURL.User = url.User(sourceToken)
	return parsedCloneURL.String(), nil
}
