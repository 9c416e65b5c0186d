package mirror

import (
	"github.com/temirov/gitea-mirror/internal/giteaapi"
	"github.com/temirov/gitea-mirror/internal/githubapi"
)

// SourceRepositoryNames builds the name set used for cross-host reconciliation.
func SourceRepositoryNames(repositories []githubapi.Repository) map[string]struct{} {
	repositoryNames := make(map[string]struct{}, len(repositories))
	for _, repository := range repositories {
		repositoryNames[repository.Name] = struct{}{}
	}
	return repositoryNames
}

// SelectPrunableMirrors chooses destination repositories eligible for deletion.
//
// Only mirror repositories qualify. Without a source credential the lister
// cannot have observed private source repositories, so private destination
// mirrors are never considered in that case: they cannot be validated against
// source state and deleting them would risk false positives.
func SelectPrunableMirrors(destinationRepositories []giteaapi.Repository, sourceRepositoryNames map[string]struct{}, sourceCredentialAvailable bool) []giteaapi.Repository {
	prunableRepositories := make([]giteaapi.Repository, 0)
	for _, destinationRepository := range destinationRepositories {
		if !destinationRepository.Mirror {
			continue
		}
		if destinationRepository.Private && !sourceCredentialAvailable {
			continue
		}
		if _, existsInSource := sourceRepositoryNames[destinationRepository.Name]; existsInSource {
			continue
		}
		prunableRepositories = append(prunableRepositories, destinationRepository)
	}
	return prunableRepositories
}
