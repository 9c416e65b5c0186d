package githubapi

// RepositoryOwner identifies the account owning a repository.
type RepositoryOwner struct {
	Login string `json:"login"`
}

// Repository captures the subset of the GitHub repository payload used by mirroring.
type Repository struct {
	Name     string          `json:"name"`
	FullName string          `json:"full_name"`
	HTMLURL  string          `json:"html_url"`
	Private  bool            `json:"private"`
	Owner    RepositoryOwner `json:"owner"`
}
