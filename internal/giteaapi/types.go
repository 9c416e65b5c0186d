package giteaapi

// Repository captures the subset of the Gitea repository payload used by reconciliation.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Mirror   bool   `json:"mirror"`
	Private  bool   `json:"private"`
}

// MigrationRequest describes one repository migration submitted to Gitea.
type MigrationRequest struct {
	CloneAddress    string `json:"clone_addr"`
	Mirror          bool   `json:"mirror"`
	Private         bool   `json:"private"`
	RepositoryOwner string `json:"repo_owner"`
	RepositoryName  string `json:"repo_name"`
}

// MigrationStatus classifies the outcome of a migration request.
type MigrationStatus string

// Supported migration statuses.
const (
	MigrationStatusCreated       MigrationStatus = "created"
	MigrationStatusAlreadyExists MigrationStatus = "already_exists"
	MigrationStatusFailed        MigrationStatus = "failed"
)

// MigrationOutcome carries the classified migration result and any server message.
type MigrationOutcome struct {
	Status  MigrationStatus
	Message string
}
