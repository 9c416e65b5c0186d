package mirror

// SyncEventSink receives repository lifecycle notifications during a run.
//
// Implementations render operator-facing output; the service itself never
// writes to the terminal.
type SyncEventSink interface {
	NoRepositoriesFound(accountName string)
	RepositoryMigrated(repositoryFullName string)
	RepositoryAlreadyMirrored(repositoryFullName string)
	RepositorySkippedPrivate(repositoryFullName string)
	RepositoryMigrationFailed(repositoryFullName string, failureDetail string)
	MirrorPruned(repositoryFullName string)
	MirrorPruneFailed(repositoryFullName string, failureDetail string)
}

// NoopSyncEventSink discards every event.
type NoopSyncEventSink struct{}

// NoRepositoriesFound implements SyncEventSink.
func (NoopSyncEventSink) NoRepositoriesFound(string) {}

// RepositoryMigrated implements SyncEventSink.
func (NoopSyncEventSink) RepositoryMigrated(string) {}

// RepositoryAlreadyMirrored implements SyncEventSink.
func (NoopSyncEventSink) RepositoryAlreadyMirrored(string) {}

// RepositorySkippedPrivate implements SyncEventSink.
func (NoopSyncEventSink) RepositorySkippedPrivate(string) {}

// RepositoryMigrationFailed implements SyncEventSink.
func (NoopSyncEventSink) RepositoryMigrationFailed(string, string) {}

// MirrorPruned implements SyncEventSink.
func (NoopSyncEventSink) MirrorPruned(string) {}

// MirrorPruneFailed implements SyncEventSink.
func (NoopSyncEventSink) MirrorPruneFailed(string, string) {}
