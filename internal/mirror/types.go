package mirror

import (
	"fmt"
	"strings"
)

const (
	syncStrategyMirrorStringConstant       = "mirror"
	syncStrategyCloneStringConstant        = "clone"
	invalidStrategyMessageTemplateConstant = "unsupported sync strategy %q (expected %q or %q)"
)

// SyncStrategy selects between continuously-syncing mirrors and one-time clones.
type SyncStrategy string

// Supported sync strategies.
const (
	SyncStrategyMirror SyncStrategy = SyncStrategy(syncStrategyMirrorStringConstant)
	SyncStrategyClone  SyncStrategy = SyncStrategy(syncStrategyCloneStringConstant)
)

// InvalidStrategyError reports an unrecognized strategy value.
type InvalidStrategyError struct {
	Value string
}

// Error describes the invalid strategy value.
func (strategyError InvalidStrategyError) Error() string {
	return fmt.Sprintf(invalidStrategyMessageTemplateConstant, strategyError.Value, syncStrategyMirrorStringConstant, syncStrategyCloneStringConstant)
}

// ParseSyncStrategy normalizes a strategy value, defaulting empty input to mirror.
func ParseSyncStrategy(rawValue string) (SyncStrategy, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	switch normalizedValue {
	case "":
		return SyncStrategyMirror, nil
	case syncStrategyMirrorStringConstant:
		return SyncStrategyMirror, nil
	case syncStrategyCloneStringConstant:
		return SyncStrategyClone, nil
	default:
		return "", InvalidStrategyError{Value: rawValue}
	}
}

// MirrorEnabled reports whether migrations produced by this strategy keep syncing.
func (strategy SyncStrategy) MirrorEnabled() bool {
	return strategy != SyncStrategyClone
}

// RepositoryOutcomeKind classifies the result of one repository migration attempt.
type RepositoryOutcomeKind string

// Supported repository outcome kinds.
const (
	RepositoryOutcomeMigrated        RepositoryOutcomeKind = "migrated"
	RepositoryOutcomeAlreadyMirrored RepositoryOutcomeKind = "already_mirrored"
	RepositoryOutcomeSkippedPrivate  RepositoryOutcomeKind = "skipped_private"
	RepositoryOutcomeFailed          RepositoryOutcomeKind = "failed"
)

// RepositoryOutcome records what happened to a single source repository.
type RepositoryOutcome struct {
	RepositoryName string
	Kind           RepositoryOutcomeKind
	Detail         string
}

// PruneResult records one destination mirror considered for deletion.
type PruneResult struct {
	RepositoryFullName string
	Deleted            bool
	Detail             string
}

// SyncReport aggregates the observable results of one mirroring run.
type SyncReport struct {
	RepositoryOutcomes []RepositoryOutcome
	PruneResults       []PruneResult
}

// CountByKind tallies repository outcomes of the requested kind.
func (report SyncReport) CountByKind(kind RepositoryOutcomeKind) int {
	count := 0
	for _, outcome := range report.RepositoryOutcomes {
		if outcome.Kind == kind {
			count++
		}
	}
	return count
}

// PrunedCount tallies destination mirrors that were successfully deleted.
func (report SyncReport) PrunedCount() int {
	count := 0
	for _, pruneResult := range report.PruneResults {
		if pruneResult.Deleted {
			count++
		}
	}
	return count
}

// SyncOptions configures a mirroring run.
type SyncOptions struct {
	AccountName      string
	SourceToken      string
	DestinationOwner string
	Strategy         SyncStrategy
	ForceSync        bool
	Concurrency      int
}
