package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	statusLineTemplateConstant           = "%s  %s\n"
	statusLineWithDetailTemplateConstant = "%s  %s: %s\n"
	noRepositoriesTemplateConstant       = "No repositories found for account %s.\n"
	mirroredStatusLabelConstant          = "mirrored"
	existsStatusLabelConstant            = "exists"
	skippedStatusLabelConstant           = "skipped"
	failedStatusLabelConstant            = "failed"
	prunedStatusLabelConstant            = "pruned"
	pruneFailedStatusLabelConstant       = "prune-failed"
)

var (
	mirroredLabelColor    = color.New(color.FgGreen)
	existsLabelColor      = color.New(color.FgCyan)
	skippedLabelColor     = color.New(color.FgYellow)
	failedLabelColor      = color.New(color.FgRed)
	prunedLabelColor      = color.New(color.FgMagenta)
	pruneFailedLabelColor = color.New(color.FgRed)
)

// ConsoleSyncEventSink prints repository lifecycle events as colored status lines.
type ConsoleSyncEventSink struct {
	outputWriter io.Writer
}

// NewConsoleSyncEventSink constructs a sink writing to the provided writer.
func NewConsoleSyncEventSink(outputWriter io.Writer) *ConsoleSyncEventSink {
	return &ConsoleSyncEventSink{outputWriter: outputWriter}
}

// NoRepositoriesFound reports an account without any repositories.
func (sink *ConsoleSyncEventSink) NoRepositoriesFound(accountName string) {
	fmt.Fprintf(sink.outputWriter, noRepositoriesTemplateConstant, accountName)
}

// RepositoryMigrated reports a freshly migrated repository.
func (sink *ConsoleSyncEventSink) RepositoryMigrated(repositoryFullName string) {
	fmt.Fprintf(sink.outputWriter, statusLineTemplateConstant, mirroredLabelColor.Sprint(mirroredStatusLabelConstant), repositoryFullName)
}

// RepositoryAlreadyMirrored reports a repository the destination already has.
func (sink *ConsoleSyncEventSink) RepositoryAlreadyMirrored(repositoryFullName string) {
	fmt.Fprintf(sink.outputWriter, statusLineTemplateConstant, existsLabelColor.Sprint(existsStatusLabelConstant), repositoryFullName)
}

// RepositorySkippedPrivate reports a private repository skipped for lack of a source token.
func (sink *ConsoleSyncEventSink) RepositorySkippedPrivate(repositoryFullName string) {
	fmt.Fprintf(sink.outputWriter, statusLineWithDetailTemplateConstant, skippedLabelColor.Sprint(skippedStatusLabelConstant), repositoryFullName, "private repository requires a source access token")
}

// RepositoryMigrationFailed reports a failed migration with the server detail.
func (sink *ConsoleSyncEventSink) RepositoryMigrationFailed(repositoryFullName string, failureDetail string) {
	fmt.Fprintf(sink.outputWriter, statusLineWithDetailTemplateConstant, failedLabelColor.Sprint(failedStatusLabelConstant), repositoryFullName, failureDetail)
}

// MirrorPruned reports a deleted orphaned destination mirror.
func (sink *ConsoleSyncEventSink) MirrorPruned(repositoryFullName string) {
	fmt.Fprintf(sink.outputWriter, statusLineTemplateConstant, prunedLabelColor.Sprint(prunedStatusLabelConstant), repositoryFullName)
}

// MirrorPruneFailed reports a destination mirror that could not be deleted.
func (sink *ConsoleSyncEventSink) MirrorPruneFailed(repositoryFullName string, failureDetail string) {
	fmt.Fprintf(sink.outputWriter, statusLineWithDetailTemplateConstant, pruneFailedLabelColor.Sprint(pruneFailedStatusLabelConstant), repositoryFullName, failureDetail)
}
