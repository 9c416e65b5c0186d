package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitea-mirror/internal/ui"
)

func TestConsoleSyncEventSinkLines(testInstance *testing.T) {
	testCases := []struct {
		name             string
		emitEvent        func(sink *ui.ConsoleSyncEventSink)
		expectedFragment string
	}{
		{
			name:             "no_repositories",
			emitEvent:        func(sink *ui.ConsoleSyncEventSink) { sink.NoRepositoriesFound("alice") },
			expectedFragment: "No repositories found for account alice.",
		},
		{
			name:             "migrated",
			emitEvent:        func(sink *ui.ConsoleSyncEventSink) { sink.RepositoryMigrated("alice/widget") },
			expectedFragment: "alice/widget",
		},
		{
			name:             "already_mirrored",
			emitEvent:        func(sink *ui.ConsoleSyncEventSink) { sink.RepositoryAlreadyMirrored("alice/widget") },
			expectedFragment: "alice/widget",
		},
		{
			name:             "skipped_private",
			emitEvent:        func(sink *ui.ConsoleSyncEventSink) { sink.RepositorySkippedPrivate("alice/secret") },
			expectedFragment: "alice/secret: private repository requires a source access token",
		},
		{
			name: "migration_failed",
			emitEvent: func(sink *ui.ConsoleSyncEventSink) {
				sink.RepositoryMigrationFailed("alice/widget", "boom")
			},
			expectedFragment: "alice/widget: boom",
		},
		{
			name:             "pruned",
			emitEvent:        func(sink *ui.ConsoleSyncEventSink) { sink.MirrorPruned("mirror-owner/orphan") },
			expectedFragment: "mirror-owner/orphan",
		},
		{
			name: "prune_failed",
			emitEvent: func(sink *ui.ConsoleSyncEventSink) {
				sink.MirrorPruneFailed("mirror-owner/stuck", "permission denied")
			},
			expectedFragment: "mirror-owner/stuck: permission denied",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			sink := ui.NewConsoleSyncEventSink(outputBuffer)

			testCase.emitEvent(sink)

			require.Contains(testInstance, outputBuffer.String(), testCase.expectedFragment)
			require.True(testInstance, bytes.HasSuffix(outputBuffer.Bytes(), []byte("\n")))
		})
	}
}

func TestRenderRepositoryTable(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}

	ui.RenderRepositoryTable(outputBuffer, []ui.RepositoryRow{
		{FullName: "alice/widget", Private: false, CloneURL: "https://github.com/alice/widget"},
		{FullName: "alice/secret", Private: true, CloneURL: "https://github.com/alice/secret"},
	})

	renderedOutput := outputBuffer.String()
	require.Contains(testInstance, renderedOutput, "alice/widget")
	require.Contains(testInstance, renderedOutput, "public")
	require.Contains(testInstance, renderedOutput, "alice/secret")
	require.Contains(testInstance, renderedOutput, "private")
	require.Contains(testInstance, renderedOutput, "https://github.com/alice/widget")
}

func TestRenderSyncSummary(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}

	ui.RenderSyncSummary(outputBuffer, ui.SyncSummary{
		Mirrored:        3,
		AlreadyMirrored: 2,
		SkippedPrivate:  1,
		Failed:          4,
		Pruned:          5,
	})

	renderedOutput := outputBuffer.String()
	require.Contains(testInstance, renderedOutput, "Mirrored")
	require.Contains(testInstance, renderedOutput, "Already mirrored")
	require.Contains(testInstance, renderedOutput, "Skipped (private)")
	require.Contains(testInstance, renderedOutput, "Failed")
	require.Contains(testInstance, renderedOutput, "Pruned")
	require.Contains(testInstance, renderedOutput, "5")
}
