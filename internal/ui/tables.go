package ui

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	repositoryNameHeaderConstant  = "Repository"
	visibilityHeaderConstant      = "Visibility"
	cloneURLHeaderConstant        = "Clone URL"
	visibilityPrivateConstant     = "private"
	visibilityPublicConstant      = "public"
	summaryOutcomeHeaderConstant  = "Outcome"
	summaryCountHeaderConstant    = "Count"
	summaryMirroredLabelConstant  = "Mirrored"
	summaryExistingLabelConstant  = "Already mirrored"
	summarySkippedLabelConstant   = "Skipped (private)"
	summaryFailedLabelConstant    = "Failed"
	summaryPrunedLabelConstant    = "Pruned"
)

// RepositoryRow models one repository listing line.
type RepositoryRow struct {
	FullName string
	Private  bool
	CloneURL string
}

// SyncSummary tallies the outcomes of one mirroring run.
type SyncSummary struct {
	Mirrored        int
	AlreadyMirrored int
	SkippedPrivate  int
	Failed          int
	Pruned          int
}

func newTable(outputWriter io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(outputWriter,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
}

// RenderRepositoryTable prints the repository listing as a table.
func RenderRepositoryTable(outputWriter io.Writer, repositoryRows []RepositoryRow) {
	table := newTable(outputWriter)
	table.Header([]string{repositoryNameHeaderConstant, visibilityHeaderConstant, cloneURLHeaderConstant})

	for _, repositoryRow := range repositoryRows {
		visibility := visibilityPublicConstant
		if repositoryRow.Private {
			visibility = visibilityPrivateConstant
		}
		table.Append([]string{repositoryRow.FullName, visibility, repositoryRow.CloneURL})
	}

	table.Render()
}

// RenderSyncSummary prints the run outcome tallies as a table.
func RenderSyncSummary(outputWriter io.Writer, summary SyncSummary) {
	table := newTable(outputWriter)
	table.Header([]string{summaryOutcomeHeaderConstant, summaryCountHeaderConstant})

	summaryRows := []struct {
		label string
		count int
	}{
		{label: summaryMirroredLabelConstant, count: summary.Mirrored},
		{label: summaryExistingLabelConstant, count: summary.AlreadyMirrored},
		{label: summarySkippedLabelConstant, count: summary.SkippedPrivate},
		{label: summaryFailedLabelConstant, count: summary.Failed},
		{label: summaryPrunedLabelConstant, count: summary.Pruned},
	}

	for _, summaryRow := range summaryRows {
		table.Append([]string{summaryRow.label, strconv.Itoa(summaryRow.count)})
	}

	table.Render()
}
