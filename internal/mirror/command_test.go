package mirror_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitea-mirror/internal/giteaapi"
	"github.com/temirov/gitea-mirror/internal/githubapi"
	"github.com/temirov/gitea-mirror/internal/mirror"
)

type stubPrompter struct {
	inputAnswers   map[string]string
	secretAnswers  map[string]string
	promptedInputs []string
}

func (prompter *stubPrompter) PromptInput(promptMessage string, defaultValue string) (string, error) {
	prompter.promptedInputs = append(prompter.promptedInputs, promptMessage)
	if answer, exists := prompter.inputAnswers[promptMessage]; exists {
		return answer, nil
	}
	return defaultValue, nil
}

func (prompter *stubPrompter) PromptSecret(promptMessage string) (string, error) {
	prompter.promptedInputs = append(prompter.promptedInputs, promptMessage)
	return prompter.secretAnswers[promptMessage], nil
}

func (prompter *stubPrompter) PromptSelect(promptMessage string, selectionOptions []string, defaultValue string) (string, error) {
	return defaultValue, nil
}

func (prompter *stubPrompter) PromptConfirm(promptMessage string, defaultValue bool) (bool, error) {
	return defaultValue, nil
}

type commandTestHarness struct {
	sourceLister      *stubSourceLister
	destinationClient *recordingDestinationClient
	capturedBaseURL   string
	capturedToken     string
	capturedSource    string
}

func newCommandTestHarness(repositories []githubapi.Repository) *commandTestHarness {
	return &commandTestHarness{
		sourceLister:      &stubSourceLister{repositories: repositories},
		destinationClient: &recordingDestinationClient{},
	}
}

func (harness *commandTestHarness) builder(configuration mirror.CommandConfiguration, prompter mirror.ConfigurationPrompter) *mirror.CommandBuilder {
	return &mirror.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() mirror.CommandConfiguration { return configuration },
		Prompter:              prompter,
		SourceListerFactory: func(sourceToken string, logger *zap.Logger) (mirror.SourceRepositoryLister, error) {
			harness.capturedSource = sourceToken
			harness.sourceLister.tokenPresent = len(sourceToken) > 0
			return harness.sourceLister, nil
		},
		DestinationClientFactory: func(baseURL string, token string, logger *zap.Logger) (mirror.DestinationClient, error) {
			harness.capturedBaseURL = baseURL
			harness.capturedToken = token
			return harness.destinationClient, nil
		},
	}
}

func completeConfiguration() mirror.CommandConfiguration {
	return mirror.CommandConfiguration{
		GithubAccount: "alice",
		GiteaURL:      "https://gitea.example.com",
		GiteaOwner:    testDestinationOwnerConstant,
		GiteaToken:    "gitea-token",
		Strategy:      "mirror",
		Concurrency:   1,
	}
}

func executeCommand(testInstance *testing.T, command *cobra.Command, arguments []string) (string, error) {
	testInstance.Helper()

	if arguments == nil {
		arguments = []string{}
	}

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)
	command.SetContext(context.Background())

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestSyncCommandMigratesConfiguredAccount(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "widget", FullName: "alice/widget", HTMLURL: "https://github.com/alice/widget", Owner: githubapi.RepositoryOwner{Login: "alice"}},
	})

	builder := harness.builder(completeConfiguration(), nil)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, syncCommand, nil)
	require.NoError(testInstance, executionError)
	require.Len(testInstance, harness.destinationClient.migrationRequests, 1)
	require.Equal(testInstance, "widget", harness.destinationClient.migrationRequests[0].RepositoryName)
	require.Equal(testInstance, testDestinationOwnerConstant, harness.destinationClient.migrationRequests[0].RepositoryOwner)
	require.True(testInstance, harness.destinationClient.migrationRequests[0].Mirror)
	require.Equal(testInstance, "https://gitea.example.com", harness.capturedBaseURL)
	require.Equal(testInstance, "gitea-token", harness.capturedToken)
	require.Contains(testInstance, output, "alice/widget")
}

func TestSyncCommandCloneStrategyFlagDisablesMirroring(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "widget", FullName: "alice/widget", HTMLURL: "https://github.com/alice/widget"},
	})

	builder := harness.builder(completeConfiguration(), nil)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, syncCommand, []string{"--strategy", "clone"})
	require.NoError(testInstance, executionError)
	require.Len(testInstance, harness.destinationClient.migrationRequests, 1)
	require.False(testInstance, harness.destinationClient.migrationRequests[0].Mirror)
}

func TestSyncCommandRejectsUnknownStrategyBeforeMigrating(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "widget", FullName: "alice/widget", HTMLURL: "https://github.com/alice/widget"},
	})

	configuration := completeConfiguration()
	configuration.Strategy = "archive"

	builder := harness.builder(configuration, nil)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, syncCommand, nil)
	var strategyError mirror.InvalidStrategyError
	require.ErrorAs(testInstance, executionError, &strategyError)
	require.Empty(testInstance, harness.destinationClient.migrationRequests)
}

func TestSyncCommandForceSyncFlagEnablesPruning(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "kept", FullName: "alice/kept", HTMLURL: "https://github.com/alice/kept"},
	})
	harness.destinationClient.destinationListing = []giteaapi.Repository{
		{Name: "orphan", FullName: "mirror-owner/orphan", Mirror: true},
	}

	builder := harness.builder(completeConfiguration(), nil)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, syncCommand, []string{"--force-sync"})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"mirror-owner/orphan"}, harness.destinationClient.deletedRepositories)
}

func TestSyncCommandConfiguredForceSyncValueEnablesPruning(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "kept", FullName: "alice/kept", HTMLURL: "https://github.com/alice/kept"},
	})
	harness.destinationClient.destinationListing = []giteaapi.Repository{
		{Name: "orphan", FullName: "mirror-owner/orphan", Mirror: true},
	}

	configuration := completeConfiguration()
	configuration.ForceSync = "yes"

	builder := harness.builder(configuration, nil)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, syncCommand, nil)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"mirror-owner/orphan"}, harness.destinationClient.deletedRepositories)
}

func TestSyncCommandFlagsOverrideConfiguration(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "widget", FullName: "bob/widget", HTMLURL: "https://github.com/bob/widget", Owner: githubapi.RepositoryOwner{Login: "bob"}},
	})

	builder := harness.builder(completeConfiguration(), nil)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	arguments := []string{
		"--account", "bob",
		"--gitea-url", "https://other.example.com/",
		"--gitea-owner", "bob-mirrors",
		"--gitea-token", "other-token",
	}

	_, executionError := executeCommand(testInstance, syncCommand, arguments)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "https://other.example.com", harness.capturedBaseURL)
	require.Equal(testInstance, "other-token", harness.capturedToken)
	require.Len(testInstance, harness.destinationClient.migrationRequests, 1)
	require.Equal(testInstance, "bob-mirrors", harness.destinationClient.migrationRequests[0].RepositoryOwner)
}

func TestSyncCommandWithoutAccountFailsWhenNoPrompterConfigured(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	configuration := completeConfiguration()
	configuration.GithubAccount = ""

	builder := harness.builder(configuration, nil)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, syncCommand, nil)
	var inputError mirror.InvalidInputError
	require.ErrorAs(testInstance, executionError, &inputError)
	require.Equal(testInstance, "account", inputError.FieldName)
}

func TestSyncCommandPromptsForMissingValues(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "widget", FullName: "carol/widget", HTMLURL: "https://github.com/carol/widget", Owner: githubapi.RepositoryOwner{Login: "carol"}},
	})

	prompter := &stubPrompter{
		inputAnswers: map[string]string{
			"GitHub account to mirror:": "carol",
			"Gitea base URL:":           "https://gitea.example.com",
		},
		secretAnswers: map[string]string{
			"GitHub access token (leave empty for public repositories only):": "",
			"Gitea access token:": "prompted-token",
		},
	}

	builder := harness.builder(mirror.CommandConfiguration{Strategy: "mirror", Concurrency: 1}, prompter)
	syncCommand, buildError := builder.BuildSyncCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, syncCommand, nil)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "prompted-token", harness.capturedToken)
	require.Len(testInstance, harness.destinationClient.migrationRequests, 1)
	// Owner prompt defaults to the account answered moments earlier.
	require.Equal(testInstance, "carol", harness.destinationClient.migrationRequests[0].RepositoryOwner)
}

func TestListCommandRendersRepositoryTable(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "widget", FullName: "alice/widget", HTMLURL: "https://github.com/alice/widget", Private: true},
	})

	builder := harness.builder(completeConfiguration(), nil)
	listCommand, buildError := builder.BuildListCommand()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, listCommand, nil)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "alice/widget")
	require.Contains(testInstance, output, "https://github.com/alice/widget")
	require.Empty(testInstance, harness.destinationClient.migrationRequests)
}

func TestListCommandReportsEmptyAccounts(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	builder := harness.builder(completeConfiguration(), nil)
	listCommand, buildError := builder.BuildListCommand()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, listCommand, nil)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "No repositories found for account alice.")
}

func TestPruneCommandDeletesOrphanedMirrors(testInstance *testing.T) {
	harness := newCommandTestHarness([]githubapi.Repository{
		{Name: "kept", FullName: "alice/kept", HTMLURL: "https://github.com/alice/kept"},
	})
	harness.destinationClient.destinationListing = []giteaapi.Repository{
		{Name: "kept", FullName: "mirror-owner/kept", Mirror: true},
		{Name: "orphan", FullName: "mirror-owner/orphan", Mirror: true},
	}

	builder := harness.builder(completeConfiguration(), nil)
	pruneCommand, buildError := builder.BuildPruneCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, pruneCommand, nil)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"mirror-owner/orphan"}, harness.destinationClient.deletedRepositories)
	require.Empty(testInstance, harness.destinationClient.migrationRequests)
}
