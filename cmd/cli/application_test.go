package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testConfigurationFileContentConstant = `common:
  log_level: warn
  log_format: structured
sync:
  github_account: alice
  gitea_url: https://gitea.example.com
  gitea_owner: mirror-owner
  gitea_token: gitea-token
  strategy: clone
  force_sync: "yes"
  concurrency: 4
`

func executeApplication(testInstance *testing.T, application *Application, arguments []string) (string, error) {
	testInstance.Helper()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return outputBuffer.String(), executionError
}

func writeConfigurationFile(testInstance *testing.T) string {
	testInstance.Helper()

	configurationFilePath := filepath.Join(testInstance.TempDir(), "config.yaml")
	writeError := os.WriteFile(configurationFilePath, []byte(testConfigurationFileContentConstant), 0o600)
	require.NoError(testInstance, writeError)
	return configurationFilePath
}

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	registeredNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	require.True(testInstance, registeredNames["sync"])
	require.True(testInstance, registeredNames["list"])
	require.True(testInstance, registeredNames["prune"])
}

func TestRootCommandWithoutArgumentsPrintsHelp(testInstance *testing.T) {
	application := NewApplication()

	output, executionError := executeApplication(testInstance, application, []string{})
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, applicationNameConstant)
	require.Contains(testInstance, output, "sync")
	require.Contains(testInstance, output, "list")
	require.Contains(testInstance, output, "prune")
}

func TestConfigurationFileValuesReachMirrorConfiguration(testInstance *testing.T) {
	application := NewApplication()

	configurationFilePath := writeConfigurationFile(testInstance)

	_, executionError := executeApplication(testInstance, application, []string{"--config", configurationFilePath})
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "warn", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
	require.Equal(testInstance, "alice", application.configuration.Sync.GithubAccount)
	require.Equal(testInstance, "https://gitea.example.com", application.configuration.Sync.GiteaURL)
	require.Equal(testInstance, "mirror-owner", application.configuration.Sync.GiteaOwner)
	require.Equal(testInstance, "gitea-token", application.configuration.Sync.GiteaToken)
	require.Equal(testInstance, "clone", application.configuration.Sync.Strategy)
	require.Equal(testInstance, "yes", application.configuration.Sync.ForceSync)
	require.Equal(testInstance, 4, application.configuration.Sync.Concurrency)
}

func TestLogFlagsOverrideConfiguredValues(testInstance *testing.T) {
	application := NewApplication()

	configurationFilePath := writeConfigurationFile(testInstance)

	arguments := []string{"--config", configurationFilePath, "--log-level", "debug", "--log-format", "console"}
	_, executionError := executeApplication(testInstance, application, arguments)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
}

func TestMissingConfigurationFileFallsBackToDefaults(testInstance *testing.T) {
	application := NewApplication()

	_, executionError := executeApplication(testInstance, application, []string{})
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, "info", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "mirror", application.configuration.Sync.Strategy)
	require.Equal(testInstance, 1, application.configuration.Sync.Concurrency)
}
