package mirror_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitea-mirror/internal/mirror"
)

func TestParseSyncStrategy(testInstance *testing.T) {
	testCases := []struct {
		name             string
		rawValue         string
		expectedStrategy mirror.SyncStrategy
		expectError      bool
	}{
		{name: "empty_defaults_to_mirror", rawValue: "", expectedStrategy: mirror.SyncStrategyMirror},
		{name: "mirror", rawValue: "mirror", expectedStrategy: mirror.SyncStrategyMirror},
		{name: "clone", rawValue: "clone", expectedStrategy: mirror.SyncStrategyClone},
		{name: "uppercase_clone", rawValue: "CLONE", expectedStrategy: mirror.SyncStrategyClone},
		{name: "padded_mirror", rawValue: "  mirror  ", expectedStrategy: mirror.SyncStrategyMirror},
		{name: "unknown_value", rawValue: "archive", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedStrategy, parseError := mirror.ParseSyncStrategy(testCase.rawValue)
			if testCase.expectError {
				var strategyError mirror.InvalidStrategyError
				require.ErrorAs(testInstance, parseError, &strategyError)
				require.Equal(testInstance, testCase.rawValue, strategyError.Value)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedStrategy, parsedStrategy)
		})
	}
}

func TestSyncStrategyMirrorEnabled(testInstance *testing.T) {
	require.True(testInstance, mirror.SyncStrategyMirror.MirrorEnabled())
	require.False(testInstance, mirror.SyncStrategyClone.MirrorEnabled())
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	configuration := mirror.CommandConfiguration{
		GithubAccount: "  alice  ",
		GithubToken:   " github-token ",
		GiteaURL:      "https://gitea.example.com/ ",
		GiteaOwner:    " mirror-owner ",
		GiteaToken:    " gitea-token ",
		Strategy:      " mirror ",
		ForceSync:     " yes ",
	}

	sanitized := configuration.Sanitize()
	require.Equal(testInstance, "alice", sanitized.GithubAccount)
	require.Equal(testInstance, "github-token", sanitized.GithubToken)
	require.Equal(testInstance, "https://gitea.example.com", sanitized.GiteaURL)
	require.Equal(testInstance, "mirror-owner", sanitized.GiteaOwner)
	require.Equal(testInstance, "gitea-token", sanitized.GiteaToken)
	require.Equal(testInstance, "mirror", sanitized.Strategy)
	require.Equal(testInstance, "yes", sanitized.ForceSync)
}

func TestParseAffirmativeFlag(testInstance *testing.T) {
	testCases := []struct {
		rawValue        string
		expectedEnabled bool
	}{
		{rawValue: "y", expectedEnabled: true},
		{rawValue: "Y", expectedEnabled: true},
		{rawValue: "yes", expectedEnabled: true},
		{rawValue: "YES", expectedEnabled: true},
		{rawValue: "true", expectedEnabled: true},
		{rawValue: "1", expectedEnabled: true},
		{rawValue: " yes ", expectedEnabled: true},
		{rawValue: "", expectedEnabled: false},
		{rawValue: "no", expectedEnabled: false},
		{rawValue: "n", expectedEnabled: false},
		{rawValue: "false", expectedEnabled: false},
		{rawValue: "0", expectedEnabled: false},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%q", testCaseIndex, testCase.rawValue), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedEnabled, mirror.ParseAffirmativeFlag(testCase.rawValue))
		})
	}
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	defaults := mirror.DefaultConfigurationValues("sync")

	require.Equal(testInstance, "mirror", defaults["sync.strategy"])
	require.Equal(testInstance, "", defaults["sync.force_sync"])
	require.Equal(testInstance, 1, defaults["sync.concurrency"])
	require.Contains(testInstance, defaults, "sync.github_account")
	require.Contains(testInstance, defaults, "sync.gitea_url")
	require.Contains(testInstance, defaults, "sync.gitea_owner")
	require.Contains(testInstance, defaults, "sync.gitea_token")
	require.Contains(testInstance, defaults, "sync.github_token")
}
