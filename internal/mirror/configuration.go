package mirror

import "strings"

const (
	configurationAccountKeyConstant     = "github_account"
	configurationGithubTokenKeyConstant = "github_token"
	configurationGiteaURLKeyConstant    = "gitea_url"
	configurationGiteaOwnerKeyConstant  = "gitea_owner"
	configurationGiteaTokenKeyConstant  = "gitea_token"
	configurationStrategyKeyConstant    = "strategy"
	configurationForceSyncKeyConstant   = "force_sync"
	configurationConcurrencyKeyConstant = "concurrency"
	configurationKeySeparatorConstant   = "."
	defaultStrategyValueConstant        = syncStrategyMirrorStringConstant
	defaultForceSyncValueConstant       = ""
	defaultConcurrencyValueConstant     = 1
)

// affirmativeFlagValues enumerates inputs accepted as an enabled force-sync flag.
var affirmativeFlagValues = map[string]struct{}{
	"y":    {},
	"yes":  {},
	"true": {},
	"1":    {},
}

// CommandConfiguration captures persisted configuration for the mirroring commands.
type CommandConfiguration struct {
	GithubAccount string `mapstructure:"github_account"`
	GithubToken   string `mapstructure:"github_token"`
	GiteaURL      string `mapstructure:"gitea_url"`
	GiteaOwner    string `mapstructure:"gitea_owner"`
	GiteaToken    string `mapstructure:"gitea_token"`
	Strategy      string `mapstructure:"strategy"`
	ForceSync     string `mapstructure:"force_sync"`
	Concurrency   int    `mapstructure:"concurrency"`
}

// DefaultCommandConfiguration returns baseline configuration values for mirroring.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Strategy:    defaultStrategyValueConstant,
		ForceSync:   defaultForceSyncValueConstant,
		Concurrency: defaultConcurrencyValueConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the mirroring commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationAccountKeyConstant:     defaults.GithubAccount,
		rootKey + configurationKeySeparatorConstant + configurationGithubTokenKeyConstant: defaults.GithubToken,
		rootKey + configurationKeySeparatorConstant + configurationGiteaURLKeyConstant:    defaults.GiteaURL,
		rootKey + configurationKeySeparatorConstant + configurationGiteaOwnerKeyConstant:  defaults.GiteaOwner,
		rootKey + configurationKeySeparatorConstant + configurationGiteaTokenKeyConstant:  defaults.GiteaToken,
		rootKey + configurationKeySeparatorConstant + configurationStrategyKeyConstant:    defaults.Strategy,
		rootKey + configurationKeySeparatorConstant + configurationForceSyncKeyConstant:   defaults.ForceSync,
		rootKey + configurationKeySeparatorConstant + configurationConcurrencyKeyConstant: defaults.Concurrency,
	}
}

// Sanitize trims configured values and strips the destination URL's trailing slash.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.GithubAccount = strings.TrimSpace(configuration.GithubAccount)
	sanitized.GithubToken = strings.TrimSpace(configuration.GithubToken)
	sanitized.GiteaURL = strings.TrimSuffix(strings.TrimSpace(configuration.GiteaURL), "/")
	sanitized.GiteaOwner = strings.TrimSpace(configuration.GiteaOwner)
	sanitized.GiteaToken = strings.TrimSpace(configuration.GiteaToken)
	sanitized.Strategy = strings.TrimSpace(configuration.Strategy)
	sanitized.ForceSync = strings.TrimSpace(configuration.ForceSync)
	return sanitized
}

// ParseAffirmativeFlag interprets yes/y style values as an enabled flag.
func ParseAffirmativeFlag(rawValue string) bool {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	_, isAffirmative := affirmativeFlagValues[normalizedValue]
	return isAffirmative
}
