package mirror

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitea-mirror/internal/giteaapi"
	"github.com/temirov/gitea-mirror/internal/githubapi"
	"github.com/temirov/gitea-mirror/internal/ui"
)

const (
	syncCommandUseConstant           = "sync"
	syncCommandShortDescription      = "Mirror every repository of a GitHub account to a Gitea instance"
	syncCommandLongDescription       = "sync lists the GitHub account's repositories, optionally prunes orphaned destination mirrors, and migrates each repository to the configured Gitea instance."
	listCommandUseConstant           = "list"
	listCommandShortDescription      = "List the GitHub account's repositories"
	listCommandLongDescription       = "list prints every repository owned by the configured GitHub account, including private repositories when a token is configured."
	pruneCommandUseConstant          = "prune"
	pruneCommandShortDescription     = "Delete destination mirrors whose source repository disappeared"
	pruneCommandLongDescription      = "prune compares destination mirrors against the GitHub account's repositories by name and deletes mirrors with no corresponding source repository."
	flagAccountNameConstant          = "account"
	flagAccountDescriptionConstant   = "GitHub account whose repositories are mirrored."
	flagGithubTokenNameConstant      = "github-token"
	flagGithubTokenDescription       = "GitHub personal access token (optional; required for private repositories)."
	flagGiteaURLNameConstant         = "gitea-url"
	flagGiteaURLDescriptionConstant  = "Base URL of the destination Gitea instance."
	flagGiteaOwnerNameConstant       = "gitea-owner"
	flagGiteaOwnerDescription        = "Destination owner or organization receiving the mirrors."
	flagGiteaTokenNameConstant       = "gitea-token"
	flagGiteaTokenDescription        = "Gitea access token."
	flagStrategyNameConstant         = "strategy"
	flagStrategyDescriptionConstant  = "Sync strategy: mirror (continuous) or clone (one-time)."
	flagForceSyncNameConstant        = "force-sync"
	flagForceSyncDescription         = "Delete destination mirrors whose source repository no longer exists."
	flagConcurrencyNameConstant      = "concurrency"
	flagConcurrencyDescription       = "Number of migrations submitted concurrently."
	promptAccountMessageConstant     = "GitHub account to mirror:"
	promptGithubTokenMessageConstant = "GitHub access token (leave empty for public repositories only):"
	promptGiteaURLMessageConstant    = "Gitea base URL:"
	promptGiteaOwnerMessageConstant  = "Gitea owner or organization:"
	promptGiteaTokenMessageConstant  = "Gitea access token:"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved mirroring configuration.
type ConfigurationProvider func() CommandConfiguration

// SourceListerFactory builds the source repository lister for a run.
type SourceListerFactory func(sourceToken string, logger *zap.Logger) (SourceRepositoryLister, error)

// DestinationClientFactory builds the destination client for a run.
type DestinationClientFactory func(baseURL string, token string, logger *zap.Logger) (DestinationClient, error)

// CommandBuilder assembles the mirroring cobra commands with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider           LoggerProvider
	ConfigurationProvider    ConfigurationProvider
	Prompter                 ConfigurationPrompter
	SourceListerFactory      SourceListerFactory
	DestinationClientFactory DestinationClientFactory
}

// BuildSyncCommand constructs the cobra command running the full mirroring workflow.
func (builder *CommandBuilder) BuildSyncCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   syncCommandUseConstant,
		Short: syncCommandShortDescription,
		Long:  syncCommandLongDescription,
		RunE:  builder.runSync,
	}

	builder.registerSourceFlags(command)
	builder.registerDestinationFlags(command)
	command.Flags().String(flagStrategyNameConstant, "", flagStrategyDescriptionConstant)
	command.Flags().Bool(flagForceSyncNameConstant, false, flagForceSyncDescription)
	command.Flags().Int(flagConcurrencyNameConstant, defaultConcurrencyValueConstant, flagConcurrencyDescription)

	return command, nil
}

// BuildListCommand constructs the cobra command printing the source repository listing.
func (builder *CommandBuilder) BuildListCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescription,
		Long:  listCommandLongDescription,
		RunE:  builder.runList,
	}

	builder.registerSourceFlags(command)

	return command, nil
}

// BuildPruneCommand constructs the cobra command running reconciliation standalone.
func (builder *CommandBuilder) BuildPruneCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pruneCommandUseConstant,
		Short: pruneCommandShortDescription,
		Long:  pruneCommandLongDescription,
		RunE:  builder.runPrune,
	}

	builder.registerSourceFlags(command)
	builder.registerDestinationFlags(command)

	return command, nil
}

func (builder *CommandBuilder) registerSourceFlags(command *cobra.Command) {
	command.Flags().String(flagAccountNameConstant, "", flagAccountDescriptionConstant)
	command.Flags().String(flagGithubTokenNameConstant, "", flagGithubTokenDescription)
}

func (builder *CommandBuilder) registerDestinationFlags(command *cobra.Command) {
	command.Flags().String(flagGiteaURLNameConstant, "", flagGiteaURLDescriptionConstant)
	command.Flags().String(flagGiteaOwnerNameConstant, "", flagGiteaOwnerDescription)
	command.Flags().String(flagGiteaTokenNameConstant, "", flagGiteaTokenDescription)
}

func (builder *CommandBuilder) runSync(command *cobra.Command, arguments []string) error {
	settings, settingsError := builder.resolveSettings(command, true)
	if settingsError != nil {
		return settingsError
	}

	strategy, strategyError := ParseSyncStrategy(settings.Strategy)
	if strategyError != nil {
		return strategyError
	}

	forceSync := ParseAffirmativeFlag(settings.ForceSync)
	if command.Flags().Changed(flagForceSyncNameConstant) {
		forceSync, _ = command.Flags().GetBool(flagForceSyncNameConstant)
	}

	concurrency := settings.Concurrency
	if command.Flags().Changed(flagConcurrencyNameConstant) {
		concurrency, _ = command.Flags().GetInt(flagConcurrencyNameConstant)
	}

	service, serviceError := builder.buildService(command, settings)
	if serviceError != nil {
		return serviceError
	}

	options := SyncOptions{
		AccountName:      settings.GithubAccount,
		SourceToken:      settings.GithubToken,
		DestinationOwner: settings.GiteaOwner,
		Strategy:         strategy,
		ForceSync:        forceSync,
		Concurrency:      concurrency,
	}

	report, runError := service.Run(command.Context(), options)
	if runError != nil {
		return runError
	}

	if len(report.RepositoryOutcomes) > 0 || len(report.PruneResults) > 0 {
		ui.RenderSyncSummary(command.OutOrStdout(), summaryFromReport(report))
	}

	return nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, arguments []string) error {
	settings, settingsError := builder.resolveSettings(command, false)
	if settingsError != nil {
		return settingsError
	}

	sourceLister, listerError := builder.buildSourceLister(settings)
	if listerError != nil {
		return listerError
	}

	repositories, listingError := sourceLister.ListAccountRepositories(command.Context(), settings.GithubAccount)
	if listingError != nil {
		return listingError
	}

	if len(repositories) == 0 {
		eventSink := ui.NewConsoleSyncEventSink(command.OutOrStdout())
		eventSink.NoRepositoriesFound(settings.GithubAccount)
		return nil
	}

	repositoryRows := make([]ui.RepositoryRow, 0, len(repositories))
	for _, repository := range repositories {
		repositoryRows = append(repositoryRows, ui.RepositoryRow{
			FullName: repository.FullName,
			Private:  repository.Private,
			CloneURL: repository.HTMLURL,
		})
	}

	ui.RenderRepositoryTable(command.OutOrStdout(), repositoryRows)
	return nil
}

func (builder *CommandBuilder) runPrune(command *cobra.Command, arguments []string) error {
	settings, settingsError := builder.resolveSettings(command, true)
	if settingsError != nil {
		return settingsError
	}

	service, serviceError := builder.buildService(command, settings)
	if serviceError != nil {
		return serviceError
	}

	options := SyncOptions{
		AccountName:      settings.GithubAccount,
		SourceToken:      settings.GithubToken,
		DestinationOwner: settings.GiteaOwner,
	}

	report, pruneError := service.Prune(command.Context(), options)
	if pruneError != nil {
		return pruneError
	}

	if len(report.PruneResults) > 0 {
		ui.RenderSyncSummary(command.OutOrStdout(), summaryFromReport(report))
	}

	return nil
}

func (builder *CommandBuilder) buildService(command *cobra.Command, settings CommandConfiguration) (*Service, error) {
	logger := builder.resolveLogger()

	sourceLister, listerError := builder.buildSourceLister(settings)
	if listerError != nil {
		return nil, listerError
	}

	destinationFactory := builder.DestinationClientFactory
	if destinationFactory == nil {
		destinationFactory = defaultDestinationClientFactory
	}

	destinationClient, destinationError := destinationFactory(settings.GiteaURL, settings.GiteaToken, logger)
	if destinationError != nil {
		return nil, destinationError
	}

	return NewService(ServiceDependencies{
		Logger:            logger,
		SourceLister:      sourceLister,
		DestinationClient: destinationClient,
		EventSink:         ui.NewConsoleSyncEventSink(command.OutOrStdout()),
	})
}

func (builder *CommandBuilder) buildSourceLister(settings CommandConfiguration) (SourceRepositoryLister, error) {
	listerFactory := builder.SourceListerFactory
	if listerFactory == nil {
		listerFactory = defaultSourceListerFactory
	}
	return listerFactory(settings.GithubToken, builder.resolveLogger())
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolveSettings merges configuration, flag overrides, and interactive
// prompting for still-missing required values.
func (builder *CommandBuilder) resolveSettings(command *cobra.Command, destinationRequired bool) (CommandConfiguration, error) {
	settings := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		settings = builder.ConfigurationProvider()
	}

	applyStringFlagOverride(command, flagAccountNameConstant, &settings.GithubAccount)
	applyStringFlagOverride(command, flagGithubTokenNameConstant, &settings.GithubToken)
	applyStringFlagOverride(command, flagGiteaURLNameConstant, &settings.GiteaURL)
	applyStringFlagOverride(command, flagGiteaOwnerNameConstant, &settings.GiteaOwner)
	applyStringFlagOverride(command, flagGiteaTokenNameConstant, &settings.GiteaToken)
	applyStringFlagOverride(command, flagStrategyNameConstant, &settings.Strategy)

	settings = settings.Sanitize()

	if promptError := builder.promptMissingSettings(&settings, destinationRequired); promptError != nil {
		return CommandConfiguration{}, promptError
	}

	settings = settings.Sanitize()

	if validationError := validateResolvedSettings(settings, destinationRequired); validationError != nil {
		return CommandConfiguration{}, validationError
	}

	return settings, nil
}

func (builder *CommandBuilder) promptMissingSettings(settings *CommandConfiguration, destinationRequired bool) error {
	if builder.Prompter == nil {
		return nil
	}

	if len(settings.GithubAccount) == 0 {
		promptedAccount, promptError := builder.Prompter.PromptInput(promptAccountMessageConstant, "")
		if promptError != nil {
			return promptError
		}
		settings.GithubAccount = promptedAccount

		if len(settings.GithubToken) == 0 {
			promptedToken, tokenPromptError := builder.Prompter.PromptSecret(promptGithubTokenMessageConstant)
			if tokenPromptError != nil {
				return tokenPromptError
			}
			settings.GithubToken = promptedToken
		}
	}

	if !destinationRequired {
		return nil
	}

	if len(settings.GiteaURL) == 0 {
		promptedURL, promptError := builder.Prompter.PromptInput(promptGiteaURLMessageConstant, "")
		if promptError != nil {
			return promptError
		}
		settings.GiteaURL = promptedURL
	}

	if len(settings.GiteaOwner) == 0 {
		promptedOwner, promptError := builder.Prompter.PromptInput(promptGiteaOwnerMessageConstant, settings.GithubAccount)
		if promptError != nil {
			return promptError
		}
		settings.GiteaOwner = promptedOwner
	}

	if len(settings.GiteaToken) == 0 {
		promptedToken, promptError := builder.Prompter.PromptSecret(promptGiteaTokenMessageConstant)
		if promptError != nil {
			return promptError
		}
		settings.GiteaToken = promptedToken
	}

	return nil
}

func validateResolvedSettings(settings CommandConfiguration, destinationRequired bool) error {
	if len(settings.GithubAccount) == 0 {
		return InvalidInputError{FieldName: flagAccountNameConstant, Message: requiredValueMessageConstant}
	}

	if !destinationRequired {
		return nil
	}

	if len(settings.GiteaURL) == 0 {
		return InvalidInputError{FieldName: flagGiteaURLNameConstant, Message: requiredValueMessageConstant}
	}
	if len(settings.GiteaOwner) == 0 {
		return InvalidInputError{FieldName: flagGiteaOwnerNameConstant, Message: requiredValueMessageConstant}
	}
	if len(settings.GiteaToken) == 0 {
		return InvalidInputError{FieldName: flagGiteaTokenNameConstant, Message: requiredValueMessageConstant}
	}

	return nil
}

func applyStringFlagOverride(command *cobra.Command, flagName string, targetValue *string) {
	if !command.Flags().Changed(flagName) {
		return
	}
	flagValue, _ := command.Flags().GetString(flagName)
	*targetValue = flagValue
}

func summaryFromReport(report SyncReport) ui.SyncSummary {
	return ui.SyncSummary{
		Mirrored:        report.CountByKind(RepositoryOutcomeMigrated),
		AlreadyMirrored: report.CountByKind(RepositoryOutcomeAlreadyMirrored),
		SkippedPrivate:  report.CountByKind(RepositoryOutcomeSkippedPrivate),
		Failed:          report.CountByKind(RepositoryOutcomeFailed),
		Pruned:          report.PrunedCount(),
	}
}

func defaultSourceListerFactory(sourceToken string, logger *zap.Logger) (SourceRepositoryLister, error) {
	return githubapi.NewClient(githubapi.ClientOptions{
		Token:  sourceToken,
		Logger: logger,
	})
}

func defaultDestinationClientFactory(baseURL string, token string, logger *zap.Logger) (DestinationClient, error) {
	return giteaapi.NewClient(giteaapi.ClientOptions{
		BaseURL: baseURL,
		Token:   token,
		Logger:  logger,
	})
}
