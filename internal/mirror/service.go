package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitea-mirror/internal/giteaapi"
	"github.com/temirov/gitea-mirror/internal/githubapi"
)

const (
	accountFieldNameConstant                = "account"
	destinationOwnerFieldNameConstant       = "destination_owner"
	requiredValueMessageConstant            = "value is required"
	sourceListerMissingMessageConstant      = "source repository lister not configured"
	destinationClientMissingMessageConstant = "destination client not configured"
	sourceListingErrorTemplateConstant      = "unable to list source repositories: %w"
	destinationListingErrorTemplateConstant = "unable to list destination repositories: %w"
	migrationCallErrorTemplateConstant      = "migration request failed: %v"
	defaultConcurrencyConstant              = 1
	repositoryLogFieldConstant              = "repository"
	outcomeLogFieldConstant                 = "outcome"
	detailLogFieldConstant                  = "detail"
	repositoryCountLogFieldConstant         = "repository_count"
	pruneCandidateCountLogFieldConstant     = "prune_candidates"
	sourceListedMessageConstant             = "source repositories listed"
	pruneSelectionMessageConstant           = "destination mirrors selected for pruning"
	repositoryOutcomeMessageConstant        = "repository processed"
)

// InvalidInputError describes sync option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}

var (
	errSourceListerMissing      = errors.New(sourceListerMissingMessageConstant)
	errDestinationClientMissing = errors.New(destinationClientMissingMessageConstant)
)

// SourceRepositoryLister lists the repositories owned by a source account.
type SourceRepositoryLister interface {
	ListAccountRepositories(executionContext context.Context, accountName string) ([]githubapi.Repository, error)
	HasToken() bool
}

// DestinationClient drives repository operations against the destination host.
type DestinationClient interface {
	ListUserRepositories(executionContext context.Context) ([]giteaapi.Repository, error)
	DeleteRepository(executionContext context.Context, ownerName string, repositoryName string) error
	MigrateRepository(executionContext context.Context, migrationRequest giteaapi.MigrationRequest) (giteaapi.MigrationOutcome, error)
}

// ServiceDependencies describes required collaborators for mirroring.
type ServiceDependencies struct {
	Logger            *zap.Logger
	SourceLister      SourceRepositoryLister
	DestinationClient DestinationClient
	EventSink         SyncEventSink
}

// Service orchestrates the mirroring workflow.
type Service struct {
	logger            *zap.Logger
	sourceLister      SourceRepositoryLister
	destinationClient DestinationClient
	eventSink         SyncEventSink
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.SourceLister == nil {
		return nil, errSourceListerMissing
	}
	if dependencies.DestinationClient == nil {
		return nil, errDestinationClientMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	eventSink := dependencies.EventSink
	if eventSink == nil {
		eventSink = NoopSyncEventSink{}
	}

	service := &Service{
		logger:            logger,
		sourceLister:      dependencies.SourceLister,
		destinationClient: dependencies.DestinationClient,
		eventSink:         eventSink,
	}

	return service, nil
}

// Run executes a full mirroring run: source listing, optional reconciliation,
// and per-repository migration.
//
// Individual repository failures never abort the run; only option validation
// and listing failures surface as errors.
func (service *Service) Run(executionContext context.Context, options SyncOptions) (SyncReport, error) {
	if validationError := service.validateOptions(options); validationError != nil {
		return SyncReport{}, validationError
	}

	sourceRepositories, listingError := service.sourceLister.ListAccountRepositories(executionContext, options.AccountName)
	if listingError != nil {
		return SyncReport{}, fmt.Errorf(sourceListingErrorTemplateConstant, listingError)
	}

	service.logger.Info(
		sourceListedMessageConstant,
		zap.String(accountFieldNameConstant, options.AccountName),
		zap.Int(repositoryCountLogFieldConstant, len(sourceRepositories)),
	)

	if len(sourceRepositories) == 0 {
		service.eventSink.NoRepositoriesFound(options.AccountName)
		return SyncReport{}, nil
	}

	report := SyncReport{}

	if options.ForceSync {
		pruneResults, pruneError := service.pruneOrphanedMirrors(executionContext, SourceRepositoryNames(sourceRepositories))
		if pruneError != nil {
			return SyncReport{}, pruneError
		}
		report.PruneResults = pruneResults
	}

	report.RepositoryOutcomes = service.migrateRepositories(executionContext, sourceRepositories, options)

	return report, nil
}

// Prune runs the reconciliation pass standalone: destination mirrors whose
// source repository no longer exists are deleted.
func (service *Service) Prune(executionContext context.Context, options SyncOptions) (SyncReport, error) {
	if validationError := service.validateOptions(options); validationError != nil {
		return SyncReport{}, validationError
	}

	sourceRepositories, listingError := service.sourceLister.ListAccountRepositories(executionContext, options.AccountName)
	if listingError != nil {
		return SyncReport{}, fmt.Errorf(sourceListingErrorTemplateConstant, listingError)
	}

	pruneResults, pruneError := service.pruneOrphanedMirrors(executionContext, SourceRepositoryNames(sourceRepositories))
	if pruneError != nil {
		return SyncReport{}, pruneError
	}

	return SyncReport{PruneResults: pruneResults}, nil
}

func (service *Service) validateOptions(options SyncOptions) error {
	if len(strings.TrimSpace(options.AccountName)) == 0 {
		return InvalidInputError{FieldName: accountFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(options.DestinationOwner)) == 0 {
		return InvalidInputError{FieldName: destinationOwnerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

func (service *Service) pruneOrphanedMirrors(executionContext context.Context, sourceRepositoryNames map[string]struct{}) ([]PruneResult, error) {
	destinationRepositories, listingError := service.destinationClient.ListUserRepositories(executionContext)
	if listingError != nil {
		return nil, fmt.Errorf(destinationListingErrorTemplateConstant, listingError)
	}

	prunableRepositories := SelectPrunableMirrors(destinationRepositories, sourceRepositoryNames, service.sourceLister.HasToken())

	service.logger.Info(
		pruneSelectionMessageConstant,
		zap.Int(pruneCandidateCountLogFieldConstant, len(prunableRepositories)),
	)

	pruneResults := make([]PruneResult, 0, len(prunableRepositories))
	for _, prunableRepository := range prunableRepositories {
		ownerName, repositoryName := splitFullName(prunableRepository.FullName, prunableRepository.Name)

		deletionError := service.destinationClient.DeleteRepository(executionContext, ownerName, repositoryName)
		if deletionError != nil {
			service.eventSink.MirrorPruneFailed(prunableRepository.FullName, deletionError.Error())
			pruneResults = append(pruneResults, PruneResult{
				RepositoryFullName: prunableRepository.FullName,
				Deleted:            false,
				Detail:             deletionError.Error(),
			})
			continue
		}

		service.eventSink.MirrorPruned(prunableRepository.FullName)
		pruneResults = append(pruneResults, PruneResult{RepositoryFullName: prunableRepository.FullName, Deleted: true})
	}

	return pruneResults, nil
}

func (service *Service) migrateRepositories(executionContext context.Context, sourceRepositories []githubapi.Repository, options SyncOptions) []RepositoryOutcome {
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrencyConstant
	}

	repositoryOutcomes := make([]RepositoryOutcome, len(sourceRepositories))

	var workerGroup errgroup.Group
	workerGroup.SetLimit(concurrency)

	for repositoryIndex, sourceRepository := range sourceRepositories {
		workerGroup.Go(func() error {
			repositoryOutcomes[repositoryIndex] = service.migrateRepository(executionContext, sourceRepository, options)
			return nil
		})
	}

	// Workers report failures through their outcome slot, never through the
	// group error, so one repository cannot abort the others.
	_ = workerGroup.Wait()

	for _, repositoryOutcome := range repositoryOutcomes {
		service.logger.Debug(
			repositoryOutcomeMessageConstant,
			zap.String(repositoryLogFieldConstant, repositoryOutcome.RepositoryName),
			zap.String(outcomeLogFieldConstant, string(repositoryOutcome.Kind)),
			zap.String(detailLogFieldConstant, repositoryOutcome.Detail),
		)
	}

	return repositoryOutcomes
}

func (service *Service) migrateRepository(executionContext context.Context, sourceRepository githubapi.Repository, options SyncOptions) RepositoryOutcome {
	migrationRequest, planningError := BuildMigrationRequest(sourceRepository, options.DestinationOwner, options.Strategy, options.SourceToken)
	if planningError != nil {
		if errors.Is(planningError, ErrMissingSourceCredential) {
			service.eventSink.RepositorySkippedPrivate(sourceRepository.FullName)
			return RepositoryOutcome{
				RepositoryName: sourceRepository.Name,
				Kind:           RepositoryOutcomeSkippedPrivate,
				Detail:         planningError.Error(),
			}
		}

		service.eventSink.RepositoryMigrationFailed(sourceRepository.FullName, planningError.Error())
		return RepositoryOutcome{
			RepositoryName: sourceRepository.Name,
			Kind:           RepositoryOutcomeFailed,
			Detail:         planningError.Error(),
		}
	}

	migrationOutcome, migrationError := service.destinationClient.MigrateRepository(executionContext, migrationRequest)
	if migrationError != nil {
		failureDetail := fmt.Sprintf(migrationCallErrorTemplateConstant, migrationError)
		service.eventSink.RepositoryMigrationFailed(sourceRepository.FullName, failureDetail)
		return RepositoryOutcome{
			RepositoryName: sourceRepository.Name,
			Kind:           RepositoryOutcomeFailed,
			Detail:         failureDetail,
		}
	}

	switch migrationOutcome.Status {
	case giteaapi.MigrationStatusCreated:
		service.eventSink.RepositoryMigrated(sourceRepository.FullName)
		return RepositoryOutcome{RepositoryName: sourceRepository.Name, Kind: RepositoryOutcomeMigrated}
	case giteaapi.MigrationStatusAlreadyExists:
		service.eventSink.RepositoryAlreadyMirrored(sourceRepository.FullName)
		return RepositoryOutcome{
			RepositoryName: sourceRepository.Name,
			Kind:           RepositoryOutcomeAlreadyMirrored,
			Detail:         migrationOutcome.Message,
		}
	default:
		service.eventSink.RepositoryMigrationFailed(sourceRepository.FullName, migrationOutcome.Message)
		return RepositoryOutcome{
			RepositoryName: sourceRepository.Name,
			Kind:           RepositoryOutcomeFailed,
			Detail:         migrationOutcome.Message,
		}
	}
}

func splitFullName(fullName string, fallbackName string) (string, string) {
	separatorIndex := strings.Index(fullName, "/")
	if separatorIndex < 0 {
		return "", fallbackName
	}
	return fullName[:separatorIndex], fullName[separatorIndex+1:]
}
