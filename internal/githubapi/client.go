package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultAPIBaseURLConstant               = "https://api.github.com"
	defaultPageSizeConstant                 = 100
	defaultRequestTimeoutConstant           = time.Minute
	circuitBreakerNameConstant              = "github-api"
	circuitBreakerMaxRequestsConstant       = 5
	circuitBreakerIntervalConstant          = 3 * time.Second
	circuitBreakerTimeoutConstant           = 20 * time.Second
	circuitBreakerFailureTripConstant       = 5
	authenticatedRepositoriesPathConstant   = "/user/repos"
	accountRepositoriesPathTemplateConstant = "/users/%s/repos"
	pageQueryTemplateConstant               = "per_page=%d&page=%d"
	authorizationHeaderNameConstant         = "Authorization"
	authorizationHeaderTemplateConstant     = "token %s"
	acceptHeaderNameConstant                = "Accept"
	acceptHeaderValueConstant               = "application/vnd.github+json"
	requestCreationErrorTemplateConstant    = "unable to create repository listing request: %w"
	requestExecutionErrorTemplateConstant   = "repository listing request failed: %w"
	unexpectedStatusErrorTemplateConstant   = "repository listing returned status %d: %s"
	responseDecodeErrorTemplateConstant     = "unable to decode repository listing: %w"
	missingAccountMessageConstant           = "account name is required"
	pageFetchedMessageConstant              = "fetched repository page"
	pageNumberFieldConstant                 = "page"
	rawRecordCountFieldConstant             = "raw_records"
	ownedRecordCountFieldConstant           = "owned_records"
)

var errMissingAccount = errors.New(missingAccountMessageConstant)

// ClientOptions configures the GitHub API client.
type ClientOptions struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
	PageSize   int
}

// Client lists repositories through the GitHub REST API.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	baseURL        string
	token          string
	logger         *zap.Logger
	pageSize       int
}

// NewClient constructs a GitHub API client with sane HTTP defaults and a circuit breaker.
func NewClient(options ClientOptions) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(options.BaseURL), "/")
	if len(baseURL) == 0 {
		baseURL = defaultAPIBaseURLConstant
	}

	if _, parseError := url.Parse(baseURL); parseError != nil {
		return nil, fmt.Errorf("invalid GitHub API base URL: %w", parseError)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeoutConstant}
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSizeConstant
	}

	circuitBreakerSettings := gobreaker.Settings{
		Name:        circuitBreakerNameConstant,
		MaxRequests: circuitBreakerMaxRequestsConstant,
		Interval:    circuitBreakerIntervalConstant,
		Timeout:     circuitBreakerTimeoutConstant,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= circuitBreakerFailureTripConstant
		},
	}

	client := &Client{
		httpClient:     httpClient,
		circuitBreaker: gobreaker.NewCircuitBreaker(circuitBreakerSettings),
		baseURL:        baseURL,
		token:          strings.TrimSpace(options.Token),
		logger:         logger,
		pageSize:       pageSize,
	}

	return client, nil
}

// HasToken reports whether the client carries a personal access token.
func (client *Client) HasToken() bool {
	return len(client.token) > 0
}

// ListAccountRepositories collects every repository owned by the requested account.
//
// Pagination requests a fixed page size with a one-based page counter. When a
// token is configured the authenticated listing endpoint is used so private
// repositories are included; each page is filtered to records whose owner login
// matches the requested account exactly, defending against the authenticated
// endpoint returning organization repositories visible to the token holder.
// Listing stops when a page yields zero owned records or the raw page is
// shorter than the requested page size.
func (client *Client) ListAccountRepositories(executionContext context.Context, accountName string) ([]Repository, error) {
	trimmedAccountName := strings.TrimSpace(accountName)
	if len(trimmedAccountName) == 0 {
		return nil, errMissingAccount
	}

	collectedRepositories := make([]Repository, 0, client.pageSize)
	for pageNumber := 1; ; pageNumber++ {
		pageRepositories, fetchError := client.fetchRepositoryPage(executionContext, trimmedAccountName, pageNumber)
		if fetchError != nil {
			return nil, fetchError
		}

		ownedRepositories := filterOwnedRepositories(pageRepositories, trimmedAccountName)

		client.logger.Debug(
			pageFetchedMessageConstant,
			zap.Int(pageNumberFieldConstant, pageNumber),
			zap.Int(rawRecordCountFieldConstant, len(pageRepositories)),
			zap.Int(ownedRecordCountFieldConstant, len(ownedRepositories)),
		)

		if len(ownedRepositories) == 0 {
			break
		}

		collectedRepositories = append(collectedRepositories, ownedRepositories...)

		if len(pageRepositories) < client.pageSize {
			break
		}
	}

	return collectedRepositories, nil
}

func (client *Client) fetchRepositoryPage(executionContext context.Context, accountName string, pageNumber int) ([]Repository, error) {
	requestURL := client.repositoryPageURL(accountName, pageNumber)

	breakerResult, executionError := client.circuitBreaker.Execute(func() (any, error) {
		request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, requestURL, nil)
		if requestError != nil {
			return nil, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
		}

		request.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)
		if client.HasToken() {
			request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, client.token))
		}

		response, responseError := client.httpClient.Do(request)
		if responseError != nil {
			return nil, fmt.Errorf(requestExecutionErrorTemplateConstant, responseError)
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			responseBody, _ := io.ReadAll(response.Body)
			return nil, fmt.Errorf(unexpectedStatusErrorTemplateConstant, response.StatusCode, strings.TrimSpace(string(responseBody)))
		}

		var pageRepositories []Repository
		if decodeError := json.NewDecoder(response.Body).Decode(&pageRepositories); decodeError != nil {
			return nil, fmt.Errorf(responseDecodeErrorTemplateConstant, decodeError)
		}

		return pageRepositories, nil
	})
	if executionError != nil {
		return nil, executionError
	}

	pageRepositories, conversionValid := breakerResult.([]Repository)
	if !conversionValid {
		return nil, errors.New("unexpected repository page payload type")
	}

	return pageRepositories, nil
}

func (client *Client) repositoryPageURL(accountName string, pageNumber int) string {
	listingPath := authenticatedRepositoriesPathConstant
	if !client.HasToken() {
		listingPath = fmt.Sprintf(accountRepositoriesPathTemplateConstant, url.PathEscape(accountName))
	}

	pageQuery := fmt.Sprintf(pageQueryTemplateConstant, client.pageSize, pageNumber)
	return fmt.Sprintf("%s%s?%s", client.baseURL, listingPath, pageQuery)
}

func filterOwnedRepositories(pageRepositories []Repository, accountName string) []Repository {
	ownedRepositories := make([]Repository, 0, len(pageRepositories))
	for _, repository := range pageRepositories {
		if repository.Owner.Login != accountName {
			continue
		}
		ownedRepositories = append(ownedRepositories, repository)
	}
	return ownedRepositories
}
