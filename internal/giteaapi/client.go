package giteaapi

import (
	"bytes"
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
	apiPathPrefixConstant                 = "/api/v1"
	userRepositoriesPathConstant          = apiPathPrefixConstant + "/user/repos"
	repositoryPathTemplateConstant        = apiPathPrefixConstant + "/repos/%s/%s"
	migrationPathConstant                 = apiPathPrefixConstant + "/repos/migrate"
	listPageQueryTemplateConstant         = "page=%d&limit=%d"
	defaultListPageSizeConstant           = 50
	defaultRequestTimeoutConstant         = time.Minute
	circuitBreakerNameConstant            = "gitea-api"
	circuitBreakerMaxRequestsConstant     = 5
	circuitBreakerIntervalConstant        = 3 * time.Second
	circuitBreakerTimeoutConstant         = 20 * time.Second
	circuitBreakerFailureTripConstant     = 5
	authorizationHeaderNameConstant       = "Authorization"
	authorizationHeaderTemplateConstant   = "token %s"
	contentTypeHeaderNameConstant         = "Content-Type"
	jsonContentTypeConstant               = "application/json"
	missingBaseURLMessageConstant         = "Gitea base URL is required"
	missingTokenMessageConstant           = "Gitea access token is required"
	invalidBaseURLErrorTemplateConstant   = "invalid Gitea base URL: %w"
	requestCreationErrorTemplateConstant  = "unable to create Gitea request: %w"
	requestExecutionErrorTemplateConstant = "Gitea request failed: %w"
	listStatusErrorTemplateConstant       = "repository listing returned status %d: %s"
	listDecodeErrorTemplateConstant       = "unable to decode repository listing: %w"
	deleteStatusErrorTemplateConstant     = "repository deletion returned status %d: %s"
	migrationEncodeErrorTemplateConstant  = "unable to encode migration request: %w"
	alreadyExistsMessageFragmentConstant  = "already exists"
)

var (
	errMissingBaseURL = errors.New(missingBaseURLMessageConstant)
	errMissingToken   = errors.New(missingTokenMessageConstant)
)

// ClientOptions configures the Gitea API client.
type ClientOptions struct {
	BaseURL      string
	Token        string
	HTTPClient   *http.Client
	Logger       *zap.Logger
	ListPageSize int
}

// Client drives repository operations against a Gitea instance.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	baseURL        string
	token          string
	logger         *zap.Logger
	listPageSize   int
}

// NewClient constructs a Gitea API client for the provided instance and token.
func NewClient(options ClientOptions) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(options.BaseURL), "/")
	if len(baseURL) == 0 {
		return nil, errMissingBaseURL
	}

	if _, parseError := url.Parse(baseURL); parseError != nil {
		return nil, fmt.Errorf(invalidBaseURLErrorTemplateConstant, parseError)
	}

	token := strings.TrimSpace(options.Token)
	if len(token) == 0 {
		return nil, errMissingToken
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeoutConstant}
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	listPageSize := options.ListPageSize
	if listPageSize <= 0 {
		listPageSize = defaultListPageSizeConstant
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
		token:          token,
		logger:         logger,
		listPageSize:   listPageSize,
	}

	return client, nil
}

// ListUserRepositories collects every repository of the authenticated user.
//
// The listing paginates until a page shorter than the requested size arrives,
// so reconciliation observes accounts larger than a single page.
func (client *Client) ListUserRepositories(executionContext context.Context) ([]Repository, error) {
	collectedRepositories := make([]Repository, 0, client.listPageSize)
	for pageNumber := 1; ; pageNumber++ {
		pageQuery := fmt.Sprintf(listPageQueryTemplateConstant, pageNumber, client.listPageSize)
		requestURL := fmt.Sprintf("%s%s?%s", client.baseURL, userRepositoriesPathConstant, pageQuery)

		responseBody, _, requestError := client.executeRequest(executionContext, http.MethodGet, requestURL, nil, http.StatusOK, listStatusErrorTemplateConstant)
		if requestError != nil {
			return nil, requestError
		}

		var pageRepositories []Repository
		if decodeError := json.Unmarshal(responseBody, &pageRepositories); decodeError != nil {
			return nil, fmt.Errorf(listDecodeErrorTemplateConstant, decodeError)
		}

		collectedRepositories = append(collectedRepositories, pageRepositories...)

		if len(pageRepositories) < client.listPageSize {
			break
		}
	}

	return collectedRepositories, nil
}

// DeleteRepository removes the repository identified by owner and name.
func (client *Client) DeleteRepository(executionContext context.Context, ownerName string, repositoryName string) error {
	requestURL := fmt.Sprintf("%s"+repositoryPathTemplateConstant, client.baseURL, url.PathEscape(ownerName), url.PathEscape(repositoryName))

	_, _, requestError := client.executeRequest(executionContext, http.MethodDelete, requestURL, nil, http.StatusNoContent, deleteStatusErrorTemplateConstant)
	return requestError
}

// MigrateRepository submits a migration request and classifies the response.
//
// Classification prefers the HTTP status code: a 2xx response is a created
// repository and 409 Conflict signals the repository already exists. The
// message-substring match below is a compatibility shim for Gitea versions
// that report the conflict through the message body instead of the status.
func (client *Client) MigrateRepository(executionContext context.Context, migrationRequest MigrationRequest) (MigrationOutcome, error) {
	encodedRequest, encodeError := json.Marshal(migrationRequest)
	if encodeError != nil {
		return MigrationOutcome{}, fmt.Errorf(migrationEncodeErrorTemplateConstant, encodeError)
	}

	requestURL := client.baseURL + migrationPathConstant

	responseBody, statusCode, requestError := client.executeRawRequest(executionContext, http.MethodPost, requestURL, encodedRequest)
	if requestError != nil {
		return MigrationOutcome{}, requestError
	}

	return classifyMigrationResponse(statusCode, responseBody), nil
}

func classifyMigrationResponse(statusCode int, responseBody []byte) MigrationOutcome {
	serverMessage := decodeServerMessage(responseBody)

	switch {
	case statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices:
		return MigrationOutcome{Status: MigrationStatusCreated}
	case statusCode == http.StatusConflict:
		return MigrationOutcome{Status: MigrationStatusAlreadyExists, Message: serverMessage}
	case strings.Contains(strings.ToLower(serverMessage), alreadyExistsMessageFragmentConstant):
		return MigrationOutcome{Status: MigrationStatusAlreadyExists, Message: serverMessage}
	default:
		return MigrationOutcome{Status: MigrationStatusFailed, Message: serverMessage}
	}
}

func decodeServerMessage(responseBody []byte) string {
	if len(responseBody) == 0 {
		return ""
	}

	var messagePayload struct {
		Message string `json:"message"`
	}
	if decodeError := json.Unmarshal(responseBody, &messagePayload); decodeError != nil {
		return strings.TrimSpace(string(responseBody))
	}

	return strings.TrimSpace(messagePayload.Message)
}

func (client *Client) executeRequest(executionContext context.Context, method string, requestURL string, requestBody []byte, expectedStatus int, statusErrorTemplate string) ([]byte, int, error) {
	responseBody, statusCode, requestError := client.executeRawRequest(executionContext, method, requestURL, requestBody)
	if requestError != nil {
		return nil, 0, requestError
	}

	if statusCode != expectedStatus {
		return nil, statusCode, fmt.Errorf(statusErrorTemplate, statusCode, strings.TrimSpace(string(responseBody)))
	}

	return responseBody, statusCode, nil
}

func (client *Client) executeRawRequest(executionContext context.Context, method string, requestURL string, requestBody []byte) ([]byte, int, error) {
	type rawResponse struct {
		body       []byte
		statusCode int
	}

	breakerResult, executionError := client.circuitBreaker.Execute(func() (any, error) {
		var bodyReader io.Reader
		if len(requestBody) > 0 {
			bodyReader = bytes.NewReader(requestBody)
		}

		request, requestError := http.NewRequestWithContext(executionContext, method, requestURL, bodyReader)
		if requestError != nil {
			return nil, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
		}

		request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, client.token))
		if len(requestBody) > 0 {
			request.Header.Set(contentTypeHeaderNameConstant, jsonContentTypeConstant)
		}

		response, responseError := client.httpClient.Do(request)
		if responseError != nil {
			return nil, fmt.Errorf(requestExecutionErrorTemplateConstant, responseError)
		}
		defer response.Body.Close()

		responseBody, readError := io.ReadAll(response.Body)
		if readError != nil {
			return nil, fmt.Errorf(requestExecutionErrorTemplateConstant, readError)
		}

		return rawResponse{body: responseBody, statusCode: response.StatusCode}, nil
	})
	if executionError != nil {
		return nil, 0, executionError
	}

	response, conversionValid := breakerResult.(rawResponse)
	if !conversionValid {
		return nil, 0, errors.New("unexpected Gitea response payload type")
	}

	return response.body, response.statusCode, nil
}
