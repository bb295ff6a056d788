// Package domain implements the HTTP client for the external test-management
// domain service. The subsystem never owns the entities it touches here.
package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/mo"

	"eztestbot/clients"
	"eztestbot/models"
)

// DomainHTTPClient implements the clients.DomainClient interface against the
// domain service's REST API
type DomainHTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

func NewDomainHTTPClient(httpClient *http.Client, baseURL, apiToken string) clients.DomainClient {
	return &DomainHTTPClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiToken:   apiToken,
	}
}

func (c *DomainHTTPClient) CreateTestCase(
	ctx context.Context,
	projectID, userID string,
	req clients.CreateTestCaseRequest,
) (*models.TestCase, error) {
	path := fmt.Sprintf("/api/projects/%s/testcases", url.PathEscape(projectID))

	var testCase models.TestCase
	if err := c.doJSON(ctx, http.MethodPost, path, userID, req, &testCase); err != nil {
		return nil, fmt.Errorf("failed to create test case: %w", err)
	}

	return &testCase, nil
}

func (c *DomainHTTPClient) ListTestCases(
	ctx context.Context,
	projectID, userID string,
	page, limit int,
) (*models.TestCasePage, error) {
	path := fmt.Sprintf("/api/projects/%s/testcases?page=%s&limit=%s",
		url.PathEscape(projectID),
		strconv.Itoa(page),
		strconv.Itoa(limit))

	var result models.TestCasePage
	if err := c.doJSON(ctx, http.MethodGet, path, userID, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}

	return &result, nil
}

func (c *DomainHTTPClient) GetTestCase(
	ctx context.Context,
	id, userID string,
) (mo.Option[*models.TestCase], error) {
	path := fmt.Sprintf("/api/testcases/%s", url.PathEscape(id))

	var testCase models.TestCase
	err := c.doJSON(ctx, http.MethodGet, path, userID, nil, &testCase)
	if err != nil {
		if isNotFound(err) {
			return mo.None[*models.TestCase](), nil
		}
		return mo.None[*models.TestCase](), fmt.Errorf("failed to get test case: %w", err)
	}

	return mo.Some(&testCase), nil
}

func (c *DomainHTTPClient) CreateDefect(
	ctx context.Context,
	projectID, userID string,
	req clients.CreateDefectRequest,
) (*models.Defect, error) {
	path := fmt.Sprintf("/api/projects/%s/defects", url.PathEscape(projectID))

	var defect models.Defect
	if err := c.doJSON(ctx, http.MethodPost, path, userID, req, &defect); err != nil {
		return nil, fmt.Errorf("failed to create defect: %w", err)
	}

	return &defect, nil
}

func (c *DomainHTTPClient) LinkDefectToTestCase(
	ctx context.Context,
	defectID, testCaseID, userID string,
) error {
	path := fmt.Sprintf("/api/defects/%s/links/testcases/%s",
		url.PathEscape(defectID),
		url.PathEscape(testCaseID))

	if err := c.doJSON(ctx, http.MethodPost, path, userID, nil, nil); err != nil {
		return fmt.Errorf("failed to link defect to test case: %w", err)
	}

	return nil
}

func (c *DomainHTTPClient) GetProject(
	ctx context.Context,
	projectID string,
) (mo.Option[*models.Project], error) {
	path := fmt.Sprintf("/api/projects/%s", url.PathEscape(projectID))

	var project models.Project
	err := c.doJSON(ctx, http.MethodGet, path, "", nil, &project)
	if err != nil {
		if isNotFound(err) {
			return mo.None[*models.Project](), nil
		}
		return mo.None[*models.Project](), fmt.Errorf("failed to get project: %w", err)
	}

	return mo.Some(&project), nil
}

func (c *DomainHTTPClient) GetUserByEmail(
	ctx context.Context,
	email string,
) (mo.Option[*models.User], error) {
	path := "/api/users/lookup?email=" + url.QueryEscape(email)

	var user models.User
	err := c.doJSON(ctx, http.MethodGet, path, "", nil, &user)
	if err != nil {
		if isNotFound(err) {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by email: %w", err)
	}

	return mo.Some(&user), nil
}

func (c *DomainHTTPClient) GetUserByPrincipalName(
	ctx context.Context,
	principalName string,
) (mo.Option[*models.User], error) {
	path := "/api/users/lookup?principal_name=" + url.QueryEscape(principalName)

	var user models.User
	err := c.doJSON(ctx, http.MethodGet, path, "", nil, &user)
	if err != nil {
		if isNotFound(err) {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by principal name: %w", err)
	}

	return mo.Some(&user), nil
}

func (c *DomainHTTPClient) GetProjectMember(
	ctx context.Context,
	projectID, userID string,
) (mo.Option[*models.ProjectMember], error) {
	path := fmt.Sprintf("/api/projects/%s/members/%s",
		url.PathEscape(projectID),
		url.PathEscape(userID))

	var member models.ProjectMember
	err := c.doJSON(ctx, http.MethodGet, path, "", nil, &member)
	if err != nil {
		if isNotFound(err) {
			return mo.None[*models.ProjectMember](), nil
		}
		return mo.None[*models.ProjectMember](), fmt.Errorf("failed to get project member: %w", err)
	}

	return mo.Some(&member), nil
}

// statusError carries the upstream HTTP status so callers can map 404 to an
// absent option instead of a hard failure
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("domain API returned status %d: %s", e.status, e.body)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

// doJSON executes one request against the domain API. actingUserID, when set,
// is forwarded so the domain service enforces its own per-user rules too.
func (c *DomainHTTPClient) doJSON(
	ctx context.Context,
	method, path, actingUserID string,
	payload any,
	out any,
) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if actingUserID != "" {
		req.Header.Set("X-Acting-User", actingUserID)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
