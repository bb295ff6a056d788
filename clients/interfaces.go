package clients

import (
	"context"

	"github.com/samber/mo"

	"eztestbot/models"
)

// ChatMessenger sends plain text replies back to the originating channel.
// Each connector registers its own implementation keyed by platform.
type ChatMessenger interface {
	PostMessage(ctx context.Context, channelID, text string) error
}

// DomainClient is the typed client for the external test-management domain
// service. All referenced business entities are owned there; this subsystem
// only consumes the API.
type DomainClient interface {
	CreateTestCase(ctx context.Context, projectID, userID string, req CreateTestCaseRequest) (*models.TestCase, error)
	ListTestCases(ctx context.Context, projectID, userID string, page, limit int) (*models.TestCasePage, error)
	GetTestCase(ctx context.Context, id, userID string) (mo.Option[*models.TestCase], error)
	CreateDefect(ctx context.Context, projectID, userID string, req CreateDefectRequest) (*models.Defect, error)
	LinkDefectToTestCase(ctx context.Context, defectID, testCaseID, userID string) error

	GetProject(ctx context.Context, projectID string) (mo.Option[*models.Project], error)
	GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error)
	GetUserByPrincipalName(ctx context.Context, principalName string) (mo.Option[*models.User], error)
	GetProjectMember(ctx context.Context, projectID, userID string) (mo.Option[*models.ProjectMember], error)
}
