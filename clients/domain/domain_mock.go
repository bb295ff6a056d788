package domain

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"eztestbot/clients"
	"eztestbot/models"
)

type MockDomainClient struct {
	mock.Mock
}

func (m *MockDomainClient) CreateTestCase(
	ctx context.Context,
	projectID, userID string,
	req clients.CreateTestCaseRequest,
) (*models.TestCase, error) {
	args := m.Called(ctx, projectID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestCase), args.Error(1)
}

func (m *MockDomainClient) ListTestCases(
	ctx context.Context,
	projectID, userID string,
	page, limit int,
) (*models.TestCasePage, error) {
	args := m.Called(ctx, projectID, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestCasePage), args.Error(1)
}

func (m *MockDomainClient) GetTestCase(
	ctx context.Context,
	id, userID string,
) (mo.Option[*models.TestCase], error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return mo.None[*models.TestCase](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.TestCase]), args.Error(1)
}

func (m *MockDomainClient) CreateDefect(
	ctx context.Context,
	projectID, userID string,
	req clients.CreateDefectRequest,
) (*models.Defect, error) {
	args := m.Called(ctx, projectID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Defect), args.Error(1)
}

func (m *MockDomainClient) LinkDefectToTestCase(
	ctx context.Context,
	defectID, testCaseID, userID string,
) error {
	args := m.Called(ctx, defectID, testCaseID, userID)
	return args.Error(0)
}

func (m *MockDomainClient) GetProject(
	ctx context.Context,
	projectID string,
) (mo.Option[*models.Project], error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return mo.None[*models.Project](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Project]), args.Error(1)
}

func (m *MockDomainClient) GetUserByEmail(
	ctx context.Context,
	email string,
) (mo.Option[*models.User], error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return mo.None[*models.User](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockDomainClient) GetUserByPrincipalName(
	ctx context.Context,
	principalName string,
) (mo.Option[*models.User], error) {
	args := m.Called(ctx, principalName)
	if args.Get(0) == nil {
		return mo.None[*models.User](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockDomainClient) GetProjectMember(
	ctx context.Context,
	projectID, userID string,
) (mo.Option[*models.ProjectMember], error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return mo.None[*models.ProjectMember](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.ProjectMember]), args.Error(1)
}
