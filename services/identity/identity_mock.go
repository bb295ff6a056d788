package identity

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"eztestbot/models"
)

type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) ResolveIdentity(
	ctx context.Context,
	identity models.ExternalIdentity,
) (mo.Option[*models.User], error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return mo.None[*models.User](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockIdentityService) HasProjectAccess(
	ctx context.Context,
	userID, projectID, permission string,
) (bool, error) {
	args := m.Called(ctx, userID, projectID, permission)
	return args.Bool(0), args.Error(1)
}
