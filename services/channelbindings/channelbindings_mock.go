package channelbindings

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"eztestbot/models"
)

type MockChannelBindingsService struct {
	mock.Mock
}

func (m *MockChannelBindingsService) ResolveBinding(
	ctx context.Context,
	channelID string,
) (mo.Option[*models.ChannelBinding], error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return mo.None[*models.ChannelBinding](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.ChannelBinding]), args.Error(1)
}

func (m *MockChannelBindingsService) BindChannel(
	ctx context.Context,
	channelID, teamID, projectID, actorUserID string,
) (*models.ChannelBinding, error) {
	args := m.Called(ctx, channelID, teamID, projectID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelBinding), args.Error(1)
}

func (m *MockChannelBindingsService) UnbindChannel(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockChannelBindingsService) ListBindings(ctx context.Context) ([]*models.ChannelBinding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChannelBinding), args.Error(1)
}
