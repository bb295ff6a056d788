package clients

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockChatMessenger struct {
	mock.Mock
}

func (m *MockChatMessenger) PostMessage(ctx context.Context, channelID, text string) error {
	args := m.Called(ctx, channelID, text)
	return args.Error(0)
}
