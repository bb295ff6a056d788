package messagecache

import (
	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"eztestbot/models"
)

type MockMessageCacheService struct {
	mock.Mock
}

func (m *MockMessageCacheService) Store(channelID, userID, text, messageID string) {
	m.Called(channelID, userID, text, messageID)
}

func (m *MockMessageCacheService) Fetch(channelID, userID string) mo.Option[models.CachedMessage] {
	args := m.Called(channelID, userID)
	if args.Get(0) == nil {
		return mo.None[models.CachedMessage]()
	}
	return args.Get(0).(mo.Option[models.CachedMessage])
}

func (m *MockMessageCacheService) Evict(channelID, userID string) {
	m.Called(channelID, userID)
}
