// Package chat implements the command dispatcher: the entry point for every
// inbound chat turn. Each turn is a one-shot, fail-fast pipeline; state only
// carries across turns through the message cache.
package chat

import (
	"fmt"

	"eztestbot/clients"
	"eztestbot/models"
	"eztestbot/services"
)

// shortIDScanLimit bounds the single-page scan used to resolve a short ID to
// its internal identifier
const shortIDScanLimit = 100

// listPageSize is the number of rows per page in list replies
const listPageSize = 10

// ChatUseCase orchestrates classification, binding/identity resolution,
// authorization, parsing, and the external domain calls for one chat turn
type ChatUseCase struct {
	botName         string
	messageCache    services.MessageCacheService
	bindingsService services.ChannelBindingsService
	identityService services.IdentityService
	domainClient    clients.DomainClient
	messengers      map[models.ChatPlatform]clients.ChatMessenger
}

func NewChatUseCase(
	botName string,
	messageCache services.MessageCacheService,
	bindingsService services.ChannelBindingsService,
	identityService services.IdentityService,
	domainClient clients.DomainClient,
) *ChatUseCase {
	return &ChatUseCase{
		botName:         botName,
		messageCache:    messageCache,
		bindingsService: bindingsService,
		identityService: identityService,
		domainClient:    domainClient,
		messengers:      make(map[models.ChatPlatform]clients.ChatMessenger),
	}
}

// RegisterMessenger attaches the reply sender for one platform. Connectors
// register themselves during startup, before events flow.
func (u *ChatUseCase) RegisterMessenger(platform models.ChatPlatform, messenger clients.ChatMessenger) {
	u.messengers[platform] = messenger
}

func (u *ChatUseCase) messengerFor(platform models.ChatPlatform) (clients.ChatMessenger, error) {
	messenger, ok := u.messengers[platform]
	if !ok {
		return nil, fmt.Errorf("no messenger registered for platform: %s", platform)
	}
	return messenger, nil
}
