package services

import (
	"context"

	"github.com/samber/mo"

	"eztestbot/models"
)

// MessageCacheService defines the ephemeral per-(channel,user) store of the
// most recent non-command message. Storage is process-local and best-effort;
// a miss is an expected outcome, not an error.
type MessageCacheService interface {
	Store(channelID, userID, text, messageID string)
	Fetch(channelID, userID string) mo.Option[models.CachedMessage]
	Evict(channelID, userID string)
}

// ChannelBindingsService defines the durable channel-to-project binding
// registry operations
type ChannelBindingsService interface {
	ResolveBinding(ctx context.Context, channelID string) (mo.Option[*models.ChannelBinding], error)
	// BindChannel validates the project exists before writing; re-binding an
	// already-bound channel replaces its project. Returns an error wrapping
	// core.ErrNotFound when the project does not exist.
	BindChannel(ctx context.Context, channelID, teamID, projectID, actorUserID string) (*models.ChannelBinding, error)
	// UnbindChannel returns an error wrapping core.ErrNotFound when the
	// channel was not bound.
	UnbindChannel(ctx context.Context, channelID string) error
	ListBindings(ctx context.Context) ([]*models.ChannelBinding, error)
}

// IdentityService maps external chat identities onto internal accounts and
// answers project membership/permission questions
type IdentityService interface {
	ResolveIdentity(ctx context.Context, identity models.ExternalIdentity) (mo.Option[*models.User], error)
	HasProjectAccess(ctx context.Context, userID, projectID, permission string) (bool, error)
}
