package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"eztestbot/models"
)

// SlackClient wraps the slack-go SDK behind the messenger and identity
// lookups the dispatcher needs
type SlackClient struct {
	*slack.Client
}

func NewSlackClient(authToken string) *SlackClient {
	return &SlackClient{
		Client: slack.New(authToken),
	}
}

// PostMessage sends a plain text reply to the originating channel
func (c *SlackClient) PostMessage(ctx context.Context, channelID, text string) error {
	_, _, err := c.Client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post Slack message: %w", err)
	}
	return nil
}

// GetExternalIdentity builds the platform-neutral identity for a Slack user.
// Slack has no principal name, so the email doubles as one.
func (c *SlackClient) GetExternalIdentity(ctx context.Context, userID string) (models.ExternalIdentity, error) {
	user, err := c.Client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("failed to get Slack user info: %w", err)
	}

	return models.ExternalIdentity{
		ObjectID:      user.ID,
		Email:         user.Profile.Email,
		PrincipalName: user.Profile.Email,
		DisplayName:   user.Profile.DisplayName,
	}, nil
}

// AuthTest verifies the bot token and returns the bot's own user ID, used to
// recognize mention entities in inbound events
func (c *SlackClient) AuthTest() (string, error) {
	response, err := c.Client.AuthTest()
	if err != nil {
		return "", fmt.Errorf("failed to verify Slack bot token: %w", err)
	}
	return response.UserID, nil
}
