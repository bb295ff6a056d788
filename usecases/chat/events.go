package chat

import (
	"context"
	"fmt"
	"log"

	"eztestbot/models"
	"eztestbot/utils"
)

// ProcessMessageEvent handles one inbound chat turn end to end: classify,
// resolve binding, resolve identity, authorize, (for context-consuming
// commands) fetch and parse the cached message, call the domain service,
// and reply. The first failing step ends the turn with its own outcome.
func (u *ChatUseCase) ProcessMessageEvent(
	ctx context.Context,
	event models.MessageEvent,
) (models.DispatchResult, error) {
	log.Printf("📋 Starting to process %s message event from %s in channel %s",
		event.Platform, event.Sender.ObjectID, event.ChannelID)

	detection := utils.DetectCommand(event.Text, u.botName)
	if !detection.IsCommand && event.BotMentioned {
		// the platform flagged an explicit mention entity the textual trigger
		// check cannot see
		detection = utils.CommandDetectionResult{
			IsCommand:   true,
			CommandText: utils.StripMentions(event.Text),
		}
	}

	if !detection.IsCommand {
		u.messageCache.Store(event.ChannelID, event.Sender.ObjectID, event.Text, event.MessageID)
		log.Printf("📋 Completed successfully - cached non-command message from %s", event.Sender.ObjectID)
		return models.DispatchResult{Outcome: models.OutcomeNotACommand}, nil
	}

	cmd := ClassifyCommand(detection.CommandText)
	log.Printf("📋 Classified command as %s: %q", cmd.Type, cmd.Raw)

	result, err := u.runCommand(ctx, event, cmd)
	if err != nil {
		// internal detail is logged, never surfaced to the chat
		log.Printf("❌ Command %s failed in channel %s for %s: %v", cmd.Type, event.ChannelID, event.Sender.ObjectID, err)
		result = models.DispatchResult{
			Outcome: models.OutcomeDomainCallFailed,
			Reply:   u.replyDomainCallFailed(),
		}
	}

	if result.Reply != "" {
		messenger, merr := u.messengerFor(event.Platform)
		if merr != nil {
			return result, merr
		}
		if perr := messenger.PostMessage(ctx, event.ChannelID, result.Reply); perr != nil {
			return result, fmt.Errorf("failed to send reply: %w", perr)
		}
	}

	if err == nil {
		log.Printf("📋 Completed successfully - command %s ended with outcome %s", cmd.Type, result.Outcome)
	}
	return result, err
}

// runCommand walks the fail-fast authorization pipeline and dispatches on the
// command variant. Returned errors are infrastructure failures; expected
// refusals come back as outcomes.
func (u *ChatUseCase) runCommand(
	ctx context.Context,
	event models.MessageEvent,
	cmd models.Command,
) (models.DispatchResult, error) {
	switch cmd.Type {
	case models.CommandUnrecognized:
		// the only command with a fixed reply that skips the pipeline
		return models.DispatchResult{Outcome: models.OutcomeSuccess, Reply: u.replyUnrecognized()}, nil
	case models.CommandConfigure:
		// configure creates the binding, so binding resolution is skipped
		return u.handleConfigure(ctx, event, cmd)
	}

	maybeBinding, err := u.bindingsService.ResolveBinding(ctx, event.ChannelID)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to resolve channel binding: %w", err)
	}
	if !maybeBinding.IsPresent() {
		log.Printf("⚠️ Channel %s has no project binding", event.ChannelID)
		return models.DispatchResult{
			Outcome: models.OutcomeUnconfiguredChannel,
			Reply:   u.replyUnconfiguredChannel(),
		}, nil
	}
	binding := maybeBinding.MustGet()

	maybeUser, err := u.identityService.ResolveIdentity(ctx, event.Sender)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to resolve identity: %w", err)
	}
	if !maybeUser.IsPresent() {
		log.Printf("⚠️ No internal account for chat identity %s", event.Sender.ObjectID)
		return models.DispatchResult{
			Outcome: models.OutcomeIdentityUnresolved,
			Reply:   u.replyIdentityUnresolved(),
		}, nil
	}
	user := maybeUser.MustGet()

	allowed, err := u.identityService.HasProjectAccess(ctx, user.ID, binding.ProjectID, cmd.RequiredPermission())
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to check project access: %w", err)
	}
	if !allowed {
		log.Printf("⚠️ User %s denied %q on project %s", user.ID, cmd.RequiredPermission(), binding.ProjectID)
		return models.DispatchResult{
			Outcome: models.OutcomeUnauthorized,
			Reply:   u.replyUnauthorized(),
		}, nil
	}

	switch cmd.Type {
	case models.CommandHelp:
		// membership was already checked; help needs no further permission
		return models.DispatchResult{Outcome: models.OutcomeSuccess, Reply: u.replyHelp()}, nil
	case models.CommandCreateTestCase:
		return u.handleCreateTestCase(ctx, event, binding, user)
	case models.CommandCreateDefect:
		return u.handleCreateDefect(ctx, event, binding, user)
	case models.CommandListTestCases:
		return u.handleListTestCases(ctx, cmd, binding, user)
	case models.CommandShowTestCase:
		return u.handleShowTestCase(ctx, cmd, binding, user)
	default:
		return models.DispatchResult{}, fmt.Errorf("unhandled command type: %s", cmd.Type)
	}
}
