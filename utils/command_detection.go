package utils

import (
	"regexp"
	"strings"
)

// CommandDetectionResult represents the result of command detection
type CommandDetectionResult struct {
	IsCommand   bool
	CommandText string
}

// DetectCommand checks if a message text addresses the bot by name and, if so,
// returns the remainder of the message with mentions stripped. The bot-name
// trigger is case-insensitive and may appear with or without a leading @.
func DetectCommand(messageText, botName string) CommandDetectionResult {
	strippedText := StripMentions(messageText)
	strippedText = strings.TrimSpace(strippedText)

	triggerRegex := regexp.MustCompile(`(?i)^@?` + regexp.QuoteMeta(botName) + `\b`)
	if !triggerRegex.MatchString(strippedText) {
		return CommandDetectionResult{
			IsCommand:   false,
			CommandText: "",
		}
	}

	remainder := triggerRegex.ReplaceAllString(strippedText, "")
	return CommandDetectionResult{
		IsCommand:   true,
		CommandText: strings.TrimSpace(remainder),
	}
}

// StripMentions removes Slack, Discord and Teams-style mentions from message text
func StripMentions(text string) string {
	// Remove Slack mentions: <@USER_ID> or <@USER_ID|username>
	slackMentionRegex := regexp.MustCompile(`<@[^>|]+(?:\|[^>]+)?>`)
	text = slackMentionRegex.ReplaceAllString(text, "")

	// Remove Discord mentions: <@USER_ID> or <@!USER_ID>
	discordMentionRegex := regexp.MustCompile(`<@!?[0-9]+>`)
	text = discordMentionRegex.ReplaceAllString(text, "")

	// Remove Teams-style <at>...</at> mention wrappers but keep the name inside,
	// so the bot-name trigger survives stripping
	teamsMentionRegex := regexp.MustCompile(`</?at>`)
	text = teamsMentionRegex.ReplaceAllString(text, "")

	text = strings.TrimSpace(text)

	return text
}
