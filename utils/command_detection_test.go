package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCommand(t *testing.T) {
	t.Run("detects bot name trigger with @", func(t *testing.T) {
		result := DetectCommand("@EZTest create testcase", "EZTest")
		assert.True(t, result.IsCommand)
		assert.Equal(t, "create testcase", result.CommandText)
	})

	t.Run("trigger is case-insensitive", func(t *testing.T) {
		result := DetectCommand("@eztest HELP", "EZTest")
		assert.True(t, result.IsCommand)
		assert.Equal(t, "HELP", result.CommandText)
	})

	t.Run("detects trigger without @", func(t *testing.T) {
		result := DetectCommand("EZTest list testcases", "EZTest")
		assert.True(t, result.IsCommand)
		assert.Equal(t, "list testcases", result.CommandText)
	})

	t.Run("detects trigger wrapped in Teams at tags", func(t *testing.T) {
		result := DetectCommand("<at>EZTest</at> show testcase TC-101", "EZTest")
		assert.True(t, result.IsCommand)
		assert.Equal(t, "show testcase TC-101", result.CommandText)
	})

	t.Run("plain message is not a command", func(t *testing.T) {
		result := DetectCommand("Verify login with valid credentials", "EZTest")
		assert.False(t, result.IsCommand)
		assert.Empty(t, result.CommandText)
	})

	t.Run("bot name in the middle of text is not a trigger", func(t *testing.T) {
		result := DetectCommand("ask EZTest about it", "EZTest")
		assert.False(t, result.IsCommand)
	})

	t.Run("trigger must match the whole word", func(t *testing.T) {
		result := DetectCommand("@EZTesting something", "EZTest")
		assert.False(t, result.IsCommand)
	})
}

func TestStripMentions(t *testing.T) {
	t.Run("strips Slack mentions", func(t *testing.T) {
		assert.Equal(t, "hello", StripMentions("<@U12345> hello"))
		assert.Equal(t, "hello", StripMentions("<@U12345|bot> hello"))
	})

	t.Run("strips Discord mentions", func(t *testing.T) {
		assert.Equal(t, "hello", StripMentions("<@123456789> hello"))
		assert.Equal(t, "hello", StripMentions("<@!123456789> hello"))
	})

	t.Run("unwraps Teams at tags keeping the name", func(t *testing.T) {
		assert.Equal(t, "EZTest help", StripMentions("<at>EZTest</at> help"))
	})
}

func TestIsValidShortID(t *testing.T) {
	assert.True(t, IsValidShortID("TC-101"))
	assert.True(t, IsValidShortID("DEF-7"))
	assert.False(t, IsValidShortID("TC101"))
	assert.False(t, IsValidShortID("101-TC"))
	assert.False(t, IsValidShortID("TC-"))
	assert.False(t, IsValidShortID(""))
}

func TestFindShortIDs(t *testing.T) {
	ids := FindShortIDs("relates to TC-101 and TC-205, not ABC")
	assert.Equal(t, []string{"TC-101", "TC-205"}, ids)
}
