package chat_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eztestbot/clients"
	"eztestbot/clients/domain"
	"eztestbot/models"
	"eztestbot/services/channelbindings"
	"eztestbot/services/identity"
	"eztestbot/services/messagecache"
	"eztestbot/usecases/chat"
)

const botName = "EZTest"

type fixture struct {
	useCase   *chat.ChatUseCase
	cache     *messagecache.MessageCacheService
	bindings  *channelbindings.MockChannelBindingsService
	identity  *identity.MockIdentityService
	domain    *domain.MockDomainClient
	messenger *clients.MockChatMessenger
}

func newFixture() *fixture {
	f := &fixture{
		cache:     messagecache.NewMessageCacheService(messagecache.DefaultTTL, messagecache.DefaultSweepInterval),
		bindings:  &channelbindings.MockChannelBindingsService{},
		identity:  &identity.MockIdentityService{},
		domain:    &domain.MockDomainClient{},
		messenger: &clients.MockChatMessenger{},
	}
	f.useCase = chat.NewChatUseCase(botName, f.cache, f.bindings, f.identity, f.domain)
	f.useCase.RegisterMessenger(models.ChatPlatformWebhook, f.messenger)
	return f
}

func event(text string) models.MessageEvent {
	return models.MessageEvent{
		Platform:  models.ChatPlatformWebhook,
		ChannelID: "channel-1",
		TeamID:    "team-1",
		MessageID: "msg-1",
		Text:      text,
		Sender: models.ExternalIdentity{
			ObjectID:      "ext-user-1",
			Email:         "tester@example.com",
			PrincipalName: "tester@corp.example.com",
			DisplayName:   "Test Er",
		},
	}
}

var (
	testBinding = &models.ChannelBinding{
		ID:        "cb_1",
		ChannelID: "channel-1",
		TeamID:    "team-1",
		ProjectID: "proj-1",
	}
	testUser = &models.User{ID: "u-1", Email: "tester@example.com"}
)

func (f *fixture) expectHappyAuth() {
	f.bindings.On("ResolveBinding", mock.Anything, "channel-1").
		Return(mo.Some(testBinding), nil)
	f.identity.On("ResolveIdentity", mock.Anything, mock.Anything).
		Return(mo.Some(testUser), nil)
	f.identity.On("HasProjectAccess", mock.Anything, "u-1", "proj-1", mock.Anything).
		Return(true, nil)
}

func (f *fixture) expectReplyContaining(fragments ...string) {
	f.messenger.On("PostMessage", mock.Anything, "channel-1", mock.MatchedBy(func(text string) bool {
		for _, fragment := range fragments {
			if !strings.Contains(text, fragment) {
				return false
			}
		}
		return true
	})).Return(nil)
}

func TestProcessMessageEvent_NonCommand(t *testing.T) {
	f := newFixture()

	result, err := f.useCase.ProcessMessageEvent(context.Background(), event("Verify login with valid credentials"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNotACommand, result.Outcome)
	assert.Empty(t, result.Reply)

	cached := f.cache.Fetch("channel-1", "ext-user-1")
	require.True(t, cached.IsPresent())
	assert.Equal(t, "Verify login with valid credentials", cached.MustGet().Text)

	// nothing beyond the cache was touched
	f.bindings.AssertNotCalled(t, "ResolveBinding", mock.Anything, mock.Anything)
	f.messenger.AssertNotCalled(t, "PostMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessMessageEvent_PipelineOrdering(t *testing.T) {
	t.Run("unbound channel short-circuits before identity resolution", func(t *testing.T) {
		f := newFixture()
		f.bindings.On("ResolveBinding", mock.Anything, "channel-1").
			Return(mo.None[*models.ChannelBinding](), nil)
		f.expectReplyContaining("not linked to a project")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest create testcase"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeUnconfiguredChannel, result.Outcome)

		f.identity.AssertNotCalled(t, "ResolveIdentity", mock.Anything, mock.Anything)
	})

	t.Run("unresolved identity short-circuits before authorization", func(t *testing.T) {
		f := newFixture()
		f.bindings.On("ResolveBinding", mock.Anything, "channel-1").
			Return(mo.Some(testBinding), nil)
		f.identity.On("ResolveIdentity", mock.Anything, mock.Anything).
			Return(mo.None[*models.User](), nil)
		f.expectReplyContaining("could not match your chat account")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest create testcase"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeIdentityUnresolved, result.Outcome)

		f.identity.AssertNotCalled(t, "HasProjectAccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("member without permission is unauthorized, not unresolved", func(t *testing.T) {
		f := newFixture()
		f.bindings.On("ResolveBinding", mock.Anything, "channel-1").
			Return(mo.Some(testBinding), nil)
		f.identity.On("ResolveIdentity", mock.Anything, mock.Anything).
			Return(mo.Some(testUser), nil)
		f.identity.On("HasProjectAccess", mock.Anything, "u-1", "proj-1", models.PermissionTestCaseCreate).
			Return(false, nil)
		f.expectReplyContaining("do not have permission")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest create testcase"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeUnauthorized, result.Outcome)

		f.domain.AssertNotCalled(t, "CreateTestCase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcessMessageEvent_CreateTestCaseFromContext(t *testing.T) {
	f := newFixture()
	f.expectHappyAuth()

	created := &models.TestCase{ID: "tc-internal-1", ShortID: "TC-42", Title: "Verify login with valid credentials"}
	f.domain.On("CreateTestCase", mock.Anything, "proj-1", "u-1",
		mock.MatchedBy(func(req clients.CreateTestCaseRequest) bool {
			return req.Title == "Verify login with valid credentials"
		})).Return(created, nil)
	f.expectReplyContaining("TC-42")

	// precursor message gets cached
	_, err := f.useCase.ProcessMessageEvent(context.Background(), event("Verify login with valid credentials"))
	require.NoError(t, err)

	// the create command consumes it
	result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest create testcase"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Contains(t, result.Reply, "TC-42")

	f.domain.AssertExpectations(t)

	// the cache entry was evicted - a second create has no context
	f.expectReplyContaining("no recent message")
	result, err = f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest create testcase"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeMissingContext, result.Outcome)
}

func TestProcessMessageEvent_CreateDefectFromContext(t *testing.T) {
	f := newFixture()
	f.expectHappyAuth()

	defectMessage := "BUG: Export button not working\n" +
		"Steps to Reproduce:\n" +
		"1. Click Export\n" +
		"Actual Result:\n" +
		"- Nothing happens\n" +
		"Expected Result:\n" +
		"- File should download\n" +
		"Severity: High\n" +
		"Priority: Medium"

	created := &models.Defect{
		ID:       "def-internal-1",
		ShortID:  "DEF-7",
		Title:    "Export button not working",
		Severity: "HIGH",
		Priority: "MEDIUM",
	}
	f.domain.On("CreateDefect", mock.Anything, "proj-1", "u-1",
		mock.MatchedBy(func(req clients.CreateDefectRequest) bool {
			return req.Title == "Export button not working" &&
				len(req.StepsToReproduce) == 1 && req.StepsToReproduce[0] == "Click Export" &&
				len(req.ActualResult) == 1 && req.ActualResult[0] == "Nothing happens" &&
				len(req.ExpectedResult) == 1 && req.ExpectedResult[0] == "File should download" &&
				req.Severity == "HIGH" && req.Priority == "MEDIUM"
		})).Return(created, nil)
	f.expectReplyContaining("DEF-7", "HIGH", "MEDIUM")

	_, err := f.useCase.ProcessMessageEvent(context.Background(), event(defectMessage))
	require.NoError(t, err)

	result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest add defect"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Contains(t, result.Reply, "HIGH")
	assert.Contains(t, result.Reply, "MEDIUM")

	f.domain.AssertExpectations(t)
	assert.False(t, f.cache.Fetch("channel-1", "ext-user-1").IsPresent())
}

func TestProcessMessageEvent_DefectLinking(t *testing.T) {
	existing := &models.TestCase{ID: "tc-internal-9", ShortID: "TC-101", Title: "Login works"}
	page := &models.TestCasePage{Items: []*models.TestCase{existing}, Page: 1}

	t.Run("resolvable reference links the defect", func(t *testing.T) {
		f := newFixture()
		f.expectHappyAuth()

		created := &models.Defect{ID: "def-1", ShortID: "DEF-8", Title: "Broken"}
		f.domain.On("CreateDefect", mock.Anything, "proj-1", "u-1", mock.Anything).Return(created, nil)
		f.domain.On("ListTestCases", mock.Anything, "proj-1", "u-1", 1, 100).Return(page, nil)
		f.domain.On("LinkDefectToTestCase", mock.Anything, "def-1", "tc-internal-9", "u-1").Return(nil)
		f.expectReplyContaining("DEF-8", "TC-101")

		_, err := f.useCase.ProcessMessageEvent(context.Background(), event("BUG: Broken\nLinked: TC-101"))
		require.NoError(t, err)

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest add defect"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSuccess, result.Outcome)
		f.domain.AssertExpectations(t)
	})

	t.Run("dangling reference still creates the defect, unlinked", func(t *testing.T) {
		f := newFixture()
		f.expectHappyAuth()

		created := &models.Defect{ID: "def-2", ShortID: "DEF-9", Title: "Broken"}
		f.domain.On("CreateDefect", mock.Anything, "proj-1", "u-1", mock.Anything).Return(created, nil)
		f.domain.On("ListTestCases", mock.Anything, "proj-1", "u-1", 1, 100).
			Return(&models.TestCasePage{Items: nil, Page: 1}, nil)
		f.expectReplyContaining("DEF-9", "unlinked")

		_, err := f.useCase.ProcessMessageEvent(context.Background(), event("BUG: Broken\nLinked: TC-999"))
		require.NoError(t, err)

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest add defect"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeReferenceNotFound, result.Outcome)
		assert.Contains(t, result.Reply, "DEF-9")

		f.domain.AssertNotCalled(t, "LinkDefectToTestCase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcessMessageEvent_ShowTestCase(t *testing.T) {
	t.Run("unknown short ID replies not found without mutating calls", func(t *testing.T) {
		f := newFixture()
		f.expectHappyAuth()
		f.domain.On("ListTestCases", mock.Anything, "proj-1", "u-1", 1, 100).
			Return(&models.TestCasePage{Items: nil, Page: 1}, nil)
		f.expectReplyContaining("TC-999", "not found")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest show testcase TC-999"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeReferenceNotFound, result.Outcome)

		f.domain.AssertNotCalled(t, "CreateTestCase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.domain.AssertNotCalled(t, "CreateDefect", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.domain.AssertNotCalled(t, "LinkDefectToTestCase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known short ID renders the full entity", func(t *testing.T) {
		f := newFixture()
		f.expectHappyAuth()

		testCase := &models.TestCase{
			ID:             "tc-internal-9",
			ShortID:        "TC-101",
			Title:          "Login works",
			Steps:          []string{"Open page", "Sign in"},
			ExpectedResult: []string{"Dashboard shown"},
			Priority:       "HIGH",
		}
		f.domain.On("ListTestCases", mock.Anything, "proj-1", "u-1", 1, 100).
			Return(&models.TestCasePage{Items: []*models.TestCase{testCase}, Page: 1}, nil)
		f.domain.On("GetTestCase", mock.Anything, "tc-internal-9", "u-1").
			Return(mo.Some(testCase), nil)
		f.expectReplyContaining("TC-101", "Open page", "Dashboard shown")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest show testcase TC-101"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSuccess, result.Outcome)
		assert.Contains(t, result.Reply, "Sign in")
	})
}

func TestProcessMessageEvent_ListTestCases(t *testing.T) {
	f := newFixture()
	f.expectHappyAuth()

	page := &models.TestCasePage{
		Items: []*models.TestCase{
			{ShortID: "TC-1", Title: "First", Status: "ACTIVE"},
			{ShortID: "TC-2", Title: "Second"},
		},
		Page: 2,
	}
	f.domain.On("ListTestCases", mock.Anything, "proj-1", "u-1", 2, 10).Return(page, nil)
	f.expectReplyContaining("TC-1", "TC-2")

	result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest list testcases 2"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Contains(t, result.Reply, "First")
}

func TestProcessMessageEvent_Configure(t *testing.T) {
	t.Run("admin binds the channel", func(t *testing.T) {
		f := newFixture()
		f.identity.On("ResolveIdentity", mock.Anything, mock.Anything).
			Return(mo.Some(testUser), nil)
		f.identity.On("HasProjectAccess", mock.Anything, "u-1", "proj-9", models.PermissionProjectAdmin).
			Return(true, nil)
		f.bindings.On("BindChannel", mock.Anything, "channel-1", "team-1", "proj-9", "u-1").
			Return(&models.ChannelBinding{ID: "cb_2", ChannelID: "channel-1", ProjectID: "proj-9"}, nil)
		f.expectReplyContaining("proj-9")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest configure proj-9"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSuccess, result.Outcome)

		// configure never consults the existing binding
		f.bindings.AssertNotCalled(t, "ResolveBinding", mock.Anything, mock.Anything)
	})

	t.Run("non-admin cannot bind", func(t *testing.T) {
		f := newFixture()
		f.identity.On("ResolveIdentity", mock.Anything, mock.Anything).
			Return(mo.Some(testUser), nil)
		f.identity.On("HasProjectAccess", mock.Anything, "u-1", "proj-9", models.PermissionProjectAdmin).
			Return(false, nil)
		f.expectReplyContaining("permission")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest configure proj-9"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeUnauthorized, result.Outcome)

		f.bindings.AssertNotCalled(t, "BindChannel",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcessMessageEvent_HelpAndUnrecognized(t *testing.T) {
	t.Run("help answers after membership check, no extra permission", func(t *testing.T) {
		f := newFixture()
		f.bindings.On("ResolveBinding", mock.Anything, "channel-1").
			Return(mo.Some(testBinding), nil)
		f.identity.On("ResolveIdentity", mock.Anything, mock.Anything).
			Return(mo.Some(testUser), nil)
		f.identity.On("HasProjectAccess", mock.Anything, "u-1", "proj-1", "").
			Return(true, nil)
		f.expectReplyContaining("commands")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest help"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSuccess, result.Outcome)

		f.bindings.AssertExpectations(t)
		f.identity.AssertExpectations(t)
	})

	t.Run("help in an unbound channel is refused like any command", func(t *testing.T) {
		f := newFixture()
		f.bindings.On("ResolveBinding", mock.Anything, "channel-1").
			Return(mo.None[*models.ChannelBinding](), nil)
		f.expectReplyContaining("not linked to a project")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest help"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeUnconfiguredChannel, result.Outcome)

		f.identity.AssertNotCalled(t, "ResolveIdentity", mock.Anything, mock.Anything)
	})

	t.Run("help from a non-member is unauthorized", func(t *testing.T) {
		f := newFixture()
		f.bindings.On("ResolveBinding", mock.Anything, "channel-1").
			Return(mo.Some(testBinding), nil)
		f.identity.On("ResolveIdentity", mock.Anything, mock.Anything).
			Return(mo.Some(testUser), nil)
		f.identity.On("HasProjectAccess", mock.Anything, "u-1", "proj-1", "").
			Return(false, nil)
		f.expectReplyContaining("permission")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest help"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeUnauthorized, result.Outcome)
	})

	t.Run("unknown action after the trigger gets the fixed reply", func(t *testing.T) {
		f := newFixture()
		f.expectReplyContaining("not recognized")

		result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest dance for me"))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSuccess, result.Outcome)
		assert.Contains(t, result.Reply, "not recognized")
	})
}

func TestProcessMessageEvent_DomainCallFailed(t *testing.T) {
	f := newFixture()
	f.expectHappyAuth()

	f.domain.On("CreateTestCase", mock.Anything, "proj-1", "u-1", mock.Anything).
		Return(nil, errors.New("upstream is down"))
	f.expectReplyContaining("went wrong")

	_, err := f.useCase.ProcessMessageEvent(context.Background(), event("Verify something"))
	require.NoError(t, err)

	var logBuf bytes.Buffer
	log.SetOutput(&logBuf)
	defer log.SetOutput(os.Stderr)

	result, err := f.useCase.ProcessMessageEvent(context.Background(), event("@EZTest create testcase"))
	require.Error(t, err)
	assert.Equal(t, models.OutcomeDomainCallFailed, result.Outcome)
	// the upstream detail never reaches the chat surface
	assert.NotContains(t, result.Reply, "upstream is down")
	// and the failed turn is not logged as a success
	assert.NotContains(t, logBuf.String(), "Completed successfully - command")

	// the failed attempt leaves the cached context intact for a retry
	assert.True(t, f.cache.Fetch("channel-1", "ext-user-1").IsPresent())
}

func TestProcessMessageEvent_BotMentionFlag(t *testing.T) {
	f := newFixture()
	f.expectHappyAuth()
	f.expectReplyContaining("commands")

	// a platform mention entity without the textual trigger still classifies
	ev := event("<@123456789> help")
	ev.BotMentioned = true

	result, err := f.useCase.ProcessMessageEvent(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
}
