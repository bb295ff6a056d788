package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"eztestbot/clients"
	"eztestbot/core"
	"eztestbot/models"
	"eztestbot/parser"
	"eztestbot/utils"
)

func (u *ChatUseCase) handleConfigure(
	ctx context.Context,
	event models.MessageEvent,
	cmd models.Command,
) (models.DispatchResult, error) {
	if cmd.ProjectID == "" {
		return models.DispatchResult{
			Outcome: models.OutcomeParseIncomplete,
			Reply:   fmt.Sprintf("Usage: *@%s configure <project-id>*", u.botName),
		}, nil
	}

	maybeUser, err := u.identityService.ResolveIdentity(ctx, event.Sender)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to resolve identity: %w", err)
	}
	if !maybeUser.IsPresent() {
		return models.DispatchResult{
			Outcome: models.OutcomeIdentityUnresolved,
			Reply:   u.replyIdentityUnresolved(),
		}, nil
	}
	user := maybeUser.MustGet()

	allowed, err := u.identityService.HasProjectAccess(ctx, user.ID, cmd.ProjectID, models.PermissionProjectAdmin)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to check project access: %w", err)
	}
	if !allowed {
		return models.DispatchResult{
			Outcome: models.OutcomeUnauthorized,
			Reply:   u.replyUnauthorized(),
		}, nil
	}

	binding, err := u.bindingsService.BindChannel(ctx, event.ChannelID, event.TeamID, cmd.ProjectID, user.ID)
	if err != nil {
		if core.IsNotFoundError(err) {
			return models.DispatchResult{
				Outcome: models.OutcomeReferenceNotFound,
				Reply:   u.replyProjectNotFound(cmd.ProjectID),
			}, nil
		}
		return models.DispatchResult{}, fmt.Errorf("failed to bind channel: %w", err)
	}

	return models.DispatchResult{
		Outcome: models.OutcomeSuccess,
		Reply:   u.replyConfigured(binding),
	}, nil
}

func (u *ChatUseCase) handleCreateTestCase(
	ctx context.Context,
	event models.MessageEvent,
	binding *models.ChannelBinding,
	user *models.User,
) (models.DispatchResult, error) {
	maybeCached := u.messageCache.Fetch(event.ChannelID, event.Sender.ObjectID)
	if !maybeCached.IsPresent() {
		return models.DispatchResult{
			Outcome: models.OutcomeMissingContext,
			Reply:   u.replyMissingContext(),
		}, nil
	}
	cached := maybeCached.MustGet()

	draft := parser.ParseDraft(cached.Text)
	if missing := parser.ValidateDraft(draft); len(missing) > 0 {
		return models.DispatchResult{
			Outcome: models.OutcomeParseIncomplete,
			Reply:   u.replyParseIncomplete(missing),
		}, nil
	}

	preconditions := draft.Preconditions
	if preconditions == "" {
		preconditions = draft.Environment
	}

	testCase, err := u.domainClient.CreateTestCase(ctx, binding.ProjectID, user.ID, clients.CreateTestCaseRequest{
		Title:          draft.Title,
		Description:    draft.Description,
		Preconditions:  preconditions,
		Steps:          draft.Steps,
		ExpectedResult: draft.ExpectedResult,
		Priority:       draft.Priority,
		Status:         draft.Status,
		Tags:           draft.Tags,
	})
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to create test case: %w", err)
	}

	// the precursor message is consumed - it must not feed a second create
	u.messageCache.Evict(event.ChannelID, event.Sender.ObjectID)
	log.Printf("✅ Created test case %s from cached message in channel %s", testCase.ShortID, event.ChannelID)

	return models.DispatchResult{
		Outcome: models.OutcomeSuccess,
		Reply:   u.replyTestCaseCreated(testCase),
	}, nil
}

func (u *ChatUseCase) handleCreateDefect(
	ctx context.Context,
	event models.MessageEvent,
	binding *models.ChannelBinding,
	user *models.User,
) (models.DispatchResult, error) {
	maybeCached := u.messageCache.Fetch(event.ChannelID, event.Sender.ObjectID)
	if !maybeCached.IsPresent() {
		return models.DispatchResult{
			Outcome: models.OutcomeMissingContext,
			Reply:   u.replyMissingContext(),
		}, nil
	}
	cached := maybeCached.MustGet()

	draft := parser.ParseDraft(cached.Text)
	if missing := parser.ValidateDraft(draft); len(missing) > 0 {
		return models.DispatchResult{
			Outcome: models.OutcomeParseIncomplete,
			Reply:   u.replyParseIncomplete(missing),
		}, nil
	}

	defect, err := u.domainClient.CreateDefect(ctx, binding.ProjectID, user.ID, clients.CreateDefectRequest{
		Title:            draft.Title,
		Description:      draft.Description,
		StepsToReproduce: draft.StepsToReproduce,
		ExpectedResult:   draft.ExpectedResult,
		ActualResult:     draft.ActualResult,
		Severity:         draft.Severity,
		Priority:         draft.Priority,
		Status:           draft.Status,
		Tags:             draft.Tags,
	})
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to create defect: %w", err)
	}

	u.messageCache.Evict(event.ChannelID, event.Sender.ObjectID)
	log.Printf("✅ Created defect %s from cached message in channel %s", defect.ShortID, event.ChannelID)

	// an inline test case reference links the defect; a dangling reference is
	// a soft failure - the defect stays, just unlinked
	reference := inlineTestCaseReference(draft, cached.Text)
	if reference == "" {
		return models.DispatchResult{
			Outcome: models.OutcomeSuccess,
			Reply:   u.replyDefectCreated(defect, ""),
		}, nil
	}

	testCaseID, found, err := u.resolveShortID(ctx, binding.ProjectID, user.ID, reference)
	if err != nil {
		log.Printf("⚠️ Failed to resolve test case reference %s for defect %s: %v", reference, defect.ShortID, err)
		found = false
	}
	if found {
		if err := u.domainClient.LinkDefectToTestCase(ctx, defect.ID, testCaseID, user.ID); err != nil {
			log.Printf("⚠️ Failed to link defect %s to test case %s: %v", defect.ShortID, reference, err)
			found = false
		}
	}

	if !found {
		return models.DispatchResult{
			Outcome: models.OutcomeReferenceNotFound,
			Reply:   u.replyDefectCreatedUnlinked(defect, reference),
		}, nil
	}

	return models.DispatchResult{
		Outcome: models.OutcomeSuccess,
		Reply:   u.replyDefectCreated(defect, reference),
	}, nil
}

func (u *ChatUseCase) handleListTestCases(
	ctx context.Context,
	cmd models.Command,
	binding *models.ChannelBinding,
	user *models.User,
) (models.DispatchResult, error) {
	page, err := u.domainClient.ListTestCases(ctx, binding.ProjectID, user.ID, cmd.Page, listPageSize)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to list test cases: %w", err)
	}

	return models.DispatchResult{
		Outcome: models.OutcomeSuccess,
		Reply:   u.replyTestCaseList(page),
	}, nil
}

func (u *ChatUseCase) handleShowTestCase(
	ctx context.Context,
	cmd models.Command,
	binding *models.ChannelBinding,
	user *models.User,
) (models.DispatchResult, error) {
	testCaseID, found, err := u.resolveShortID(ctx, binding.ProjectID, user.ID, cmd.ShortID)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to resolve short ID: %w", err)
	}
	if !found {
		return models.DispatchResult{
			Outcome: models.OutcomeReferenceNotFound,
			Reply:   u.replyTestCaseNotFound(cmd.ShortID),
		}, nil
	}

	maybeTestCase, err := u.domainClient.GetTestCase(ctx, testCaseID, user.ID)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to get test case: %w", err)
	}
	if !maybeTestCase.IsPresent() {
		return models.DispatchResult{
			Outcome: models.OutcomeReferenceNotFound,
			Reply:   u.replyTestCaseNotFound(cmd.ShortID),
		}, nil
	}

	return models.DispatchResult{
		Outcome: models.OutcomeSuccess,
		Reply:   u.replyTestCaseDetail(maybeTestCase.MustGet()),
	}, nil
}

// resolveShortID maps a short ID like TC-101 to the internal identifier by
// scanning one bounded page of the project's test cases. In very large
// projects this can miss a valid reference; callers treat that as a soft
// not-found.
func (u *ChatUseCase) resolveShortID(
	ctx context.Context,
	projectID, userID, shortID string,
) (string, bool, error) {
	page, err := u.domainClient.ListTestCases(ctx, projectID, userID, 1, shortIDScanLimit)
	if err != nil {
		return "", false, fmt.Errorf("failed to scan test cases for short ID: %w", err)
	}

	for _, tc := range page.Items {
		if strings.EqualFold(tc.ShortID, shortID) {
			return tc.ID, true, nil
		}
	}

	return "", false, nil
}

// inlineTestCaseReference picks the test case a defect message points at: an
// explicit Linked section wins, otherwise the first short-ID-shaped token in
// the message text
func inlineTestCaseReference(draft models.Draft, text string) string {
	if len(draft.LinkedIDs) > 0 {
		return strings.ToUpper(draft.LinkedIDs[0])
	}
	if ids := utils.FindShortIDs(text); len(ids) > 0 {
		return strings.ToUpper(ids[0])
	}
	return ""
}
