package chat

import (
	"fmt"
	"strings"

	"eztestbot/models"
)

// Replies are plain text with the simple *emphasis* and list formatting the
// chat surfaces render. Internal error detail never appears here.

func (u *ChatUseCase) replyUnrecognized() string {
	return fmt.Sprintf("Command not recognized. Say *@%s help* to see what I can do.", u.botName)
}

func (u *ChatUseCase) replyHelp() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s commands*\n", u.botName)
	fmt.Fprintf(&b, "- *@%s configure <project-id>* - bind this channel to a project\n", u.botName)
	fmt.Fprintf(&b, "- *@%s create testcase* - turn your previous message into a test case\n", u.botName)
	fmt.Fprintf(&b, "- *@%s list testcases [page]* - list the project's test cases\n", u.botName)
	fmt.Fprintf(&b, "- *@%s show testcase <ID>* - show one test case, e.g. TC-101\n", u.botName)
	fmt.Fprintf(&b, "- *@%s add defect* - turn your previous message into a defect\n", u.botName)
	fmt.Fprintf(&b, "- *@%s help* - this message", u.botName)
	return b.String()
}

func (u *ChatUseCase) replyUnconfiguredChannel() string {
	return fmt.Sprintf(
		"This channel is not linked to a project yet. Ask a project admin to run *@%s configure <project-id>* first.",
		u.botName)
}

func (u *ChatUseCase) replyIdentityUnresolved() string {
	return "I could not match your chat account to a user in the test management system. " +
		"Make sure your chat email matches your account email."
}

func (u *ChatUseCase) replyUnauthorized() string {
	return "You do not have permission to do that in this channel's project."
}

func (u *ChatUseCase) replyMissingContext() string {
	return fmt.Sprintf(
		"I have no recent message from you to work with. Post the test case or defect description first, then say *@%s create testcase* or *@%s add defect* within 10 minutes.",
		u.botName, u.botName)
}

func (u *ChatUseCase) replyParseIncomplete(missing []string) string {
	return "I could not build a complete draft from your message:\n" + numberedList(missing)
}

func (u *ChatUseCase) replyDomainCallFailed() string {
	return "Something went wrong talking to the test management system. Nothing was saved - please try again."
}

func (u *ChatUseCase) replyProjectNotFound(projectID string) string {
	return fmt.Sprintf("Project *%s* was not found. Check the project ID and try again.", projectID)
}

func (u *ChatUseCase) replyTestCaseNotFound(shortID string) string {
	return fmt.Sprintf("Test case *%s* was not found in this channel's project.", shortID)
}

func (u *ChatUseCase) replyConfigured(binding *models.ChannelBinding) string {
	return fmt.Sprintf("Done - this channel is now linked to project *%s*.", binding.ProjectID)
}

func (u *ChatUseCase) replyTestCaseCreated(testCase *models.TestCase) string {
	return fmt.Sprintf("Created test case *%s*: %s", testCase.ShortID, testCase.Title)
}

func (u *ChatUseCase) replyDefectCreated(defect *models.Defect, linkedShortID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created defect *%s*: %s", defect.ShortID, defect.Title)
	if defect.Severity != "" {
		fmt.Fprintf(&b, "\nSeverity: *%s*", defect.Severity)
	}
	if defect.Priority != "" {
		fmt.Fprintf(&b, "\nPriority: *%s*", defect.Priority)
	}
	if linkedShortID != "" {
		fmt.Fprintf(&b, "\nLinked to test case *%s*", linkedShortID)
	}
	return b.String()
}

func (u *ChatUseCase) replyDefectCreatedUnlinked(defect *models.Defect, missingShortID string) string {
	return u.replyDefectCreated(defect, "") +
		fmt.Sprintf("\nNote: test case *%s* was not found, so the defect is unlinked.", missingShortID)
}

func (u *ChatUseCase) replyTestCaseList(page *models.TestCasePage) string {
	if len(page.Items) == 0 {
		return "No test cases found on that page."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Test cases* (page %d)\n", page.Page)
	for _, tc := range page.Items {
		status := tc.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(&b, "- *%s* %s [%s]\n", tc.ShortID, tc.Title, status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (u *ChatUseCase) replyTestCaseDetail(testCase *models.TestCase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*: %s\n", testCase.ShortID, testCase.Title)
	if testCase.Description != "" {
		fmt.Fprintf(&b, "%s\n", testCase.Description)
	}
	if testCase.Preconditions != "" {
		fmt.Fprintf(&b, "Preconditions: %s\n", testCase.Preconditions)
	}
	if len(testCase.Steps) > 0 {
		b.WriteString("Steps:\n")
		b.WriteString(numberedList(testCase.Steps))
		b.WriteString("\n")
	}
	if len(testCase.ExpectedResult) > 0 {
		b.WriteString("Expected result:\n")
		for _, item := range testCase.ExpectedResult {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	if testCase.Priority != "" {
		fmt.Fprintf(&b, "Priority: *%s*\n", testCase.Priority)
	}
	return strings.TrimRight(b.String(), "\n")
}

func numberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}
