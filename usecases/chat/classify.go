package chat

import (
	"strconv"
	"strings"

	"eztestbot/models"
	"eztestbot/utils"
)

// ClassifyCommand turns the text after the bot trigger into exactly one
// tagged command variant. The action keyword may appear anywhere in the
// remainder; anything else classifies as unrecognized.
func ClassifyCommand(text string) models.Command {
	raw := strings.TrimSpace(text)

	norm := strings.ToLower(raw)
	norm = strings.Join(strings.Fields(norm), " ")
	// tolerate both spellings of "testcase"
	norm = strings.ReplaceAll(norm, "test case", "testcase")

	switch {
	case strings.Contains(norm, "configure"):
		return models.Command{
			Type:      models.CommandConfigure,
			ProjectID: tokenAfter(raw, "configure"),
			Raw:       raw,
		}

	case strings.Contains(norm, "create testcase") || strings.Contains(norm, "add testcase"):
		return models.Command{Type: models.CommandCreateTestCase, Raw: raw}

	case strings.Contains(norm, "show testcase"):
		shortIDs := utils.FindShortIDs(raw)
		if len(shortIDs) == 0 {
			return models.Command{Type: models.CommandUnrecognized, Raw: raw}
		}
		return models.Command{
			Type:    models.CommandShowTestCase,
			ShortID: strings.ToUpper(shortIDs[0]),
			Raw:     raw,
		}

	case strings.Contains(norm, "list testcase"):
		return models.Command{
			Type: models.CommandListTestCases,
			Page: trailingPage(norm),
			Raw:  raw,
		}

	case strings.Contains(norm, "add defect") || strings.Contains(norm, "create defect"):
		return models.Command{Type: models.CommandCreateDefect, Raw: raw}

	case containsField(norm, "help"):
		return models.Command{Type: models.CommandHelp, Raw: raw}

	default:
		return models.Command{Type: models.CommandUnrecognized, Raw: raw}
	}
}

// containsField reports whether the word appears as a whole whitespace-split
// field, so "helpless" does not match "help"
func containsField(norm, word string) bool {
	for _, f := range strings.Fields(norm) {
		if f == word {
			return true
		}
	}
	return false
}

// tokenAfter returns the whitespace token that follows the first
// case-insensitive occurrence of the given word, or ""
func tokenAfter(text, word string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		normalized := strings.ToLower(strings.Trim(f, ":"))
		if normalized == word && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

// trailingPage extracts an optional 1-based page number from the end of a
// list command, defaulting to 1
func trailingPage(norm string) int {
	fields := strings.Fields(norm)
	if len(fields) == 0 {
		return 1
	}
	if page, err := strconv.Atoi(fields[len(fields)-1]); err == nil && page > 0 {
		return page
	}
	return 1
}
