// Package parser converts loosely structured chat messages into typed drafts.
//
// Parsing is total: every input yields a Draft, possibly with empty optional
// fields. Section capture is a two-pass scan - all keyword positions are
// located first, then text is sliced between consecutive positions - so the
// "stop at the next recognized keyword" rule holds independent of field order.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"eztestbot/models"
	"eztestbot/utils"
)

type sectionKeyword struct {
	name  string // canonical, lowercase
	apply func(*models.Draft, []string)
}

// Ordered longest-first so "steps to reproduce" wins over "steps" and
// "linked ids" over "linked".
var sectionKeywords = []sectionKeyword{
	{"steps to reproduce", func(d *models.Draft, b []string) { d.StepsToReproduce = orderedItems(b) }},
	{"expected result", func(d *models.Draft, b []string) { d.ExpectedResult = looseItems(b) }},
	{"actual result", func(d *models.Draft, b []string) { d.ActualResult = looseItems(b) }},
	{"preconditions", func(d *models.Draft, b []string) { d.Preconditions = joinText(b) }},
	{"environment", func(d *models.Draft, b []string) { d.Environment = joinText(b) }},
	{"description", func(d *models.Draft, b []string) { d.Description = joinText(b) }},
	{"linked ids", func(d *models.Draft, b []string) { d.LinkedIDs = commaItems(b, true) }},
	{"severity", func(d *models.Draft, b []string) { d.Severity = scalarValue(b) }},
	{"priority", func(d *models.Draft, b []string) { d.Priority = scalarValue(b) }},
	{"linked", func(d *models.Draft, b []string) { d.LinkedIDs = commaItems(b, true) }},
	{"status", func(d *models.Draft, b []string) { d.Status = scalarValue(b) }},
	{"steps", func(d *models.Draft, b []string) { d.Steps = orderedItems(b) }},
	{"tags", func(d *models.Draft, b []string) { d.Tags = commaItems(b, false) }},
	{"type", func(d *models.Draft, b []string) { d.Type = scalarValue(b) }},
}

// Title markers are only honored at the very start of the text and always
// require a colon, e.g. "BUG: Export button not working".
var titleMarkers = []string{"test case", "testcase", "title", "defect", "bug"}

var (
	orderedItemRegex = regexp.MustCompile(`^\s*[0-9]+\.\s*(.*)$`)
	bulletItemRegex  = regexp.MustCompile(`^\s*[-•*]\s*(.*)$`)
)

type marker struct {
	lineIdx int
	keyword sectionKeyword
	inline  string // text after the keyword on the same line
}

// ParseDraft converts a chat message into a Draft. It never fails; whether
// required fields came out populated is a separate validation step.
func ParseDraft(text string) models.Draft {
	draft := models.Draft{}

	text = utils.NormalizeWhitespace(text)
	if text == "" {
		return draft
	}

	lines := strings.Split(text, "\n")

	titleLine := -1
	if title, ok := matchTitleMarker(lines[0]); ok {
		draft.Title = title
		titleLine = 0
	}

	markers := locateMarkers(lines, titleLine)

	if titleLine < 0 {
		// No explicit marker: a single unstructured line is the whole title;
		// otherwise the first non-empty line before any section header is.
		firstMarkerLine := len(lines)
		if len(markers) > 0 {
			firstMarkerLine = markers[0].lineIdx
		}
		for i := 0; i < firstMarkerLine; i++ {
			if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
				draft.Title = trimmed
				break
			}
		}
	}

	for i, m := range markers {
		end := len(lines)
		if i+1 < len(markers) {
			end = markers[i+1].lineIdx
		}

		block := make([]string, 0, end-m.lineIdx)
		if m.inline != "" {
			block = append(block, m.inline)
		}
		block = append(block, lines[m.lineIdx+1:end]...)

		m.keyword.apply(&draft, block)
	}

	return draft
}

// locateMarkers finds every line that opens a recognized section. When the
// same keyword appears twice, the first occurrence wins: later occurrences
// are left as plain text inside whatever section they fall in.
func locateMarkers(lines []string, skipLine int) []marker {
	seen := make(map[string]bool)
	var markers []marker
	for i, line := range lines {
		if i == skipLine {
			continue
		}
		kw, inline, ok := matchSectionKeyword(line)
		if !ok || seen[kw.name] {
			continue
		}
		seen[kw.name] = true
		markers = append(markers, marker{lineIdx: i, keyword: kw, inline: inline})
	}
	return markers
}

// matchSectionKeyword reports whether a line opens a section. The keyword must
// sit at the start of the line and be followed by a colon or the end of the
// line, so "Statuses:" does not match "status".
func matchSectionKeyword(line string) (sectionKeyword, string, bool) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	for _, kw := range sectionKeywords {
		if !strings.HasPrefix(lower, kw.name) {
			continue
		}
		rest := trimmed[len(kw.name):]
		if rest == "" {
			return kw, "", true
		}
		if rest[0] == ':' {
			return kw, strings.TrimSpace(rest[1:]), true
		}
	}
	return sectionKeyword{}, "", false
}

func matchTitleMarker(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	for _, m := range titleMarkers {
		if strings.HasPrefix(lower, m+":") {
			return strings.TrimSpace(trimmed[len(m)+1:]), true
		}
	}
	return "", false
}

func joinText(block []string) string {
	var kept []string
	for _, line := range block {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}

// orderedItems keeps only N.-prefixed lines; everything else is dropped
func orderedItems(block []string) []string {
	var items []string
	for _, line := range block {
		if m := orderedItemRegex.FindStringSubmatch(line); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// looseItems handles free or bulleted result sections: bullet prefixes are
// stripped, plain non-blank lines are kept as-is
func looseItems(block []string) []string {
	var items []string
	for _, line := range block {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := bulletItemRegex.FindStringSubmatch(trimmed); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				items = append(items, item)
			}
			continue
		}
		items = append(items, trimmed)
	}
	return items
}

// scalarValue takes the single token following the keyword, upper-cased for
// enum normalization
func scalarValue(block []string) string {
	for _, line := range block {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return strings.ToUpper(fields[0])
		}
	}
	return ""
}

func commaItems(block []string, shortIDsOnly bool) []string {
	joined := strings.Join(block, ",")
	var items []string
	for _, part := range strings.Split(joined, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if shortIDsOnly && !utils.IsValidShortID(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ValidateDraft turns missing required fields into an explicit, enumerable
// list of human-readable errors. An empty result means the draft is complete.
func ValidateDraft(draft models.Draft) []string {
	var missing []string
	if strings.TrimSpace(draft.Title) == "" {
		missing = append(missing, "title is required - start the message with a Title:, BUG: or Test Case: line")
	}
	return missing
}

// DescribeMissingFields renders validation errors as a numbered reply body
func DescribeMissingFields(errs []string) string {
	var b strings.Builder
	for i, e := range errs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	return strings.TrimRight(b.String(), "\n")
}
