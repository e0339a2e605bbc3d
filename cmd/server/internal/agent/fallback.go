package agent

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRunRe = regexp.MustCompile(`\d+`)

// addStopWords are stripped as whole words when extracting a title from an
// add-style message that has no "... to <title>" clause.
var addStopWords = []string{"add", "create", "new", "remember", "task", "a"}

// fallbackParse is the deterministic keyword cascade used when the model is
// unconfigured or its call fails. The rule order matters: update keywords
// are checked before complete/delete because update messages also carry a
// task id, and they must win.
func fallbackParse(message string) Command {
	lower := strings.ToLower(message)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("update", "change", "edit", "modify"):
		id, idStr := firstDigitRun(message)
		return Command{Kind: KindUpdate, TaskID: id, Title: titleAfterToOrID(message, lower, idStr)}

	case containsAny("complete", "done", "finish", "mark"):
		id, _ := firstDigitRun(message)
		return Command{Kind: KindComplete, TaskID: id}

	case containsAny("get rid of", "get rid", "delete", "remove", "cancel", "erase", "trash", "discard"):
		id, _ := firstDigitRun(message)
		return Command{Kind: KindDelete, TaskID: id}

	case containsAny("add", "create", "new", "remember"):
		return Command{Kind: KindAdd, Title: addTitle(message, lower)}

	case containsAny("list", "show", "what", "display", "all", "tasks"):
		return Command{Kind: KindList}

	default:
		return Command{Kind: KindUnknown}
	}
}

// firstDigitRun returns the first run of digits in s as a task id, or zero
// and the empty string when there is none.
func firstDigitRun(s string) (uint, string) {
	m := digitRunRe.FindString(s)
	if m == "" {
		return 0, ""
	}
	n, err := strconv.ParseUint(m, 10, 32)
	if err != nil {
		return 0, ""
	}
	return uint(n), m
}

// titleAfterToOrID extracts the new title of an update message: the text
// after the first " to ", or failing that everything after the task id.
func titleAfterToOrID(message, lower, idStr string) string {
	if idx := strings.Index(lower, " to "); idx >= 0 {
		return strings.TrimSpace(message[idx+len(" to "):])
	}
	if idStr != "" {
		if idx := strings.Index(message, idStr); idx >= 0 {
			return strings.TrimSpace(message[idx+len(idStr):])
		}
	}
	return ""
}

// addTitle extracts a task title from an add-style message: the text after
// " to " when present, otherwise the message with the command stop words
// removed.
func addTitle(message, lower string) string {
	if idx := strings.Index(lower, " to "); idx >= 0 {
		return stripQuotes(strings.TrimSpace(message[idx+len(" to "):]))
	}

	title := message
	for _, w := range addStopWords {
		re := regexp.MustCompile(`(?i)\b` + w + `\b`)
		title = re.ReplaceAllString(title, "")
	}
	return stripQuotes(strings.TrimSpace(title))
}

// stripQuotes removes surrounding quote characters.
func stripQuotes(s string) string {
	return strings.Trim(s, `"'`)
}
