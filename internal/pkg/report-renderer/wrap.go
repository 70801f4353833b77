package reportrenderer

import (
	"strings"
	"time"
	"unicode/utf8"
)

const ellipsis = "..."

// Wrap splits text into at most maxLines lines of at most limit characters,
// breaking only between words. Text longer than limit*maxLines is cut and
// suffixed with "..." first. Line breaks in the text start a new line and
// blank lines are dropped. A single word longer than limit gets a line of its
// own and is never split.
func Wrap(text string, limit, maxLines int) []string {
	if text == "" || limit <= 0 || maxLines <= 0 {
		return nil
	}

	budget := limit * maxLines
	if utf8.RuneCountInString(text) > budget {
		keep := budget - len(ellipsis)
		if keep < 0 {
			keep = 0
		}
		text = string([]rune(text)[:keep]) + ellipsis
	}

	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapWords(strings.Fields(paragraph), limit)...)
		if len(lines) >= maxLines {
			return lines[:maxLines]
		}
	}

	return lines
}

func wrapWords(words []string, limit int) []string {
	var (
		lines   []string
		current string
	)

	for _, word := range words {
		if current == "" {
			current = word
			continue
		}

		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= limit {
			current += " " + word
			continue
		}

		lines = append(lines, current)
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}

	return lines
}

// SplitDate decomposes an ISO "YYYY-MM-DD" (or "DD/MM/YYYY") date into
// day, month and year. Unparseable input yields blanks.
func SplitDate(value string) (day, month, year string) {
	t, ok := parseDate(value)
	if !ok {
		return "", "", ""
	}

	return t.Format("02"), t.Format("01"), t.Format("2006")
}

// FormatDate renders a date as "DD/MM/YYYY", or blank when unparseable.
func FormatDate(value string) string {
	t, ok := parseDate(value)
	if !ok {
		return ""
	}

	return t.Format("02/01/2006")
}

// SplitTime decomposes "HH:MM" into hour and minute.
func SplitTime(value string) (hour, minute string) {
	if value == "" {
		return "", ""
	}

	hour, minute, _ = strings.Cut(value, ":")

	return strings.TrimSpace(hour), strings.TrimSpace(minute)
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
