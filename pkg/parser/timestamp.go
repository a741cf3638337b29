package parser

import (
	"regexp"
	"strings"
	"time"
)

// genericTimestampLayouts are the formats attempted, in order, when parsing
// timestamps from syslog-style messages.
var genericTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"Jan 2 15:04:05",
	"Jan 2 2006 15:04:05",
	"01/02/2006 15:04:05",
	"02/01/2006 15:04:05",
}

// ciscoTimestampLayouts are the formats Cisco devices emit. Layouts without
// a year assume the current local year.
var ciscoTimestampLayouts = []string{
	"Jan 2 15:04:05",
	"Jan 2 2006 15:04:05",
	"15:04:05",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseTimestamp tries each generic layout in order and falls back to the
// capture time when nothing matches.
func ParseTimestamp(text string) time.Time {
	return parseTimestampLayouts(text, genericTimestampLayouts)
}

// parseCiscoTimestamp parses Cisco-flavored timestamps, stripping the
// leading '*' marker and trailing milliseconds first.
func parseCiscoTimestamp(text string) time.Time {
	text = strings.TrimPrefix(strings.TrimSpace(text), "*")
	if dot := strings.Index(text, "."); dot >= 0 {
		text = text[:dot]
	}
	return parseTimestampLayouts(text, ciscoTimestampLayouts)
}

func parseTimestampLayouts(text string, layouts []string) time.Time {
	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")

	for _, layout := range layouts {
		ts, err := time.ParseInLocation(layout, text, time.Local)
		if err != nil {
			continue
		}
		// Layouts without a year parse as year 0; assume the current one
		if ts.Year() == 0 {
			now := time.Now()
			month := ts.Month()
			day := ts.Day()
			if layout == "15:04:05" {
				month = now.Month()
				day = now.Day()
			}
			ts = time.Date(now.Year(), month, day,
				ts.Hour(), ts.Minute(), ts.Second(), 0, time.Local)
		}
		return ts
	}

	return time.Now()
}

// Hostname extraction is best effort: a token directly before a Cisco
// message id, or the token following a syslog priority tag. Absence is
// not an error.
var hostnamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s([A-Za-z][\w.-]*)\s+%[A-Z]`),
	regexp.MustCompile(`<\d+>([A-Za-z][\w.-]*)\s`),
}

func extractHostname(raw string) string {
	for _, pattern := range hostnamePatterns {
		if match := pattern.FindStringSubmatch(raw); match != nil {
			hostname := match[1]
			if len(hostname) > 1 && !strings.Contains(hostname, " ") {
				return hostname
			}
		}
	}
	return ""
}

// cleanMessage trims surrounding whitespace and strips control characters
func cleanMessage(message string) string {
	message = strings.TrimSpace(message)
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n') {
			return -1
		}
		return r
	}, message)
}
