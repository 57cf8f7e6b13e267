package extractor

import (
	"regexp"
	"strings"
)

const (
	maxDescriptionLen  = 500
	minDescriptionLine = 10
	minNameLen         = 2
)

var (
	// North-American phone pattern: 3-3-4 digit groups with optional
	// parentheses, dashes, dots, or spaces.
	rePhone = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)

	// Markdown-style link target, else a bare http(s) token.
	reMarkdownLink = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)\)`)
	reBareURL      = regexp.MustCompile(`https?://[^\s)\]]+`)

	reBold   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reBullet = regexp.MustCompile(`^\s*[-*]\s+`)

	// Time-of-day token like 9am, 0730, 5 p.m.
	reClockToken = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(a\.?m\.?|p\.?m\.?)\b|\b([01]\d|2[0-3])[0-5]\d\b`)
)

// hoursKeywords mark a line as an operating-hours line. Day names are
// matched as token prefixes so "Monday" hits "mon" without "money" doing
// the same; phrase keywords are plain substring matches.
var (
	hoursDayPrefixes = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	hoursPhrases     = []string{"hours", "open ", "opens", "24/7", "24 hours", "a.m.", "p.m.", "daily", "weekday", "weekend", "closed"}
)

// isHoursLine reports whether a line looks like an operating-hours line.
func isHoursLine(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range hoursPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	if reClockToken.MatchString(lower) {
		return true
	}
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		for _, day := range hoursDayPrefixes {
			if strings.HasPrefix(token, day) {
				return true
			}
		}
	}
	return false
}

// stripMarkers removes leading bullet markers and bold emphasis from a line.
func stripMarkers(line string) string {
	s := reBullet.ReplaceAllString(line, "")
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}

// extractPhone returns the first phone-shaped substring in the text.
func extractPhone(text string) string {
	return strings.TrimSpace(rePhone.FindString(text))
}

// extractWebsite returns the first markdown link target, falling back to
// the first bare http(s) token.
func extractWebsite(text string) string {
	if m := reMarkdownLink.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return reBareURL.FindString(text)
}

// extractHours returns the first hours-looking line, markers stripped.
func extractHours(lines []string) string {
	for _, line := range lines {
		stripped := stripMarkers(line)
		if stripped == "" {
			continue
		}
		if isHoursLine(stripped) {
			return stripped
		}
	}
	return ""
}

// truncate caps s at limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && s[limit]&0xC0 == 0x80 {
		limit--
	}
	return s[:limit]
}
