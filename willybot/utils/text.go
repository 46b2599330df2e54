package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	UsernameRegex = regexp.MustCompile(`^[\w-]{3,16}$`)

	markdownEscaper = func() *strings.Replacer {
		var pairs []string
		for _, r := range "\\<>|@&#[]():*_-`~" {
			pairs = append(pairs, string(r), `\`+string(r))
		}
		return strings.NewReplacer(pairs...)
	}()

	// Timestamps before this render as "at the beginning".
	epoch = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Sanitize escapes markdown and mention syntax in user supplied text.
func Sanitize(text string) string {
	return markdownEscaper.Replace(text)
}

// SanitizeUsername keeps only the characters allowed in a username.
func SanitizeUsername(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CutoffText shortens text to at most max characters, ending in "...".
func CutoffText(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	if max <= 3 {
		return string([]rune(text)[:max])
	}
	return string([]rune(text)[:max-3]) + "..."
}

// TimeSince renders the time between since and now as "5 minutes ago",
// "1 day ago" and so on.
func TimeSince(since, now time.Time) string {
	if since.Before(epoch) {
		return "at the beginning"
	}
	elapsed := now.Sub(since).Minutes()
	if elapsed < 5 {
		return "now"
	}

	units := "minutes"
	if elapsed > 60 {
		elapsed /= 60
		units = "hours"
		if elapsed > 24 {
			elapsed /= 24
			units = "days"
			if elapsed > 365.24/12 {
				elapsed /= 365.24 / 12
				units = "months"
				if elapsed > 12 {
					elapsed /= 12
					units = "years"
				}
			}
		}
	}

	n := int(elapsed)
	if n == 1 {
		units = strings.TrimSuffix(units, "s")
	}
	return fmt.Sprintf("%d %s ago", n, units)
}

// IsDifferentDay reports whether two unix timestamps fall on different UTC
// dates.
func IsDifferentDay(old, new int64) bool {
	a := time.Unix(old, 0).UTC()
	b := time.Unix(new, 0).UTC()
	return a.YearDay() != b.YearDay() || a.Year() != b.Year()
}

// DateToTimestamp parses a YYYY-MM-DD date as midnight UTC.
func DateToTimestamp(date string) (int64, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
