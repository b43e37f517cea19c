// Package textutils provides text cleanup and classification-code utilities.
package textutils

import (
	"regexp"
	"strings"
)

var (
	chapterPattern    = regexp.MustCompile(`^(\d{2})`)
	subchapterPattern = regexp.MustCompile(`^(\d{2}\.\d{2})`)

	invisibleReplacer = strings.NewReplacer(
		"\u00a0", "",
		"\u200b", "",
		"\u200c", "",
		"\u200d", "",
		"\u2060", "",
		"\ufeff", "",
	)
)

// Sentinel codes meaning "no classification".
const (
	SentinelZero     = "0"
	SentinelZeroCode = "00.00.00"
)

// RobustTrim removes non-breaking spaces, zero-width characters and byte order
// marks anywhere in s, then trims surrounding ASCII whitespace.
func RobustTrim(s string) string {
	return strings.Trim(invisibleReplacer.Replace(s), " \t\n\r\v\f")
}

// IsSentinel reports whether code is empty or one of the "unclassified" sentinels.
func IsSentinel(code string) bool {
	c := RobustTrim(code)
	return c == "" || c == SentinelZero || c == SentinelZeroCode
}

// ChapterPrefix returns the leading two-digit chapter of a functional code.
// The second result is false when the code does not start with two digits.
func ChapterPrefix(code string) (string, bool) {
	return matchPrefix(chapterPattern, code)
}

// SubchapterPrefix returns the leading "NN.MM" group of a code, if any.
func SubchapterPrefix(code string) (string, bool) {
	return matchPrefix(subchapterPattern, code)
}

func matchPrefix(re *regexp.Regexp, code string) (string, bool) {
	c := strings.TrimSuffix(RobustTrim(code), ".")
	if c == "" {
		return "", false
	}
	m := re.FindStringSubmatch(c)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// FallbackName returns the trimmed name, or fallback when the name is blank.
func FallbackName(name, fallback string) string {
	if n := RobustTrim(name); n != "" {
		return n
	}
	return fallback
}
