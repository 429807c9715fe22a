// Package extract recovers named sections from free-form model output.
//
// Model output format is not contractually guaranteed, so extraction
// degrades through an ordered list of strategies instead of failing:
// explicit sentinel markers, then a header-pattern match, then a
// case-insensitive keyword search, then the whole input. Callers never
// see an error from this package.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// BeginMarker returns the sentinel line a cooperating prompt asks the
// model to emit before a named section.
func BeginMarker(name string) string {
	return fmt.Sprintf("=== BEGIN %s ===", strings.ToUpper(name))
}

// EndMarker returns the closing sentinel for a named section.
func EndMarker(name string) string {
	return fmt.Sprintf("=== END %s ===", strings.ToUpper(name))
}

// BetweenMarkers returns the trimmed substring strictly between the first
// occurrence of begin and the next occurrence of end after it. The second
// return value reports whether both markers were found.
func BetweenMarkers(text, begin, end string) (string, bool) {
	start := strings.Index(text, begin)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(begin):]
	stop := strings.Index(rest, end)
	if stop < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:stop]), true
}

// Section pulls the named section out of text, falling back through the
// strategies in fixed order. The last resort returns the entire input
// trimmed, so the result is non-empty whenever the input is.
func Section(text, name string) string {
	if s, ok := BetweenMarkers(text, BeginMarker(name), EndMarker(name)); ok {
		return s
	}
	if s, ok := sectionByHeader(text, name); ok {
		return s
	}
	if s, ok := sectionByKeyword(text, name); ok {
		return s
	}
	return strings.TrimSpace(text)
}

// sectionByHeader matches a line that is just the section name, tolerant
// of leading list/heading punctuation ("### Detailed Solution", "* 2.
// Verification Log:", etc.), and returns everything after that line.
func sectionByHeader(text, name string) (string, bool) {
	pattern := `(?mi)^[\s#*>\-=\d.)]*` + regexp.QuoteMeta(name) + `[\s:#*=]*$`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", false
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		rest = ""
	}
	return strings.TrimSpace(rest), true
}

// sectionByKeyword finds the section name anywhere in the text,
// case-insensitively, and returns everything after the next newline.
func sectionByKeyword(text, name string) (string, bool) {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(name))
	if idx < 0 {
		return "", false
	}
	rest := text[idx:]
	nl := strings.Index(rest, "\n")
	if nl < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[nl+1:]), true
}
