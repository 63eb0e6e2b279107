package form

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Trim strips surrounding whitespace.
func Trim() Rule {
	return Rule{Name: "trim", sanitize: strings.TrimSpace}
}

// Escape replaces markup characters with HTML entities.
func Escape() Rule {
	return Rule{Name: "escape", sanitize: html.EscapeString}
}

// Required fails on an empty value.
func Required(msg string) Rule {
	return Rule{Name: "required", Msg: msg, check: func(v string) bool { return v != "" }}
}

// MinLen fails when the value has fewer than n characters.
func MinLen(n int, msg string) Rule {
	return Rule{Name: "minLen", Msg: msg, check: func(v string) bool { return utf8.RuneCountInString(v) >= n }}
}

// MaxLen fails when the value has more than n characters.
func MaxLen(n int, msg string) Rule {
	return Rule{Name: "maxLen", Msg: msg, check: func(v string) bool { return utf8.RuneCountInString(v) <= n }}
}

// Alphanumeric fails unless every character is a letter or digit.
func Alphanumeric(msg string) Rule {
	return Rule{Name: "alphanumeric", Msg: msg, check: func(v string) bool {
		if v == "" {
			return false
		}
		for _, r := range v {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return false
			}
		}
		return true
	}}
}

// ISODate fails unless the value is an ISO-8601 date or timestamp.
func ISODate(msg string) Rule {
	return Rule{Name: "isoDate", Msg: msg, check: func(v string) bool {
		_, ok := ParseDate(v)
		return ok
	}}
}

// OneOf fails unless the value equals one of the allowed values.
func OneOf(allowed []string, msg string) Rule {
	return Rule{Name: "oneOf", Msg: msg, check: func(v string) bool {
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04", "2006-01-02T15:04:05"}

// ParseDate accepts YYYY-MM-DD and RFC3339 inputs and returns the calendar
// date as written, at UTC midnight.
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
