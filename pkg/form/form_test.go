package form

import (
	"net/url"
	"testing"
	"time"
)

var authorSchema = Schema{
	NewField("first_name", Trim(), Required("First name must be specified."), Escape(), Alphanumeric("First name has non-alphanumeric characters.")),
	NewField("family_name", Trim(), Required("Family name must be specified."), Escape(), Alphanumeric("Family name has non-alphanumeric characters.")),
	NewField("date_of_birth", Trim(), ISODate("Invalid date of birth")).Optional(),
}

func TestValidateCollectsEveryError(t *testing.T) {
	res := authorSchema.Validate(url.Values{
		"first_name":    {"  "},
		"family_name":   {"O'Brien"},
		"date_of_birth": {"not-a-date"},
	})
	if res.Valid() {
		t.Fatalf("expected validation failure")
	}
	want := []string{
		"First name must be specified.",
		"First name has non-alphanumeric characters.",
		"Family name has non-alphanumeric characters.",
		"Invalid date of birth",
	}
	errs := res.Errors()
	if len(errs) != len(want) {
		t.Fatalf("errors = %+v, want %d entries", errs, len(want))
	}
	for i, msg := range want {
		if errs[i].Msg != msg {
			t.Fatalf("error[%d] = %q, want %q", i, errs[i].Msg, msg)
		}
	}
	if got := res.Get("family_name"); got != "O&#39;Brien" {
		t.Fatalf("family_name not escaped: %q", got)
	}
}

func TestValidateOptionalDateAcceptsEmpty(t *testing.T) {
	res := authorSchema.Validate(url.Values{
		"first_name":  {" Jane "},
		"family_name": {"Austen"},
	})
	if !res.Valid() {
		t.Fatalf("unexpected errors: %+v", res.Errors())
	}
	if got := res.Get("first_name"); got != "Jane" {
		t.Fatalf("first_name = %q, want trimmed", got)
	}
	if d := res.Date("date_of_birth"); d != nil {
		t.Fatalf("expected nil date, got %v", d)
	}
}

func TestValidateParsesDates(t *testing.T) {
	res := authorSchema.Validate(url.Values{
		"first_name":    {"Jane"},
		"family_name":   {"Austen"},
		"date_of_birth": {"1775-12-16"},
	})
	d := res.Date("date_of_birth")
	if d == nil {
		t.Fatalf("expected parsed date")
	}
	if !d.Equal(time.Date(1775, time.December, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", d)
	}
}

func TestValidateMultiField(t *testing.T) {
	schema := Schema{NewField("genre", Escape()).Multi()}
	res := schema.Validate(url.Values{"genre": {"g1", "", "<g2>"}})
	got := res.List("genre")
	if len(got) != 2 || got[0] != "g1" || got[1] != "&lt;g2&gt;" {
		t.Fatalf("genre list = %q", got)
	}
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value string
		ok    bool
	}{
		{name: "min length short", rule: MinLen(3, "short"), value: "ab", ok: false},
		{name: "min length counts runes", rule: MinLen(3, "short"), value: "äöü", ok: true},
		{name: "max length", rule: MaxLen(3, "long"), value: "abcd", ok: false},
		{name: "one of", rule: OneOf([]string{"Available", "Loaned"}, "bad"), value: "Loaned", ok: true},
		{name: "one of rejects", rule: OneOf([]string{"Available"}, "bad"), value: "Lost", ok: false},
		{name: "rfc3339 date", rule: ISODate("bad"), value: "2024-02-03T10:00:00Z", ok: true},
		{name: "unicode letters", rule: Alphanumeric("bad"), value: "Gabriel3", ok: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.check(tc.value); got != tc.ok {
				t.Fatalf("check(%q) = %v, want %v", tc.value, got, tc.ok)
			}
		})
	}
}

func TestParseDateKeepsWrittenCalendarDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1990-05-01", "1990-05-01"},
		{"1990-05-01T00:30:00+02:00", "1990-05-01"},
		{"1990-05-01T23:30:00-05:00", "1990-05-01"},
		{"1990-05-01T12:00", "1990-05-01"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseDate(tc.in)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tc.in)
			}
			if got.Location() != time.UTC || got.Hour() != 0 {
				t.Fatalf("ParseDate(%q) = %v, want UTC midnight", tc.in, got)
			}
			if s := got.Format("2006-01-02"); s != tc.want {
				t.Fatalf("ParseDate(%q) = %s, want %s", tc.in, s, tc.want)
			}
		})
	}
}
