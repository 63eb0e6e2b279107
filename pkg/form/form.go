// Package form runs ordered sanitizer and validator chains over submitted
// form values. Every rule of every field runs, so a submission reports all
// of its problems at once.
package form

import (
	"net/url"
	"strings"
	"time"
)

// FieldError describes one failed rule for one field.
type FieldError struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Msg   string `json:"msg"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Msg }

// Rule either rewrites a value (sanitizer) or checks it (validator).
type Rule struct {
	Name     string
	Msg      string
	sanitize func(string) string
	check    func(string) bool
}

// Field is one named form field and its ordered rules.
type Field struct {
	Name     string
	Rules    []Rule
	optional bool
	multi    bool
}

// NewField declares a required single-valued field.
func NewField(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

// Optional skips every rule when the submitted value is empty.
func (f Field) Optional() Field {
	f.optional = true
	return f
}

// Multi applies the rules to each submitted value of the field.
func (f Field) Multi() Field {
	f.multi = true
	return f
}

// Schema is an ordered set of fields.
type Schema []Field

// Validate sanitizes and checks values against the schema.
func (s Schema) Validate(values url.Values) Result {
	res := Result{values: make(map[string][]string, len(s))}
	for _, field := range s {
		raw := values[field.Name]
		if !field.multi {
			first := ""
			if len(raw) > 0 {
				first = raw[0]
			}
			raw = []string{first}
		}
		out := make([]string, 0, len(raw))
		for _, value := range raw {
			if field.optional && strings.TrimSpace(value) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, field.run(value, &res.errors))
		}
		res.values[field.Name] = out
	}
	return res
}

func (f Field) run(value string, errs *[]FieldError) string {
	for _, rule := range f.Rules {
		if rule.sanitize != nil {
			value = rule.sanitize(value)
			continue
		}
		if rule.check != nil && !rule.check(value) {
			*errs = append(*errs, FieldError{Field: f.Name, Value: value, Msg: rule.Msg})
		}
	}
	return value
}

// Result holds sanitized values and every error collected.
type Result struct {
	values map[string][]string
	errors []FieldError
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool { return len(r.errors) == 0 }

// Errors returns the collected errors in schema order.
func (r Result) Errors() []FieldError { return r.errors }

// Get returns the first sanitized value of a field.
func (r Result) Get(name string) string {
	if v := r.values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// List returns the non-empty sanitized values of a multi-valued field.
func (r Result) List(name string) []string {
	out := make([]string, 0, len(r.values[name]))
	for _, v := range r.values[name] {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Date parses a field that passed ISODate; empty or invalid input yields nil.
func (r Result) Date(name string) *time.Time {
	t, ok := ParseDate(r.Get(name))
	if !ok {
		return nil
	}
	return &t
}

// HasError reports whether a field failed any rule.
func (r Result) HasError(name string) bool {
	for _, e := range r.errors {
		if e.Field == name {
			return true
		}
	}
	return false
}
