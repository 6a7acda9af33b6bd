// Package validation checks flat form input against declarative schemas.
package validation

import (
	"net/url"
	"sort"
)

// Form is a flat mapping from field name to submitted value, as produced by
// a browser form.
type Form map[string]string

// FormFromValues flattens parsed form values. When a key repeats, the last
// value wins.
func FormFromValues(values url.Values) Form {
	form := make(Form, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		form[k] = v[len(v)-1]
	}
	return form
}

// FieldErrors maps a field name to its ordered error messages.
type FieldErrors map[string][]string

// Add appends msg to the errors for field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Fields returns the names of the failing fields, sorted.
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check validates one raw field value. present is false when the field was
// not submitted at all. It returns the normalized value, or a non-empty
// message on failure.
type Check func(raw string, present bool) (value any, msg string)

// Field binds a Check to a field name.
type Field struct {
	Name  string
	Check Check
}

// Schema is an ordered set of field checks.
type Schema struct {
	fields []Field
}

// Object builds a schema from fields.
func Object(fields ...Field) Schema {
	return Schema{fields: fields}
}

// Omit returns a copy of s without the named fields.
func (s Schema) Omit(names ...string) Schema {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if !skip[f.Name] {
			out = append(out, f)
		}
	}
	return Schema{fields: out}
}

// Fields lists the schema's field names in declaration order.
func (s Schema) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// SafeParse runs every check against form. Fields not named by the schema are
// ignored. It returns either all normalized values or the field errors, never
// both.
func (s Schema) SafeParse(form Form) (map[string]any, FieldErrors) {
	values := make(map[string]any, len(s.fields))
	errs := FieldErrors{}
	for _, f := range s.fields {
		raw, present := form[f.Name]
		v, msg := f.Check(raw, present)
		if msg != "" {
			errs.Add(f.Name, msg)
			continue
		}
		values[f.Name] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}
