package parser

import (
	"fmt"
	"os"
	"sort"
	"strings"

	xerrors "crossreg/pkg/errors"
)

// Fields maps a header name to the raw cell value of one row.
type Fields map[string]string

// Roster is a roster export grouped as identity -> course key -> fields.
// Rows with an empty identity are kept under the "" key; callers decide
// what to do with them.
type Roster struct {
	Headers  []string
	Entries  map[string]map[string]Fields
	Encoding string
	Warnings []ParseWarning

	// Overwritten counts rows that replaced an earlier row with the same
	// identity and course key.
	Overwritten int
}

// Len returns the number of distinct identities read, including the empty
// identity when present.
func (r *Roster) Len() int {
	return len(r.Entries)
}

// Identities returns the identities in sorted order.
func (r *Roster) Identities() []string {
	ids := make([]string, 0, len(r.Entries))
	for id := range r.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Courses returns the course keys of identity in sorted order.
func (r *Roster) Courses(identity string) []string {
	courses := make([]string, 0, len(r.Entries[identity]))
	for c := range r.Entries[identity] {
		courses = append(courses, c)
	}
	sort.Strings(courses)
	return courses
}

// Lookup returns the fields for an identity and course key.
func (r *Roster) Lookup(identity, course string) (Fields, bool) {
	courses, ok := r.Entries[identity]
	if !ok {
		return nil, false
	}
	f, ok := courses[course]
	return f, ok
}

// Option configures roster parsing.
type Option func(*options)

type options struct {
	courseKey func(string) string
	source    string
}

// WithCourseKey normalizes course keys before grouping, so rows whose raw
// keys collapse to the same canonical key also obey last-write-wins.
func WithCourseKey(fn func(string) string) Option {
	return func(o *options) {
		o.courseKey = fn
	}
}

// WithSource names the roster in error messages.
func WithSource(name string) Option {
	return func(o *options) {
		o.source = name
	}
}

// ParseRoster groups CSV rows by the identity and course-key columns.
// Each row contributes exactly one (identity, course) entry; a later row
// with the same pair replaces the earlier one.
func ParseRoster(data []byte, identityCol, courseCol int, opts ...Option) (*Roster, error) {
	o := options{courseKey: func(s string) string { return s }}
	for _, opt := range opts {
		opt(&o)
	}

	table, err := ReadTable(data)
	if err != nil {
		if pe, ok := err.(*xerrors.ParseError); ok && o.source != "" {
			pe.File = o.source
		}
		return nil, err
	}

	for _, col := range []int{identityCol, courseCol} {
		if col < 0 || col >= len(table.Headers) {
			return nil, xerrors.NewValidationError("column", col,
				fmt.Sprintf("column %d out of range for %d-column roster %s", col, len(table.Headers), o.source))
		}
	}

	roster := &Roster{
		Headers:  table.Headers,
		Entries:  make(map[string]map[string]Fields),
		Encoding: table.Encoding,
		Warnings: table.Warnings,
	}

	for _, row := range table.Rows {
		identity := strings.TrimSpace(row.Fields[identityCol])
		course := o.courseKey(row.Fields[courseCol])

		courses, ok := roster.Entries[identity]
		if !ok {
			courses = make(map[string]Fields)
			roster.Entries[identity] = courses
		}
		if _, dup := courses[course]; dup {
			roster.Overwritten++
		}

		fields := make(Fields, len(table.Headers))
		for i, h := range table.Headers {
			fields[h] = row.Fields[i]
		}
		courses[course] = fields
	}

	return roster, nil
}

// ReadRosterFile reads and parses the roster at path.
func ReadRosterFile(path string, identityCol, courseCol int, opts ...Option) (*Roster, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path chosen by the operator
	if err != nil {
		return nil, xerrors.WrapIO("read", path, err)
	}
	return ParseRoster(data, identityCol, courseCol, append([]Option{WithSource(path)}, opts...)...)
}
