package schema

import (
	"strings"

	xerrors "crossreg/pkg/errors"
	"crossreg/pkg/parser"
)

// headerIndex resolves layout header names against a roster's actual
// headers. Exports drift in case and punctuation between terms ("Chg- Date"
// vs "CHG DATE"), so names are compared after normalizeHeader.
type headerIndex map[string]string

func newHeaderIndex(headers []string) headerIndex {
	idx := make(headerIndex, len(headers))
	for _, h := range headers {
		n := normalizeHeader(h)
		if _, exists := idx[n]; !exists {
			idx[n] = h
		}
	}
	return idx
}

// resolve maps every wanted header name to the roster's spelling of it.
// A missing header is fatal: a field the engine depends on cannot be
// defaulted.
func (idx headerIndex) resolve(source string, wanted ...string) (map[string]string, error) {
	out := make(map[string]string, len(wanted))
	var missing []string
	for _, w := range wanted {
		actual, ok := idx[normalizeHeader(w)]
		if !ok {
			missing = append(missing, w)
			continue
		}
		out[w] = actual
	}
	if len(missing) > 0 {
		return nil, xerrors.NewValidationError(strings.Join(missing, ", "), source,
			"column missing from "+source+" roster header")
	}
	return out, nil
}

// normalizeHeader lowercases a header string and strips whitespace, underscores, and hyphens.
func normalizeHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// HomeRecords translates a parsed home roster into typed records, ordered
// by identity then course.
func HomeRecords(r *parser.Roster, l HomeLayout) ([]HomeRecord, error) {
	cols, err := newHeaderIndex(r.Headers).resolve("home",
		l.AddDrop, l.FinalGrade, l.LastRevision, l.Name, l.HostID, l.BirthDate, l.Email)
	if err != nil {
		return nil, err
	}

	var records []HomeRecord
	for _, id := range r.Identities() {
		for _, course := range r.Courses(id) {
			f, _ := r.Lookup(id, course)
			records = append(records, HomeRecord{
				HomeID:       id,
				Course:       course,
				AddDrop:      strings.TrimSpace(f[cols[l.AddDrop]]),
				FinalGrade:   strings.TrimSpace(f[cols[l.FinalGrade]]),
				LastRevision: FormatDate(f[cols[l.LastRevision]]),
				Name:         strings.TrimSpace(f[cols[l.Name]]),
				HostID:       strings.TrimSpace(f[cols[l.HostID]]),
				BirthDate:    FormatDate(f[cols[l.BirthDate]]),
				Email:        strings.TrimSpace(f[cols[l.Email]]),
			})
		}
	}
	return records, nil
}

// HostRecords translates a parsed host roster into typed records, ordered
// by identity then course. Rows with a blank identity are included with an
// empty HomeID.
func HostRecords(r *parser.Roster, l HostLayout) ([]HostRecord, error) {
	cols, err := newHeaderIndex(r.Headers).resolve("host",
		l.Status, l.VerifiedGrade, l.ChangeDate, l.Name, l.HostID)
	if err != nil {
		return nil, err
	}

	var records []HostRecord
	for _, id := range r.Identities() {
		for _, course := range r.Courses(id) {
			f, _ := r.Lookup(id, course)
			records = append(records, HostRecord{
				HomeID:        id,
				Course:        course,
				Status:        strings.TrimSpace(f[cols[l.Status]]),
				VerifiedGrade: strings.TrimSpace(f[cols[l.VerifiedGrade]]),
				ChangeDate:    FormatDate(f[cols[l.ChangeDate]]),
				Name:          strings.TrimSpace(f[cols[l.Name]]),
				HostID:        strings.TrimSpace(f[cols[l.HostID]]),
			})
		}
	}
	return records, nil
}
