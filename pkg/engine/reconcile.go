package engine

import (
	"sort"

	"crossreg/pkg/schema"
)

// MissingNotice reports an active home student the host roster has no row
// for at all. Such a student most likely needs a host account created, so
// the notice carries everything the operator needs to request one.
type MissingNotice struct {
	Name      string `json:"name"`
	HomeID    string `json:"homeId"`
	HostID    string `json:"hostId"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`

	// HostIDKnown is set when a host ID exists (entered by staff or from the
	// override file) even though the host roster lists no rows for it.
	HostIDKnown bool `json:"hostIdKnown"`

	HomeRegistrations []CourseRegistration `json:"homeRegistrations"`
}

// CourseRegistration is a registration with its course key.
type CourseRegistration struct {
	Course string `json:"course"`
	Registration
}

// Stats summarizes a reconciliation.
type Stats struct {
	Students    int `json:"students"`
	Active      int `json:"active"`
	HostOnly    int `json:"hostOnly"`
	Updates     int `json:"updates"`
	Missing     int `json:"missing"`
	Unmatched   int `json:"unmatched"`
	Conflicts   int `json:"conflicts"`
	Suggestions int `json:"suggestions"`
	Refused     int `json:"refused"`
}

// Result is everything a run reports.
type Result struct {
	Updates     map[System][]Discrepancy `json:"updates"`
	Missing     []MissingNotice          `json:"missing"`
	Conflicts   []NameConflict           `json:"conflicts"`
	Suggestions []Suggestion             `json:"suggestions"`
	// Review lists host IDs an operator has to check by hand: rows dropped
	// for lack of a home identity and students known only to the host.
	Review []string `json:"review"`
	Stats  Stats    `json:"stats"`
}

// MissingFromHost returns a notice for every active home student with no
// host registrations. Host-only students are never active.
func (i *Institution) MissingFromHost() []MissingNotice {
	var out []MissingNotice
	for _, s := range i.Students() {
		if !s.Active || s.HasHostData() {
			continue
		}
		n := MissingNotice{
			Name:        s.DisplayName,
			HomeID:      s.HomeID,
			HostID:      s.HostID,
			BirthDate:   s.BirthDate,
			Email:       s.Email,
			HostIDKnown: s.HostID != "",
		}
		for _, course := range s.Courses(Home) {
			reg, _ := s.Registration(Home, course)
			n.HomeRegistrations = append(n.HomeRegistrations, CourseRegistration{
				Course:       course,
				Registration: reg,
			})
		}
		out = append(out, n)
	}
	return out
}

// Reconcile diffs every student and gathers the report. It always evaluates
// every student; nothing it finds is an error.
func (i *Institution) Reconcile() *Result {
	res := &Result{
		Updates: map[System][]Discrepancy{Host: {}, Home: {}},
	}

	review := map[string]bool{}
	for _, s := range i.Students() {
		res.Stats.Students++
		if s.Active {
			res.Stats.Active++
		}
		if s.HostOnly {
			res.Stats.HostOnly++
			if s.HostID != "" {
				review[s.HostID] = true
			}
		}
		for _, d := range s.Reckon() {
			res.Updates[d.Target] = append(res.Updates[d.Target], d)
		}
	}
	for _, u := range i.unmatched {
		if u.HostID != "" {
			review[u.HostID] = true
		}
	}

	for sys := range res.Updates {
		sortDiscrepancies(res.Updates[sys])
		res.Stats.Updates += len(res.Updates[sys])
	}

	res.Missing = i.MissingFromHost()
	res.Conflicts = i.DetectConflicts()
	res.Suggestions = i.Suggestions()

	res.Review = make([]string, 0, len(review))
	for id := range review {
		res.Review = append(res.Review, id)
	}
	sort.Strings(res.Review)

	res.Stats.Missing = len(res.Missing)
	res.Stats.Unmatched = len(i.unmatched)
	res.Stats.Conflicts = len(res.Conflicts)
	res.Stats.Suggestions = len(res.Suggestions)
	res.Stats.Refused = i.refused

	i.logger.Info().
		Int("students", res.Stats.Students).
		Int("updates", res.Stats.Updates).
		Int("missing", res.Stats.Missing).
		Int("review", len(res.Review)).
		Msg("Reconciled rosters")
	return res
}

func sortDiscrepancies(ds []Discrepancy) {
	sort.SliceStable(ds, func(a, b int) bool {
		na, nb := schema.NormalizeName(ds[a].Name), schema.NormalizeName(ds[b].Name)
		if na != nb {
			return na < nb
		}
		if ds[a].HomeID != ds[b].HomeID {
			return ds[a].HomeID < ds[b].HomeID
		}
		if ds[a].Course != ds[b].Course {
			return ds[a].Course < ds[b].Course
		}
		return ds[a].Action < ds[b].Action
	})
}
