package engine

import (
	"strings"

	"crossreg/pkg/schema"
)

// UnmatchedRow is a host row that carried no home identity and so could not
// be joined to any student.
type UnmatchedRow struct {
	HostID string `json:"hostId"`
	Name   string `json:"name"`
	Course string `json:"course"`
	Status string `json:"status"`
}

// IngestStats counts how host rows were joined.
type IngestStats struct {
	HomeRows  int `json:"homeRows"`
	HostRows  int `json:"hostRows"`
	ByHomeID  int `json:"byHomeId"`
	ByHostID  int `json:"byHostId"`
	HostOnly  int `json:"hostOnly"`
	Unmatched int `json:"unmatched"`
	Refused   int `json:"refused"`
}

// IngestHome registers the home roster. It must run before IngestHost: home
// records create the students every host row is joined onto.
func (i *Institution) IngestHome(records []schema.HomeRecord) IngestStats {
	var stats IngestStats
	for _, rec := range records {
		stats.HomeRows++

		s, ok := i.Lookup(rec.HomeID)
		if !ok {
			hostID := rec.HostID
			if hostID == "" {
				hostID = i.overrides[rec.HomeID]
			}
			s = newStudent(rec.HomeID, hostID, rec.Name)
			s.BirthDate = rec.BirthDate
			s.Email = rec.Email
			i.add(s)
		}

		reg := Registration{
			Active:     strings.TrimSpace(rec.AddDrop) == "Add",
			Grade:      strings.TrimSpace(rec.FinalGrade),
			ChangeDate: rec.LastRevision,
		}
		if !s.Register(Home, i.courses.Home(rec.Course), reg) {
			stats.Refused++
			i.refuse(Home, s, rec.Course)
		}
	}

	i.logger.Info().
		Int("rows", stats.HomeRows).
		Int("students", i.Len()).
		Msg("Ingested home roster")
	return stats
}

// IngestHost joins the host roster onto the students created by IngestHome.
// Rows with a blank home identity are set aside as unmatched. Otherwise the
// student is found by home ID, then by host ID; a row matching neither
// creates a host-only student keyed by the identity the host recorded.
func (i *Institution) IngestHost(records []schema.HostRecord) IngestStats {
	var stats IngestStats
	for _, rec := range records {
		stats.HostRows++

		if rec.HomeID == "" {
			stats.Unmatched++
			i.unmatched = append(i.unmatched, UnmatchedRow{
				HostID: rec.HostID,
				Name:   rec.Name,
				Course: rec.Course,
				Status: rec.Status,
			})
			continue
		}

		s, ok := i.Lookup(rec.HomeID)
		switch {
		case ok:
			stats.ByHomeID++
		default:
			if s, ok = i.LookupHost(rec.HostID); ok {
				stats.ByHostID++
				i.logger.Debug().
					Str("host_home_id", rec.HomeID).
					Str("home_id", s.HomeID).
					Str("host_id", rec.HostID).
					Msg("Joined host row by host ID")
			} else {
				stats.HostOnly++
				s = newStudent(rec.HomeID, rec.HostID, rec.Name)
				s.HostOnly = true
				i.add(s)
			}
		}

		if s.HostID == "" && rec.HostID != "" {
			s.HostID = rec.HostID
			i.indexHost(s)
		}
		if s.HostName == "" {
			s.HostName = rec.Name
		}

		reg := Registration{
			Active:     i.hostActive(rec.Status),
			Grade:      strings.TrimSpace(rec.VerifiedGrade),
			ChangeDate: rec.ChangeDate,
		}
		if !s.Register(Host, i.courses.Host(rec.Course), reg) {
			stats.Refused++
			i.refuse(Host, s, rec.Course)
		}
	}

	if stats.Unmatched > 0 {
		i.logger.Warn().
			Int("rows", stats.Unmatched).
			Msg("Dropped host rows without a home identity")
	}
	i.logger.Info().
		Int("rows", stats.HostRows).
		Int("by_home_id", stats.ByHomeID).
		Int("by_host_id", stats.ByHostID).
		Int("host_only", stats.HostOnly).
		Msg("Ingested host roster")
	return stats
}

func (i *Institution) refuse(sys System, s *Student, course string) {
	i.refused++
	i.logger.Warn().
		Str("system", string(sys)).
		Str("home_id", s.HomeID).
		Str("course", course).
		Msg("Course already registered for student; keeping the first row")
}
