package engine

import "crossreg/pkg/schema"

// Action is what the operator must do to the target system.
type Action string

const (
	ActionAdd         Action = "Add"
	ActionDrop        Action = "Drop"
	ActionUpdateGrade Action = "Update with Grade"
	ActionNeverAdded  Action = "Never Added"
	ActionNotInHome   Action = "Appears in host but not home"
)

// Discrepancy is one actionable row: Target is the system that needs the
// update.
type Discrepancy struct {
	Target System `json:"target"`
	Name   string `json:"name"`
	HomeID string `json:"homeId"`
	HostID string `json:"hostId"`
	Course string `json:"course"`
	Action Action `json:"action"`
	Grade  string `json:"grade"`
	Date   string `json:"date"`
}

// Row returns the presentation row [Name, Home ID, Host ID, Class, Action,
// Grade, Update Date] with both IDs zero-padded.
func (d Discrepancy) Row() []string {
	return []string{
		d.Name,
		schema.PadID(d.HomeID, schema.HomeIDWidth),
		schema.PadID(d.HostID, schema.HostIDWidth),
		d.Course,
		string(d.Action),
		d.Grade,
		d.Date,
	}
}

func statusAction(active bool) Action {
	if active {
		return ActionAdd
	}
	return ActionDrop
}

// Reckon compares the student's two registration sets and returns the
// discrepancies, home-to-host first. Both directions are evaluated
// independently and use no state outside the student.
func (s *Student) Reckon() []Discrepancy {
	var out []Discrepancy

	row := func(target System, course string, action Action, reg Registration) Discrepancy {
		return Discrepancy{
			Target: target,
			Name:   s.DisplayName,
			HomeID: s.HomeID,
			HostID: s.HostID,
			Course: course,
			Action: action,
			Grade:  reg.Grade,
			Date:   reg.ChangeDate,
		}
	}

	for _, course := range s.Courses(Home) {
		home, _ := s.Registration(Home, course)
		host, ok := s.Registration(Host, course)
		if !ok {
			if home.Active {
				out = append(out, row(Host, course, ActionNeverAdded, home))
			}
			continue
		}
		// Status and grade are separate triggers; a course can need both.
		if home.Active != host.Active {
			out = append(out, row(Host, course, statusAction(home.Active), home))
		}
		if home.Grade != host.Grade {
			out = append(out, row(Host, course, ActionUpdateGrade, home))
		}
	}

	for _, course := range s.Courses(Host) {
		if _, ok := s.Registration(Home, course); ok {
			continue
		}
		if host, _ := s.Registration(Host, course); host.Active {
			out = append(out, row(Home, course, ActionNotInHome, host))
		}
	}

	return out
}
