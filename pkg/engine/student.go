package engine

import "sort"

// System identifies which record system a registration came from.
type System string

const (
	// Home is the student's own institution, authoritative for identity.
	Home System = "home"
	// Host is the partner institution where cross-registrations must also appear.
	Host System = "host"
)

// Registration is one system's view of a student's enrollment in a course.
type Registration struct {
	Active     bool   `json:"active"`
	Grade      string `json:"grade"`
	ChangeDate string `json:"changeDate"`
}

// Student is the unit of reconciliation: one person, both systems'
// registrations keyed by canonical course-section key.
type Student struct {
	HomeID      string `json:"homeId"`
	HostID      string `json:"hostId"`
	DisplayName string `json:"displayName"`
	BirthDate   string `json:"birthDate"`
	Email       string `json:"email"`

	// HostName is the name the host roster records, kept for conflict notes.
	HostName string `json:"hostName,omitempty"`

	// HostOnly is set when the student has no home-system footprint.
	HostOnly bool `json:"hostOnly"`

	// Active is true iff any home registration is active. It is set as
	// registrations arrive and never cleared.
	Active bool `json:"active"`

	Registrations map[System]map[string]Registration `json:"registrations"`
}

func newStudent(homeID, hostID, name string) *Student {
	return &Student{
		HomeID:      homeID,
		HostID:      hostID,
		DisplayName: name,
		Registrations: map[System]map[string]Registration{
			Home: {},
			Host: {},
		},
	}
}

// Register records a registration for course in sys. A (system, course)
// pair is written at most once; a second write is refused and reported by
// the false return.
func (s *Student) Register(sys System, course string, reg Registration) bool {
	regs := s.Registrations[sys]
	if _, exists := regs[course]; exists {
		return false
	}
	regs[course] = reg
	if sys == Home && reg.Active {
		s.Active = true
	}
	return true
}

// Registration returns the registration for course in sys.
func (s *Student) Registration(sys System, course string) (Registration, bool) {
	reg, ok := s.Registrations[sys][course]
	return reg, ok
}

// HasHostData reports whether the host roster holds any row for the student.
func (s *Student) HasHostData() bool {
	return len(s.Registrations[Host]) > 0
}

// Courses returns the course keys registered in sys, sorted.
func (s *Student) Courses(sys System) []string {
	courses := make([]string, 0, len(s.Registrations[sys]))
	for c := range s.Registrations[sys] {
		courses = append(courses, c)
	}
	sort.Strings(courses)
	return courses
}
