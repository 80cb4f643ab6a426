package schema

// HomeRecord is one (student, course) row of the home system's roster.
type HomeRecord struct {
	HomeID       string `json:"homeId"`
	Course       string `json:"course"`
	AddDrop      string `json:"addDrop"`
	FinalGrade   string `json:"finalGrade"`
	LastRevision string `json:"lastRevision"`
	Name         string `json:"name"`
	HostID       string `json:"hostId"`
	BirthDate    string `json:"birthDate"`
	Email        string `json:"email"`
}

// HostRecord is one (student, course) row of the host system's roster.
// HomeID is the home identity as recorded by host staff and may be blank.
type HostRecord struct {
	HomeID        string `json:"homeId"`
	Course        string `json:"course"`
	Status        string `json:"status"`
	VerifiedGrade string `json:"verifiedGrade"`
	ChangeDate    string `json:"changeDate"`
	Name          string `json:"name"`
	HostID        string `json:"hostId"`
}

// HomeLayout locates the home roster's columns. The identity and course
// columns are positional; every other field is found by header name.
type HomeLayout struct {
	IdentityColumn int    `json:"identityColumn"`
	CourseColumn   int    `json:"courseColumn"`
	AddDrop        string `json:"addDrop"`
	FinalGrade     string `json:"finalGrade"`
	LastRevision   string `json:"lastRevision"`
	Name           string `json:"name"`
	HostID         string `json:"hostId"`
	BirthDate      string `json:"birthDate"`
	Email          string `json:"email"`
}

// HostLayout locates the host roster's columns.
type HostLayout struct {
	IdentityColumn int    `json:"identityColumn"`
	CourseColumn   int    `json:"courseColumn"`
	Status         string `json:"status"`
	VerifiedGrade  string `json:"verifiedGrade"`
	ChangeDate     string `json:"changeDate"`
	Name           string `json:"name"`
	HostID         string `json:"hostId"`
}

// DefaultHomeLayout returns the layout of the home system's integrated
// offerings export.
func DefaultHomeLayout() HomeLayout {
	return HomeLayout{
		IdentityColumn: 9,
		CourseColumn:   6,
		AddDrop:        "Add or Drop",
		FinalGrade:     "Final Grade",
		LastRevision:   "Last Revision",
		Name:           "Student",
		HostID:         "Host ID",
		BirthDate:      "DOB",
		Email:          "Email",
	}
}

// DefaultHostLayout returns the layout of the host system's term
// registrations export.
func DefaultHostLayout() HostLayout {
	return HostLayout{
		IdentityColumn: 0,
		CourseColumn:   3,
		Status:         "Status- Current",
		VerifiedGrade:  "Grade- Verified",
		ChangeDate:     "Chg- Date",
		Name:           "Name",
		HostID:         "Host Student ID",
	}
}
