// Package engine reconciles home- and host-system registrations. An
// Institution owns every Student of a run. The home roster is ingested first
// and anchors identity; host rows are then joined onto the same students.
package engine

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"crossreg/pkg/logging"
	"crossreg/pkg/schema"
)

// DefaultActiveCodes are the first characters of a host status that mean
// the student is currently enrolled.
var DefaultActiveCodes = []string{"A", "N"}

// Institution owns the run's student collection and the lookup indexes
// used to join host rows onto it.
type Institution struct {
	name        string
	overrides   map[string]string
	activeCodes map[string]bool
	courses     *schema.CourseNormalizer
	logger      *zerolog.Logger

	students map[string]*Student
	byHostID map[string]*Student

	unmatched []UnmatchedRow
	refused   int
}

// Option configures an Institution.
type Option func(*Institution)

// WithName sets the institution name used in log lines.
func WithName(name string) Option {
	return func(i *Institution) {
		i.name = name
	}
}

// WithOverrides supplies the manual home ID -> host ID table consulted
// when a home record's host ID is blank.
func WithOverrides(hostIDs map[string]string) Option {
	return func(i *Institution) {
		i.overrides = make(map[string]string, len(hostIDs))
		for home, host := range hostIDs {
			i.overrides[home] = host
		}
	}
}

// WithActiveCodes replaces the host status codes treated as enrolled.
func WithActiveCodes(codes []string) Option {
	return func(i *Institution) {
		if len(codes) == 0 {
			return
		}
		i.activeCodes = make(map[string]bool, len(codes))
		for _, c := range codes {
			if c = strings.TrimSpace(c); c != "" {
				i.activeCodes[c[:1]] = true
			}
		}
	}
}

// WithCourseNormalizer sets the normalizer applied to both systems' course
// keys. Keys already normalized at ingestion pass through unchanged.
func WithCourseNormalizer(n *schema.CourseNormalizer) Option {
	return func(i *Institution) {
		if n != nil {
			i.courses = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(i *Institution) {
		i.logger = logger
	}
}

// New returns an empty Institution.
func New(opts ...Option) *Institution {
	i := &Institution{
		overrides: map[string]string{},
		students:  make(map[string]*Student),
		byHostID:  make(map[string]*Student),
		courses:   schema.NewCourseNormalizer(nil),
	}
	WithActiveCodes(DefaultActiveCodes)(i)
	for _, opt := range opts {
		opt(i)
	}
	l := logging.OrNop(i.logger).With().Str("institution", i.name).Logger()
	i.logger = &l
	return i
}

// Lookup returns the student with the given home ID.
func (i *Institution) Lookup(homeID string) (*Student, bool) {
	s, ok := i.students[homeID]
	return s, ok
}

// LookupHost returns the student carrying the given host ID, including
// host IDs supplied by the override table.
func (i *Institution) LookupHost(hostID string) (*Student, bool) {
	if hostID == "" {
		return nil, false
	}
	s, ok := i.byHostID[hostID]
	return s, ok
}

// Len returns the number of students.
func (i *Institution) Len() int {
	return len(i.students)
}

// Students returns every student ordered by normalized display name, then
// home ID.
func (i *Institution) Students() []*Student {
	out := make([]*Student, 0, len(i.students))
	for _, s := range i.students {
		out = append(out, s)
	}
	sort.Slice(out, func(a, b int) bool {
		na, nb := schema.NormalizeName(out[a].DisplayName), schema.NormalizeName(out[b].DisplayName)
		if na != nb {
			return na < nb
		}
		return out[a].HomeID < out[b].HomeID
	})
	return out
}

// Unmatched returns the host rows dropped for lack of a home identity.
func (i *Institution) Unmatched() []UnmatchedRow {
	return i.unmatched
}

func (i *Institution) add(s *Student) {
	i.students[s.HomeID] = s
	i.indexHost(s)
}

func (i *Institution) indexHost(s *Student) {
	if s.HostID == "" {
		return
	}
	if _, exists := i.byHostID[s.HostID]; exists {
		i.logger.Warn().
			Str("host_id", s.HostID).
			Str("home_id", s.HomeID).
			Msg("Host ID already claimed by another student; keeping the first")
		return
	}
	i.byHostID[s.HostID] = s
}

func (i *Institution) hostActive(status string) bool {
	status = strings.TrimSpace(status)
	if status == "" {
		return false
	}
	return i.activeCodes[status[:1]]
}
