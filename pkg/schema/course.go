package schema

import (
	"regexp"
	"strings"
)

// DefaultSectionAliases are spellings of the same section that the two
// systems are known to disagree on, keyed by the alternate spelling.
var DefaultSectionAliases = map[string]string{
	"MUS-230-ENS1": "MUS-230-ENS",
}

var (
	separatorRe = regexp.MustCompile(`[\s*_]+`)
	dashRunRe   = regexp.MustCompile(`-{2,}`)
)

// CourseNormalizer turns each system's course-section spelling into the
// canonical key both registration sets are matched on.
type CourseNormalizer struct {
	aliases map[string]string
}

// NewCourseNormalizer returns a normalizer with the built-in aliases plus
// extra (alternate -> canonical). Both sides of extra are cleaned first.
func NewCourseNormalizer(extra map[string]string) *CourseNormalizer {
	n := &CourseNormalizer{aliases: make(map[string]string, len(DefaultSectionAliases)+len(extra))}
	for alt, canonical := range DefaultSectionAliases {
		n.aliases[alt] = canonical
	}
	for alt, canonical := range extra {
		n.aliases[clean(alt)] = clean(canonical)
	}
	return n
}

// Home normalizes a home-system course key.
func (n *CourseNormalizer) Home(raw string) string {
	return n.alias(clean(raw))
}

// Host normalizes a host-system course key. The host export separates
// subject, number and section with '*' or spaces instead of '-'.
func (n *CourseNormalizer) Host(raw string) string {
	return n.alias(clean(raw))
}

// Aliases returns the number of alias rules in effect.
func (n *CourseNormalizer) Aliases() int {
	return len(n.aliases)
}

func (n *CourseNormalizer) alias(key string) string {
	if canonical, ok := n.aliases[key]; ok {
		return canonical
	}
	return key
}

func clean(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = separatorRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
