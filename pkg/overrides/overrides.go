// Package overrides loads the manual correction table maintained by the
// registrar's office: host IDs for students whose home record lacks one,
// and section spellings that must be treated as the same course.
package overrides

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	xerrors "crossreg/pkg/errors"
)

// Table is the parsed override file.
//
//	host_ids:
//	  "000001234": "1234567"
//	section_aliases:
//	  "MUS*101*A1": "MUS-101-A"
type Table struct {
	// HostIDs maps a home ID to the host ID to use when the home roster
	// leaves it blank.
	HostIDs map[string]string `yaml:"host_ids"`

	// SectionAliases maps an alternate section spelling to its canonical key.
	SectionAliases map[string]string `yaml:"section_aliases"`
}

// Empty returns a table with no overrides.
func Empty() *Table {
	return &Table{
		HostIDs:        map[string]string{},
		SectionAliases: map[string]string{},
	}
}

// Load reads the override file at path. An empty path or a missing file
// yields an empty table; overrides are opt-in.
func Load(path string) (*Table, error) {
	if path == "" {
		return Empty(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path chosen by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, xerrors.WrapIO("read", path, err)
	}

	return Parse(data, path)
}

// Parse decodes override YAML. source names the input in error messages.
func Parse(data []byte, source string) (*Table, error) {
	t := Empty()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, xerrors.WrapParse("yaml", source, err)
	}
	if t.HostIDs == nil {
		t.HostIDs = map[string]string{}
	}
	if t.SectionAliases == nil {
		t.SectionAliases = map[string]string{}
	}

	for home, host := range t.HostIDs {
		if strings.TrimSpace(home) == "" || strings.TrimSpace(host) == "" {
			return nil, xerrors.NewValidationError("host_ids", home,
				"override entries need both a home ID and a host ID")
		}
	}
	return t, nil
}

