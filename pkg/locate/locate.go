// Package locate finds the roster exports a run should read. Exports are
// downloaded by hand into a known folder with a date-stamped name, so a run
// looks them up by glob pattern.
package locate

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	xerrors "crossreg/pkg/errors"
	"crossreg/pkg/logging"
)

// Candidate is a file matching a roster pattern.
type Candidate struct {
	Path    string
	ModTime int64
}

// Roster returns the file in dir matching pattern. With several matches the
// most recently modified one is used and the others are logged so the
// operator can clean up stale downloads. No match is fatal: a reconciliation
// against a missing roster would report every student as a discrepancy.
func Roster(dir, pattern string, logger *zerolog.Logger) (string, error) {
	logger = logging.OrNop(logger)

	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", xerrors.WrapIO("resolve", dir, err)
	}

	candidates, err := Candidates(abs, pattern)
	if err != nil {
		return "", err
	}

	switch len(candidates) {
	case 0:
		return "", xerrors.NewNotFoundError("roster", filepath.Join(abs, pattern))
	case 1:
		logger.Debug().Str("file", candidates[0].Path).Msg("Found roster")
		return candidates[0].Path, nil
	}

	chosen := candidates[0]
	for _, c := range candidates[1:] {
		logger.Warn().
			Str("chosen", chosen.Path).
			Str("ignored", c.Path).
			Msg("More than one roster matched; using the most recent")
	}
	return chosen.Path, nil
}

// Candidates lists the regular files in dir matching pattern, newest first.
// Files with equal modification times are ordered by path.
func Candidates(dir, pattern string) ([]Candidate, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, xerrors.NewValidationError("pattern", pattern, err.Error())
	}

	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, xerrors.WrapIO("stat", m, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, Candidate{Path: m, ModTime: info.ModTime().UnixNano()})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ModTime != candidates[j].ModTime {
			return candidates[i].ModTime > candidates[j].ModTime
		}
		return candidates[i].Path < candidates[j].Path
	})
	return candidates, nil
}
