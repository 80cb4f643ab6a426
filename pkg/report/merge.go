// Package report turns a reconciliation result into the advisory report an
// operator works through by hand.
package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"crossreg/pkg/engine"
)

// Columns are the headings of every update table.
var Columns = []string{"Name", "Home ID", "Host ID", "Class", "Action", "Grade", "Update Date"}

// Labels are the names the report uses for the two systems.
type Labels struct {
	Home string `json:"home"`
	Host string `json:"host"`
}

// DefaultLabels returns the generic system names.
func DefaultLabels() Labels {
	return Labels{Home: "Home System", Host: "Host System"}
}

// Of returns the label for sys.
func (l Labels) Of(sys engine.System) string {
	if sys == engine.Home {
		return l.Home
	}
	return l.Host
}

// Section is one titled update table.
type Section struct {
	Title   string               `json:"title"`
	Target  engine.System        `json:"target"`
	Updates []engine.Discrepancy `json:"updates"`
}

// Report is the assembled report, ready to render.
type Report struct {
	RunID       string                 `json:"runId"`
	Labels      Labels                 `json:"labels"`
	Sections    []Section              `json:"sections"`
	Missing     []engine.MissingNotice `json:"missing"`
	Conflicts   []engine.NameConflict  `json:"conflicts"`
	Suggestions []engine.Suggestion    `json:"suggestions"`
	Review      []string               `json:"review"`
	Stats       engine.Stats           `json:"stats"`
	Summary     string                 `json:"summary"`
}

// Build assembles a report from res. The host system's updates come first:
// those are the ones the operator enters, and the home system only needs
// checking for courses the host lists on its own.
func Build(res *engine.Result, labels Labels, runID string) *Report {
	if labels.Home == "" {
		labels.Home = DefaultLabels().Home
	}
	if labels.Host == "" {
		labels.Host = DefaultLabels().Host
	}

	rep := &Report{
		RunID:       runID,
		Labels:      labels,
		Missing:     res.Missing,
		Conflicts:   res.Conflicts,
		Suggestions: res.Suggestions,
		Review:      res.Review,
		Stats:       res.Stats,
	}
	for _, sys := range []engine.System{engine.Host, engine.Home} {
		rep.Sections = append(rep.Sections, Section{
			Title:   fmt.Sprintf("Updates for %s", labels.Of(sys)),
			Target:  sys,
			Updates: res.Updates[sys],
		})
	}
	rep.Summary = Summary(res.Stats)
	return rep
}

var printer = message.NewPrinter(language.English)

// Summary formats the one-line run summary with grouped thousands.
func Summary(s engine.Stats) string {
	return printer.Sprintf("%d students (%d active, %d host only), %d updates, %d missing from host, %d host rows unmatched",
		s.Students, s.Active, s.HostOnly, s.Updates, s.Missing, s.Unmatched)
}
