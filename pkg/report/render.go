package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"crossreg/internal/style"
	"crossreg/pkg/engine"
	"crossreg/pkg/schema"
)

// RenderOptions control the text output.
type RenderOptions struct {
	NoColor bool
}

func actionStyle(a engine.Action) lipgloss.Style {
	switch a {
	case engine.ActionAdd, engine.ActionNeverAdded:
		return style.Success
	case engine.ActionDrop, engine.ActionNotInHome:
		return style.Error
	default:
		return style.Warning
	}
}

// Render writes the report as text tables.
func Render(w io.Writer, rep *Report, opts RenderOptions) error {
	r := &renderer{w: w, p: style.Palette{NoColor: opts.NoColor}}

	for _, sec := range rep.Sections {
		r.heading(sec.Title)
		if len(sec.Updates) == 0 {
			r.line("%s No updates needed", r.p.Prefix(style.SuccessPrefix))
			r.blank()
			continue
		}
		if err := r.table(sec.Updates); err != nil {
			return err
		}
		r.blank()
	}

	if len(rep.Missing) > 0 {
		r.heading(fmt.Sprintf("Active students missing from %s", rep.Labels.Host))
		for _, n := range rep.Missing {
			r.notice(n)
		}
		r.blank()
	}

	if len(rep.Conflicts) > 0 {
		r.heading("Name differences")
		for _, c := range rep.Conflicts {
			r.line("%s %s (%s) is %q in %s; keeping %q",
				r.p.Prefix(style.ArrowPrefix),
				c.HomeName, schema.PadID(c.HomeID, schema.HomeIDWidth),
				c.HostName, rep.Labels.Host, c.HomeName)
		}
		r.blank()
	}

	if len(rep.Suggestions) > 0 {
		r.heading("Possible matches")
		for _, s := range rep.Suggestions {
			names := make([]string, 0, len(s.Candidates))
			for _, c := range s.Candidates {
				names = append(names, fmt.Sprintf("%s (%s, %.0f%%)",
					c.Name, schema.PadID(c.HomeID, schema.HomeIDWidth), c.Score*100))
			}
			r.line("%s %s %s may be %s",
				r.p.Prefix(style.ArrowPrefix),
				s.Name, orNone(schema.PadID(s.HostID, schema.HostIDWidth)),
				strings.Join(names, " or "))
		}
		r.blank()
	}

	if len(rep.Review) > 0 {
		r.heading(fmt.Sprintf("%s IDs to review", rep.Labels.Host))
		for _, id := range rep.Review {
			r.line("%s", schema.PadID(id, schema.HostIDWidth))
		}
		r.blank()
	}

	r.line("%s", r.p.Render(style.Dim, rep.Summary))
	return r.err
}

type renderer struct {
	w   io.Writer
	p   style.Palette
	err error
}

func (r *renderer) line(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *renderer) blank() {
	r.line("")
}

func (r *renderer) heading(title string) {
	r.line("%s", r.p.Render(style.Bold, title))
}

func (r *renderer) table(updates []engine.Discrepancy) error {
	if r.err != nil {
		return r.err
	}

	table := tablewriter.NewTable(r.w)
	headers := make([]any, len(Columns))
	for i, h := range Columns {
		headers[i] = h
	}
	table.Header(headers...)

	for _, d := range updates {
		row := d.Row()
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		cells[4] = r.p.Render(actionStyle(d.Action), row[4])
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

func (r *renderer) notice(n engine.MissingNotice) {
	hostID := orNone(schema.PadID(n.HostID, schema.HostIDWidth))
	r.line("%s %s  home %s  host %s  born %s  %s",
		r.p.Prefix(style.WarningPrefix),
		n.Name,
		schema.PadID(n.HomeID, schema.HomeIDWidth),
		hostID,
		orNone(n.BirthDate),
		orNone(n.Email))
	if n.HostIDKnown {
		r.line("    host ID on file but no host registrations")
	} else {
		r.line("    needs a host account")
	}
	for _, reg := range n.HomeRegistrations {
		status := string(engine.ActionDrop)
		if reg.Active {
			status = string(engine.ActionAdd)
		}
		r.line("    %-16s %-5s %-3s %s", reg.Course, status, reg.Grade, reg.ChangeDate)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
