package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"crossreg/internal/style"
	"crossreg/pkg/engine"
	"crossreg/pkg/locate"
	"crossreg/pkg/overrides"
	"crossreg/pkg/parser"
	"crossreg/pkg/report"
	"crossreg/pkg/schema"
)

// NewReconcileCommand creates the reconcile subcommand.
func (a *App) NewReconcileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the home and host rosters and report discrepancies",
		Long: `Reads the newest home and host roster exports, joins them student by
student and prints the updates each system needs, the active students the
host system has no record of, and the host IDs that need a manual check.`,
		Example: `  crossreg reconcile --home-dir ~/cross-reg --host-dir ~/Downloads
  crossreg reconcile --home-file home.csv --host-file host.csv --save report.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReconcile(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("home-dir", "", "directory holding the home roster export")
	flags.String("home-pattern", "", "glob matching the home roster export")
	flags.String("home-file", "", "home roster file, bypassing the directory search")
	flags.String("home-label", "", "name of the home system in the report")
	flags.String("host-dir", "", "directory holding the host roster export")
	flags.String("host-pattern", "", "glob matching the host roster export")
	flags.String("host-file", "", "host roster file, bypassing the directory search")
	flags.String("host-label", "", "name of the host system in the report")
	flags.StringSlice("active-codes", nil, "host status codes counted as enrolled (default A,N)")
	flags.String("overrides", "", "override file with host IDs and section aliases")
	flags.String("save", "", "also write the report to this file, never replacing an existing one")

	return cmd
}

func (a *App) runReconcile(ctx context.Context) error {
	cfg := a.config
	start := time.Now()

	table, err := overrides.Load(cfg.Overrides)
	if err != nil {
		return err
	}
	courses := schema.NewCourseNormalizer(table.SectionAliases)
	a.logger.Debug().
		Int("host_ids", len(table.HostIDs)).
		Int("aliases", courses.Aliases()).
		Msg("Loaded overrides")

	homePath, err := a.rosterPath(cfg.Home)
	if err != nil {
		return err
	}
	hostPath, err := a.rosterPath(cfg.Host)
	if err != nil {
		return err
	}

	homeRoster, err := a.readRoster(homePath, cfg.Home, courses.Home)
	if err != nil {
		return err
	}
	homeLayout := schema.DefaultHomeLayout()
	homeLayout.IdentityColumn, homeLayout.CourseColumn = cfg.Home.IdentityColumn, cfg.Home.CourseColumn
	homeRecords, err := schema.HomeRecords(homeRoster, homeLayout)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	hostRoster, err := a.readRoster(hostPath, cfg.Host, courses.Host)
	if err != nil {
		return err
	}
	hostLayout := schema.DefaultHostLayout()
	hostLayout.IdentityColumn, hostLayout.CourseColumn = cfg.Host.IdentityColumn, cfg.Host.CourseColumn
	hostRecords, err := schema.HostRecords(hostRoster, hostLayout)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	inst := engine.New(
		engine.WithName(cfg.Home.Label),
		engine.WithOverrides(table.HostIDs),
		engine.WithActiveCodes(cfg.ActiveCodes),
		engine.WithCourseNormalizer(courses),
		engine.WithLogger(a.logger),
	)
	inst.IngestHome(homeRecords)
	inst.IngestHost(hostRecords)
	if err := ctx.Err(); err != nil {
		return err
	}

	rep := report.Build(inst.Reconcile(), report.Labels{Home: cfg.Home.Label, Host: cfg.Host.Label}, a.runID)

	if err := report.Render(a.out, rep, report.RenderOptions{NoColor: a.noColor()}); err != nil {
		return err
	}

	if cfg.Save != "" {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Run %s, %s\n", a.runID, start.Format(time.RFC1123))
		fmt.Fprintf(&buf, "%s roster: %s\n%s roster: %s\n\n", rep.Labels.Home, homePath, rep.Labels.Host, hostPath)
		if err := report.Render(&buf, rep, report.RenderOptions{NoColor: true}); err != nil {
			return err
		}
		saved, err := report.Save(cfg.Save, buf.Bytes())
		if err != nil {
			return err
		}
		a.logger.Info().Str("file", saved).Msg("Saved report")
	}

	a.logger.Debug().Dur("elapsed", time.Since(start)).Msg("Reconciliation finished")
	return nil
}

// rosterPath returns the explicit file when one is configured, otherwise
// the newest export matching the pattern.
func (a *App) rosterPath(sys SystemConfig) (string, error) {
	if sys.File != "" {
		return sys.File, nil
	}
	return locate.Roster(sys.Dir, sys.Pattern, a.logger)
}

func (a *App) readRoster(path string, sys SystemConfig, courseKey func(string) string) (*parser.Roster, error) {
	roster, err := parser.ReadRosterFile(path, sys.IdentityColumn, sys.CourseColumn, parser.WithCourseKey(courseKey))
	if err != nil {
		return nil, err
	}

	for _, w := range roster.Warnings {
		a.logger.Warn().
			Str("file", path).
			Int("row", w.Row).
			Msg(w.Message)
	}
	a.logger.Info().
		Str("system", sys.Label).
		Str("file", path).
		Str("encoding", roster.Encoding).
		Int("students", roster.Len()).
		Int("overwritten", roster.Overwritten).
		Msg("Read roster")
	return roster, nil
}

func (a *App) noColor() bool {
	if a.config.NoColor {
		return true
	}
	f, ok := a.out.(*os.File)
	if !ok {
		return true
	}
	return style.Auto(f.Fd(), false).NoColor
}
