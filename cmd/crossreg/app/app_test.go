package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossreg/pkg/errors"
)

const homeCSV = `Student,Host ID,DOB,Email,Add or Drop,Final Grade,Course Section,Last Revision,Term,Student ID
Jane Doe,,1999-04-01,jdoe@example.edu,Add,A,MUS-101-A,2017-01-01,FA17,000001234
John Roe,42,,,Add,B,HIS-200-B,2017-01-02,FA17,000005678
John Roe,42,,,Drop,,ART-300-C,2017-01-02,FA17,000005678
`

const hostCSV = `Home ID,Name,Host Student ID,Section,Status- Current,Grade- Verified,Chg- Date
000005678,John Roe,42,HIS*200*B,A,,2017-01-03
,Mystery Person,9999,ART 100 A,A,,2017-01-04
`

func newTestApp(t *testing.T, out *bytes.Buffer) *App {
	t.Helper()
	a, err := New("test", "abc123", "today", WithOutput(out), WithRunID("run-test"))
	require.NoError(t, err)
	return a
}

func fixtures(t *testing.T) (dir, home, host string) {
	t.Helper()
	dir = t.TempDir()
	home = writeFile(t, dir, "IntegCrsOff_FA17.csv", homeCSV)
	host = writeFile(t, dir, "FA17 Integrated Offerings Registrations.csv", hostCSV)
	return dir, home, host
}

func baseArgs(dir string) []string {
	return []string{
		"--config", writeEmptyConfig(dir),
		"--log-output", "discard",
		"--no-color",
		"--overrides", filepath.Join(dir, "overrides.yaml"),
	}
}

func writeEmptyConfig(dir string) string {
	path := filepath.Join(dir, "crossreg.yaml")
	_ = os.WriteFile(path, []byte("{}\n"), 0o644)
	return path
}

func TestReconcileCommand(t *testing.T) {
	dir, home, host := fixtures(t)

	var out bytes.Buffer
	a := newTestApp(t, &out)
	args := append([]string{"reconcile", "--home-file", home, "--host-file", host}, baseArgs(dir)...)
	require.NoError(t, a.Execute(context.Background(), args))

	report := out.String()
	assert.Contains(t, report, "Updates for Host System")
	assert.Contains(t, report, "Updates for Home System")
	assert.Contains(t, report, "MUS-101-A")
	assert.Contains(t, report, "Never Added")
	assert.Contains(t, report, "HIS-200-B")
	assert.Contains(t, report, "Update with Grade")
	assert.NotContains(t, report, "ART-300-C", "dropped course missing from host is not actionable")

	assert.Contains(t, report, "Active students missing from Host System")
	assert.Contains(t, report, "Jane Doe")
	assert.Contains(t, report, "jdoe@example.edu")

	assert.Contains(t, report, "Host System IDs to review")
	assert.Contains(t, report, "0009999")
	assert.Contains(t, report, "2 students")
}

func TestReconcileDiscoversRosters(t *testing.T) {
	dir, _, _ := fixtures(t)

	var out bytes.Buffer
	a := newTestApp(t, &out)
	args := append([]string{
		"reconcile",
		"--home-dir", dir,
		"--host-dir", dir,
		"--home-label", "College",
		"--host-label", "University",
	}, baseArgs(dir)...)
	require.NoError(t, a.Execute(context.Background(), args))

	assert.Contains(t, out.String(), "Updates for University")
	assert.Contains(t, out.String(), "Active students missing from University")
}

func TestReconcileOverrides(t *testing.T) {
	dir, home, host := fixtures(t)
	overrides := writeFile(t, dir, "overrides.yaml", "host_ids:\n  \"000001234\": \"1234567\"\n")

	var out bytes.Buffer
	a := newTestApp(t, &out)
	args := append([]string{"reconcile", "--home-file", home, "--host-file", host}, baseArgs(dir)...)
	args = append(args, "--overrides", overrides)
	require.NoError(t, a.Execute(context.Background(), args))

	assert.Contains(t, out.String(), "1234567")
	assert.Contains(t, out.String(), "host ID on file but no host registrations")
}

func TestReconcileMissingRoster(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "host.csv", hostCSV)

	var out bytes.Buffer
	a := newTestApp(t, &out)
	args := append([]string{"reconcile", "--home-dir", dir, "--host-file", filepath.Join(dir, "host.csv")}, baseArgs(dir)...)
	err := a.Execute(context.Background(), args)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Empty(t, out.String(), "no partial report")
}

func TestReconcileMissingHeader(t *testing.T) {
	dir, home, _ := fixtures(t)
	host := writeFile(t, dir, "bad-host.csv", strings.Replace(hostCSV, "Grade- Verified", "Grade", 1))

	var out bytes.Buffer
	a := newTestApp(t, &out)
	args := append([]string{"reconcile", "--home-file", home, "--host-file", host}, baseArgs(dir)...)
	err := a.Execute(context.Background(), args)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "Grade- Verified")
}

func TestReconcileEmptyHostRoster(t *testing.T) {
	dir, home, _ := fixtures(t)
	header := strings.SplitAfter(hostCSV, "\n")[0]
	host := writeFile(t, dir, "empty-host.csv", header)

	var out bytes.Buffer
	a := newTestApp(t, &out)
	args := append([]string{"reconcile", "--home-file", home, "--host-file", host}, baseArgs(dir)...)
	require.NoError(t, a.Execute(context.Background(), args))
	assert.Contains(t, out.String(), "Never Added")
	assert.Contains(t, out.String(), "MUS-101-A")
}

func TestReconcileSave(t *testing.T) {
	dir, home, host := fixtures(t)
	target := filepath.Join(dir, "out", "report.txt")

	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		a := newTestApp(t, &out)
		args := append([]string{"reconcile", "--home-file", home, "--host-file", host, "--save", target}, baseArgs(dir)...)
		require.NoError(t, a.Execute(context.Background(), args))
	}

	first, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(first), "Run run-test"))
	assert.Contains(t, string(first), "Never Added")

	assert.FileExists(t, filepath.Join(dir, "out", "report(1).txt"))
}

func TestReconcileCancelled(t *testing.T) {
	dir, home, host := fixtures(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	a := newTestApp(t, &out)
	args := append([]string{"reconcile", "--home-file", home, "--host-file", host}, baseArgs(dir)...)
	err := a.Execute(ctx, args)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out)
	require.NoError(t, a.Execute(context.Background(), []string{"version", "--log-output", "discard"}))
	assert.Equal(t, "crossreg test (commit abc123, built today)\n", out.String())
}
