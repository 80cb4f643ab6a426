package parser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	xerrors "crossreg/pkg/errors"
	"crossreg/pkg/parser"
)

func TestDetectAndDecode(t *testing.T) {
	t.Run("plain utf-8", func(t *testing.T) {
		out, enc, err := parser.DetectAndDecode([]byte("Name\nRenée\n"))
		require.NoError(t, err)
		assert.Equal(t, parser.EncodingUTF8, enc)
		assert.Equal(t, "Name\nRenée\n", string(out))
	})

	t.Run("utf-8 bom stripped", func(t *testing.T) {
		out, enc, err := parser.DetectAndDecode(append([]byte{0xEF, 0xBB, 0xBF}, "a,b"...))
		require.NoError(t, err)
		assert.Equal(t, parser.EncodingUTF8BOM, enc)
		assert.Equal(t, "a,b", string(out))
	})

	t.Run("utf-16le with bom", func(t *testing.T) {
		in, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("a,b\nJosé,2\n"))
		require.NoError(t, err)
		out, enc, err := parser.DetectAndDecode(in)
		require.NoError(t, err)
		assert.Equal(t, parser.EncodingUTF16LE, enc)
		assert.Equal(t, "a,b\nJosé,2\n", string(out))
	})

	t.Run("utf-16be with bom", func(t *testing.T) {
		in, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("x\n1\n"))
		require.NoError(t, err)
		out, enc, err := parser.DetectAndDecode(in)
		require.NoError(t, err)
		assert.Equal(t, parser.EncodingUTF16BE, enc)
		assert.Equal(t, "x\n1\n", string(out))
	})

	t.Run("windows-1252 fallback", func(t *testing.T) {
		out, enc, err := parser.DetectAndDecode([]byte("Ren\xe9e"))
		require.NoError(t, err)
		assert.Equal(t, parser.EncodingWindows1252, enc)
		assert.Equal(t, "Renée", string(out))
	})
}

func TestReadTable(t *testing.T) {
	t.Run("pads and truncates with warnings", func(t *testing.T) {
		table, err := parser.ReadTable([]byte(" A ,B,C\n1,2\n1,2,3,4\n1,2,3\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, table.Headers)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, []string{"1", "2", ""}, table.Rows[0].Fields)
		assert.Equal(t, []string{"1", "2", "3"}, table.Rows[1].Fields)
		assert.Equal(t, 2, table.Rows[0].Line)
		require.Len(t, table.Warnings, 2)
		assert.Equal(t, 2, table.Warnings[0].Row)
		assert.Contains(t, table.Warnings[0].Message, "padding")
		assert.Contains(t, table.Warnings[1].Message, "truncating")
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := parser.ReadTable(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, xerrors.ErrEmpty)
	})

	t.Run("header only", func(t *testing.T) {
		table, err := parser.ReadTable([]byte("A,B\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, table.Headers)
		assert.Empty(t, table.Rows)
		require.Len(t, table.Warnings, 1)
		assert.Contains(t, table.Warnings[0].Message, "no data rows")
	})
}

const homeFixture = `ID,Course,Status,Grade
1234,MUS-101-A,Add,B
1234,MUS-101-A,Add,A
1234,MUS-102-B,Drop,
5678,ART-200-C,Add,
,ART-200-C,Add,
`

func TestParseRoster(t *testing.T) {
	t.Run("groups by identity and course", func(t *testing.T) {
		roster, err := parser.ParseRoster([]byte(homeFixture), 0, 1)
		require.NoError(t, err)

		assert.Equal(t, 3, roster.Len(), "the empty identity is bucketed, not hidden")
		assert.Equal(t, []string{"", "1234", "5678"}, roster.Identities())
		assert.Equal(t, []string{"MUS-101-A", "MUS-102-B"}, roster.Courses("1234"))

		fields, ok := roster.Lookup("5678", "ART-200-C")
		require.True(t, ok)
		assert.Equal(t, "Add", fields["Status"])

		_, ok = roster.Lookup("", "ART-200-C")
		assert.True(t, ok)

		_, ok = roster.Lookup("9999", "ART-200-C")
		assert.False(t, ok)
	})

	t.Run("duplicate rows keep the last write", func(t *testing.T) {
		roster, err := parser.ParseRoster([]byte(homeFixture), 0, 1)
		require.NoError(t, err)

		fields, ok := roster.Lookup("1234", "MUS-101-A")
		require.True(t, ok)
		assert.Equal(t, "A", fields["Grade"])
		assert.Equal(t, 1, roster.Overwritten)
	})

	t.Run("course key normalization applies before grouping", func(t *testing.T) {
		data := "ID,Course,Grade\n1,mus*101*a,B\n1,MUS-101-A,A\n"
		roster, err := parser.ParseRoster([]byte(data), 0, 1, parser.WithCourseKey(func(s string) string {
			return strings.ToUpper(strings.ReplaceAll(s, "*", "-"))
		}))
		require.NoError(t, err)

		assert.Equal(t, []string{"MUS-101-A"}, roster.Courses("1"))
		fields, _ := roster.Lookup("1", "MUS-101-A")
		assert.Equal(t, "A", fields["Grade"])
	})

	t.Run("column out of range", func(t *testing.T) {
		_, err := parser.ParseRoster([]byte(homeFixture), 0, 9)
		require.Error(t, err)
		assert.True(t, xerrors.IsValidationError(err))
	})
}

func TestReadRosterFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.csv")
	require.NoError(t, os.WriteFile(path, []byte(homeFixture), 0o644))

	roster, err := parser.ReadRosterFile(path, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, roster.Len())

	_, err = parser.ReadRosterFile(filepath.Join(dir, "missing.csv"), 0, 1)
	require.Error(t, err)
	var ioErr *xerrors.IOError
	assert.ErrorAs(t, err, &ioErr)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("ID,Course\n"), 0o644))
	_, err = parser.ReadRosterFile(empty, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), empty)
}
