package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "crossreg/pkg/errors"
	"crossreg/pkg/parser"
	"crossreg/pkg/schema"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "jane doe"},
		{"  DOE,  Jane ", "jane doe"},
		{"José Núñez", "jose nunez"},
		{"Jane Q. Doe", "jane doe"},
		{"John Smith Jr", "john smith"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.NormalizeName(tt.in))
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2017-01-01", "2017-01-01"},
		{"1/9/2017", "2017-01-09"},
		{"01/09/2017", "2017-01-09"},
		{"2017-01-09T10:30:00Z", "2017-01-09"},
		{"09-Jan-2017", "2017-01-09"},
		{" spring break ", "spring break"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.FormatDate(tt.in))
		})
	}
}

func TestPadID(t *testing.T) {
	assert.Equal(t, "000001234", schema.PadID("1234", schema.HomeIDWidth))
	assert.Equal(t, "0076543", schema.PadID("76543", schema.HostIDWidth))
	assert.Equal(t, "123456789", schema.PadID("123456789", schema.HomeIDWidth))
	assert.Equal(t, "", schema.PadID("", schema.HostIDWidth))
}

func TestCourseNormalizer(t *testing.T) {
	n := schema.NewCourseNormalizer(map[string]string{"art 200 lab": "ART-200-L"})

	t.Run("home keys", func(t *testing.T) {
		assert.Equal(t, "MUS-101-A", n.Home(" mus-101-a "))
	})

	t.Run("host separators collapse", func(t *testing.T) {
		assert.Equal(t, "MUS-101-A", n.Host("MUS*101*A"))
		assert.Equal(t, "MUS-101-A", n.Host("mus 101  a"))
		assert.Equal(t, "MUS-101-A", n.Host("MUS-*101-A"))
	})

	t.Run("built-in alias collapses to canonical", func(t *testing.T) {
		assert.Equal(t, "MUS-230-ENS", n.Host("MUS*230*ENS1"))
		assert.Equal(t, "MUS-230-ENS", n.Home("MUS-230-ENS1"))
		assert.Equal(t, "MUS-230-ENS", n.Host("MUS-230-ENS"))
	})

	t.Run("configured alias", func(t *testing.T) {
		assert.Equal(t, "ART-200-L", n.Host("ART*200*LAB"))
		assert.Equal(t, "ART-200-L", n.Home("art 200 lab"))
	})

	t.Run("both systems agree on the same spelling", func(t *testing.T) {
		for _, raw := range []string{"MUS 101 A", "mus_101_a", "MUS*101*A", "MUS-101-A"} {
			assert.Equal(t, n.Host(raw), n.Home(raw), raw)
			assert.Equal(t, "MUS-101-A", n.Home(raw), raw)
		}
	})

	assert.Equal(t, 2, n.Aliases())
}

const homeCSV = `Term,Site,Program,Credits,Instructor,Room,Course Section,add or drop,Final Grade,Student ID,Student,Host ID,DOB,Email,Last Revision
FA17,Main,BM,3,Smith,101,MUS-101-A,Add,A,000001234,Jane Doe,,4/19/2000,jane@example.edu,1/1/2017
FA17,Main,BM,3,Smith,101,MUS-102-B,Drop,,000001234,Jane Doe,,4/19/2000,jane@example.edu,1/5/2017
`

func TestHomeRecords(t *testing.T) {
	layout := schema.DefaultHomeLayout()
	roster, err := parser.ParseRoster([]byte(homeCSV), layout.IdentityColumn, layout.CourseColumn)
	require.NoError(t, err)

	records, err := schema.HomeRecords(roster, layout)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, schema.HomeRecord{
		HomeID:       "000001234",
		Course:       "MUS-101-A",
		AddDrop:      "Add",
		FinalGrade:   "A",
		LastRevision: "2017-01-01",
		Name:         "Jane Doe",
		HostID:       "",
		BirthDate:    "2000-04-19",
		Email:        "jane@example.edu",
	}, records[0])
	assert.Equal(t, "Drop", records[1].AddDrop)
}

func TestHostRecords(t *testing.T) {
	data := "Home ID,Name,Term,Section,Status- Current,Grade- Verified,Chg- Date,Host Student ID\n" +
		"000001234,\"Doe, Jane\",FA17,MUS*101*A,A,A,01/02/2017,1234567\n" +
		",Visitor,FA17,MUS*101*A,N,,01/02/2017,7654321\n"

	layout := schema.DefaultHostLayout()
	n := schema.NewCourseNormalizer(nil)
	roster, err := parser.ParseRoster([]byte(data), layout.IdentityColumn, layout.CourseColumn, parser.WithCourseKey(n.Host))
	require.NoError(t, err)

	records, err := schema.HostRecords(roster, layout)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "", records[0].HomeID, "blank identities sort first and are kept")
	assert.Equal(t, "7654321", records[0].HostID)
	assert.Equal(t, schema.HostRecord{
		HomeID:        "000001234",
		Course:        "MUS-101-A",
		Status:        "A",
		VerifiedGrade: "A",
		ChangeDate:    "2017-01-02",
		Name:          "Doe, Jane",
		HostID:        "1234567",
	}, records[1])
}

func TestRecordsMissingHeader(t *testing.T) {
	roster, err := parser.ParseRoster([]byte("Home ID,Name,Term,Section\n1,A,FA17,X\n"), 0, 3)
	require.NoError(t, err)

	_, err = schema.HostRecords(roster, schema.DefaultHostLayout())
	require.Error(t, err)
	assert.True(t, xerrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "Status- Current")
}
