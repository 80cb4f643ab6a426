package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteNoColor(t *testing.T) {
	p := Palette{NoColor: true}
	assert.Equal(t, "Add", p.Render(Success, "Add"))
	assert.Equal(t, WarningPrefix, p.Prefix(WarningPrefix))
}

func TestAutoWithoutTerminal(t *testing.T) {
	// A file descriptor that is not a terminal forces plain output.
	p := Auto(^uintptr(0), false)
	assert.True(t, p.NoColor)
}
