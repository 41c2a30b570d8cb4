package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTTYNonFileWriter(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestGetTerminalWidthFallback(t *testing.T) {
	assert.Equal(t, 80, GetTerminalWidth(&bytes.Buffer{}))
}
