package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name          string
		parseFailures int
		hadErrors     bool
		want          ExitCode
	}{
		{"clean run", 0, false, ExitCodeSuccess},
		{"parse failures", 3, false, ExitCodeParseFailures},
		{"execution error", 0, true, ExitCodeError},
		{"error outranks parse failures", 3, true, ExitCodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.parseFailures, tt.hadErrors))
		})
	}
}
