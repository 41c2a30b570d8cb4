package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBannerFull(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.0.0", DefaultBannerOptions())

	out := buf.String()
	assert.Contains(t, out, "Typewright v1.0.0")
	assert.Greater(t, strings.Count(out, "\n"), 3, "ASCII art spans multiple lines")
}

func TestPrintBannerTextOnly(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.0.0", BannerOptions{ShowBanner: false, ShowVersion: true})
	assert.Equal(t, "Typewright v1.0.0\n\n", buf.String())
}

func TestPrintBannerNilWriter(t *testing.T) {
	assert.NotPanics(t, func() {
		PrintBanner(nil, "1.0.0", DefaultBannerOptions())
	})
}

func TestGetCompactBanner(t *testing.T) {
	assert.Equal(t, "Typewright v2.1.0", GetCompactBanner("2.1.0"))
}

func TestShouldShowBanner(t *testing.T) {
	assert.True(t, ShouldShowBanner(true, false))
	assert.False(t, ShouldShowBanner(true, true), "--no-banner always wins")
	assert.False(t, ShouldShowBanner(false, false), "no banner without a terminal")
}

func TestGetASCIILogoNonEmpty(t *testing.T) {
	assert.NotEmpty(t, GetASCIILogo())
}
