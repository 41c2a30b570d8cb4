package output

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// BannerOptions configures the startup banner display.
type BannerOptions struct {
	ShowBanner  bool // Show ASCII art logo
	ShowVersion bool // Show version information
}

// DefaultBannerOptions returns default banner configuration.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{
		ShowBanner:  true,
		ShowVersion: true,
	}
}

// PrintBanner displays the typewright logo and version information.
func PrintBanner(w io.Writer, version string, opts BannerOptions) {
	if w == nil {
		return
	}

	if !opts.ShowBanner {
		if opts.ShowVersion {
			fmt.Fprintf(w, "Typewright v%s\n", version)
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, GetASCIILogo())

	if opts.ShowVersion {
		fmt.Fprintf(w, "Typewright v%s | whole-program type inference for Python\n", version)
	}

	fmt.Fprintln(w)
}

// GetASCIILogo generates the ASCII art logo for "Typewright".
func GetASCIILogo() string {
	// "standard" font keeps the logo under 80 columns.
	fig := figure.NewFigure("Typewright", "standard", true)
	return fig.String()
}

// GetCompactBanner returns a single-line banner for non-TTY output.
func GetCompactBanner(version string) string {
	return fmt.Sprintf("Typewright v%s", version)
}

// ShouldShowBanner determines if the banner should be displayed.
func ShouldShowBanner(isTTY bool, noBannerFlag bool) bool {
	if noBannerFlag {
		return false
	}
	// Show full banner only in TTY.
	return isTTY
}
