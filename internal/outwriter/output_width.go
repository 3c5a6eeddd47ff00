package outwriter

import (
	"os"

	"github.com/huangsam/fleetrisk/internal/contract"
	"golang.org/x/term"
)

// Bounds for the driver name column.
const (
	minNameWidth = 8
	maxNameWidth = 30
)

// GetMaxTableNameWidth calculates the maximum width for driver names in table output
// based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Vehicle + Score + Rank% + Level with borders/padding
	baseWidth := 50

	if cfg.Detail {
		baseWidth += 40 // Distance + Accel + Start + Law
	}

	available := termWidth - baseWidth
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
