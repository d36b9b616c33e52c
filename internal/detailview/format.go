package detailview

import (
	"fmt"
	"strings"
)

const notAvailable = "N/A"

// FormatNumber zero-pads a catalog number to three digits: "7" -> "#007".
func FormatNumber(id string) string {
	if len(id) >= 3 {
		return "#" + id
	}
	return "#" + strings.Repeat("0", 3-len(id)) + id
}

// FormatMeasure converts a value in tenths to whole units with one decimal.
// Absent and zero values are shown as N/A.
func FormatMeasure(tenths *int, unit string) string {
	if tenths == nil || *tenths == 0 {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%s", float64(*tenths)/10, unit)
}

func FormatHeight(dm *int) string { return FormatMeasure(dm, "m") }

func FormatWeight(hg *int) string { return FormatMeasure(hg, "kg") }

func FormatCaptureRate(rate *int) string {
	if rate == nil || *rate == 0 {
		return notAvailable
	}
	return fmt.Sprintf("%d%%", *rate)
}

// FormatStatName turns "special-attack" into "special attack".
func FormatStatName(name string) string {
	if name == "" {
		return notAvailable
	}
	return strings.ReplaceAll(name, "-", " ")
}
