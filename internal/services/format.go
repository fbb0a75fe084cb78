package services

import "fmt"

var magnitudeUnits = []string{"", "mil"}

// FormatMagnitude renders value for the metric cards: the bare value below a
// thousand, "mil" below a million, and "Milhões" for anything larger. There is
// no billion tier.
func FormatMagnitude(value float64, prefix string) string {
	for _, unit := range magnitudeUnits {
		if value < 1000 {
			return fmt.Sprintf("%s %.2f %s", prefix, value, unit)
		}
		value /= 1000
	}
	return fmt.Sprintf("%s %.2f Milhões", prefix, value)
}
