package utils

import (
	"fmt"
	"strings"
)

// sizeUnitLabels are the lower-case unit suffixes emitted by FormatFileSize,
// smallest first.
var sizeUnitLabels = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count the way the excluded-directory summary
// shows it: lower-case units, one decimal below 10, none above.
func FormatFileSize(sizeBytes int64) string {
	if sizeBytes < 0 {
		return "0b"
	}
	scaledValue := float64(sizeBytes)
	unitIndex := 0
	for scaledValue >= 1024 && unitIndex < len(sizeUnitLabels)-1 {
		scaledValue /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", sizeBytes)
	}
	if scaledValue < 10 {
		formattedValue := strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0")
		return formattedValue + sizeUnitLabels[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledValue, sizeUnitLabels[unitIndex])
}
