package storage

import (
	"strconv"
	"strings"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count with two-decimal precision, dropping
// trailing zeros: 0 -> "0 Bytes", 1536 -> "1.5 KB", 1048576 -> "1 MB".
// Counts beyond the GB range stay in GB.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := 0
	value := float64(bytes)
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}
	s := strconv.FormatFloat(value, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + " " + sizeUnits[i]
}
