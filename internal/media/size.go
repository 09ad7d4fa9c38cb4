package media

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize converts a byte count in to a human readable string using
// binary (1024) units, stopping at GB. Zero is rendered as "0 B".
func FormatSize(bytes int64) string {
	return formatSize(float64(bytes))
}

func formatSize(size float64) string {
	if size == 0 {
		return "0 B"
	}

	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}

	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}
