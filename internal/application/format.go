package application

import (
	"fmt"
	"strings"
)

const (
	meter     = 1
	kilometer = 1000 * meter

	second = 1
	minute = 60 * second
	hour   = 60 * minute
	day    = 24 * hour
)

// ReadableDistance renders meters as "850 m", or as kilometers with one
// decimal once the distance exceeds a kilometer ("1.2 km").
func ReadableDistance(meters int) string {
	if meters > kilometer {
		return fmt.Sprintf("%.1f km", float64(meters)/kilometer)
	}
	return fmt.Sprintf("%d m", meters)
}

// ReadableDuration renders seconds as "1 d, 2 h, 5 min". Without
// showSeconds a partial minute rounds up; with it the remainder is appended
// as "N sec".
func ReadableDuration(seconds int, showSeconds bool) string {
	var parts []string

	if seconds > day {
		days := seconds / day
		parts = append(parts, fmt.Sprintf("%d d", days))
		seconds -= days * day
	}
	if seconds > hour {
		hours := seconds / hour
		parts = append(parts, fmt.Sprintf("%d h", hours))
		seconds -= hours * hour
	}

	minutes := seconds / minute
	seconds -= minutes * minute
	if seconds > 0 && !showSeconds {
		minutes++
	}
	parts = append(parts, fmt.Sprintf("%d min", minutes))

	if showSeconds && seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d sec", seconds))
	}
	return strings.Join(parts, ", ")
}
