package utils

import "time"

// Upstream records carry dates in a handful of shapes; anything outside this
// list is reported as unparseable, never as an error.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999Z",
}

// ParseDate tries each supported format in order. The boolean is false when
// no format matched.
func ParseDate(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateISO normalizes any supported date shape to YYYY-MM-DD.
func ParseDateISO(dateStr string) (string, bool) {
	t, ok := ParseDate(dateStr)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
