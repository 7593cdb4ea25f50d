package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExtractYear scans a string for a plausible 4-digit year ("2020 May 14",
// "c2019"); anything before 1000 or past next year is rejected.
func ExtractYear(s string) int {
	s = strings.TrimSpace(s)
	for i := 0; i+4 <= len(s); i++ {
		var y int
		if _, err := fmt.Sscanf(s[i:i+4], "%d", &y); err == nil {
			if y >= 1000 && y <= time.Now().Year()+1 {
				return y
			}
		}
	}
	return 0
}

// YearString returns the 4-digit year found in s, or the trimmed input when
// none can be extracted.
func YearString(s string) string {
	if y := ExtractYear(s); y > 0 {
		return strconv.Itoa(y)
	}
	return strings.TrimSpace(s)
}
