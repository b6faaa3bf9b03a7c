package fhir

import (
	"regexp"
	"strconv"
	"time"
)

var birthDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidBirthDate reports whether s is a YYYY-MM-DD calendar date that is not
// later than today in local time.
func IsValidBirthDate(s string) bool {
	return validBirthDate(s, time.Now())
}

func validBirthDate(s string, now time.Time) bool {
	if !birthDateRe.MatchString(s) {
		return false
	}

	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])

	// time.Date normalizes out-of-range parts (Feb 30 becomes Mar 2), so a
	// real date is one that survives the round trip unchanged.
	dt := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if dt.Year() != y || int(dt.Month()) != m || dt.Day() != d {
		return false
	}

	local := time.Date(y, time.Month(m), d, 0, 0, 0, 0, now.Location())
	return !local.After(now)
}
