package fhir

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// maxID is the largest integer a float64 id can hold exactly.
const maxID = 1<<53 - 1

// decimalRe limits string ids to plain decimal notation. strconv.ParseFloat
// on its own would also take hex floats, underscores and "Inf".
var decimalRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseID reads a positive integer resource id from a URL segment or an
// identifier value. Strings are trimmed and read as decimal numbers, so "5",
// " 5 " and "5.0" all yield 5, while "0x5" and "1_0" do not parse. Anything that is not a whole number above zero
// reports false.
func ParseID(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if !decimalRe.MatchString(s) {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 || f > maxID {
		return 0, false
	}
	return int(f), true
}

// FormatID is the inverse of ParseID for store-assigned ids.
func FormatID(id int) string {
	return strconv.Itoa(id)
}
