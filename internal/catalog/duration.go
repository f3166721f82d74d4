package catalog

import (
	"math"
	"regexp"
	"strconv"
)

// durationPattern matches the limited ISO-8601 form PT[nH][nM][nS]. Date
// components (days, weeks) and fractional values are not accepted.
var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts a limited ISO-8601 duration literal such as
// "PT3M44S" or "PT1H30M" to whole seconds. Components may appear in any
// combination but at least one must be present: a bare "PT" or a unit with
// no digits is rejected with a *DurationFormatError.
func ParseDuration(literal string) (int64, error) {
	matches := durationPattern.FindStringSubmatch(literal)
	if matches == nil {
		return 0, &DurationFormatError{Literal: literal, Reason: "must be of the form PT[nH][nM][nS]"}
	}
	if matches[1] == "" && matches[2] == "" && matches[3] == "" {
		return 0, &DurationFormatError{Literal: literal, Reason: "must contain at least one H, M or S component"}
	}

	var total int64
	for i, unit := range []int64{3600, 60, 1} {
		part := matches[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n > (math.MaxInt64-total)/unit {
			return 0, &DurationFormatError{Literal: literal, Reason: "component out of range"}
		}
		total += n * unit
	}
	return total, nil
}
