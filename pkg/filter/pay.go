// Package filter applies post-fetch refinement that the remote catalog
// query does not support.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gigscout/pkg/model"
)

// Amount extracts the numeric magnitude from a formatted pay string by
// stripping every non-digit rune, e.g. "₹1,000/day" -> 1000.
// A string with no digits is a contract violation and returns an error.
func Amount(pay string) (float64, error) {
	var b strings.Builder
	for _, r := range pay {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("pay string %q contains no numeric magnitude", pay)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("pay string %q: %w", pay, err)
	}
	return v, nil
}

// ByPayRange retains jobs whose pay magnitude falls within [min, max].
// A nil bound is open (min defaults to 0, max to +inf). When both bounds
// are nil the input is returned unchanged — the stage only runs when at
// least one bound is set. Jobs with unparseable pay strings are dropped.
func ByPayRange(jobs []model.ShortTermJob, payMin, payMax *float64) []model.ShortTermJob {
	if payMin == nil && payMax == nil {
		return jobs
	}

	lo := 0.0
	if payMin != nil {
		lo = *payMin
	}

	out := make([]model.ShortTermJob, 0, len(jobs))
	for _, j := range jobs {
		v, err := Amount(j.Pay)
		if err != nil {
			// Malformed catalog data; excluded rather than fatal
			continue
		}
		if v < lo {
			continue
		}
		if payMax != nil && v > *payMax {
			continue
		}
		out = append(out, j)
	}
	return out
}
