package cobertura

import (
	"fmt"
	"strconv"
	"strings"
)

// rateDigits is the number of significant digits in a rate.
const rateDigits = 4

// exitToken marks a branch that leaves the function.
const exitToken = "exit"

// Rate returns hit/total as a Cobertura rate string.
// A zero total is fully covered and yields "1". Otherwise the fraction is
// written with 4 significant digits and trailing zeros trimmed, always in
// plain decimal notation.
func Rate(hit, total int) string {
	if total == 0 {
		return "1"
	}

	value := float64(hit) / float64(total)
	formatted := strconv.FormatFloat(value, 'g', rateDigits, 64)
	if !strings.ContainsAny(formatted, "eE") {
		return formatted
	}

	// Very small fractions come back in exponent form.
	rounded, err := strconv.ParseFloat(formatted, 64)
	if err != nil {
		return formatted
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// ConditionCoverage formats branch statistics as "75% (3/4)".
// The percentage is truncated, never rounded.
func ConditionCoverage(taken, total int) string {
	pct := 100
	if total > 0 {
		pct = 100 * taken / total
	}
	return fmt.Sprintf("%d%% (%d/%d)", pct, taken, total)
}

// MissingBranches joins branch targets with commas, writing negative
// targets as "exit".
func MissingBranches(targets []int) string {
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		if target < 0 {
			parts = append(parts, exitToken)
			continue
		}
		parts = append(parts, strconv.Itoa(target))
	}
	return strings.Join(parts, ",")
}
