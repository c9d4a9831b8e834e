package route

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const MetersPerMile = 1609.344

var undesirableWarning = regexp.MustCompile(`(?i)toll|congestion`)

// MetersToMiles converts and rounds to the given number of decimals.
func MetersToMiles(meters float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(meters/MetersPerMile*scale) / scale
}

// HasUndesirableWarnings reports whether the provider flagged tolls or congestion.
func HasUndesirableWarnings(c Candidate) bool {
	return undesirableWarning.MatchString(strings.Join(c.Warnings, " "))
}

// SelectBest picks the first alternative without toll/congestion advisories,
// falling back to the provider's own first choice.
func SelectBest(candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, ErrNoRoute
	}
	for _, c := range candidates {
		if !HasUndesirableWarnings(c) {
			return c, nil
		}
	}
	return candidates[0], nil
}

func formatMiles(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
