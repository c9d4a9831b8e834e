package pricing

import "math"

// Calculate maps a quote request to its itemised breakdown. It does not
// validate ranges and never rounds; rounding happens only when formatting.
//
// Once the trip exceeds the free threshold every mile is charged, not just
// the miles above it.
func Calculate(req QuoteRequest) Breakdown {
	van := VanHourly[req.VanSize]
	loaders := float64(req.LoaderCount) * LoaderHourly
	combined := van + loaders
	billable := math.Max(MinHours, req.RequestedHours)

	var distance float64
	if req.Miles > FreeMilesThreshold {
		distance = req.Miles * MileRate
	}

	return Breakdown{
		VanHourlyRate:      van,
		LoaderHourlyRate:   loaders,
		CombinedHourlyRate: combined,
		RequestedHours:     req.RequestedHours,
		BillableHours:      billable,
		Miles:              req.Miles,
		DistanceCharge:     distance,
		Total:              combined*billable + distance,
	}
}

// MinimumQuote is the cheapest possible job: small van, driver only, minimum hours.
func MinimumQuote() Breakdown {
	return Calculate(QuoteRequest{VanSize: VanSmall, RequestedHours: MinHours})
}
