// README: Quote inputs, rate constants and the itemised breakdown.
package pricing

type VanSize string

const (
	VanSmall  VanSize = "small"
	VanMedium VanSize = "medium"
	VanLarge  VanSize = "large"
)

const (
	LoaderHourly       = 25.0
	MinHours           = 2.0
	MileRate           = 1.5
	FreeMilesThreshold = 10.0
)

// VanHourly is the base hourly rate per van size.
var VanHourly = map[VanSize]float64{
	VanSmall:  40,
	VanMedium: 45,
	VanLarge:  50,
}

var vanDisplay = map[VanSize]string{
	VanSmall:  "Small Van",
	VanMedium: "Medium Van",
	VanLarge:  "Luton Van (17.3m³)",
}

// DisplayName returns the customer-facing van name.
func (v VanSize) DisplayName() string {
	if name, ok := vanDisplay[v]; ok {
		return name
	}
	return string(v)
}

func (v VanSize) Valid() bool {
	_, ok := VanHourly[v]
	return ok
}

type QuoteRequest struct {
	VanSize        VanSize `json:"vanSize"`
	LoaderCount    int     `json:"loaders"`
	RequestedHours float64 `json:"hours"`
	Miles          float64 `json:"miles"`
}

type Breakdown struct {
	VanHourlyRate      float64 `json:"vanHourlyRate"`
	LoaderHourlyRate   float64 `json:"loaderHourlyRate"`
	CombinedHourlyRate float64 `json:"combinedHourlyRate"`
	RequestedHours     float64 `json:"requestedHours"`
	BillableHours      float64 `json:"billableHours"`
	Miles              float64 `json:"miles"`
	DistanceCharge     float64 `json:"distanceCharge"`
	Total              float64 `json:"total"`
}

// LabourCost is the hourly part of the total.
func (b Breakdown) LabourCost() float64 {
	return b.CombinedHourlyRate * b.BillableHours
}

// MinimumApplied reports whether the billable hours were raised to the minimum.
func (b Breakdown) MinimumApplied() bool {
	return b.RequestedHours < MinHours
}
