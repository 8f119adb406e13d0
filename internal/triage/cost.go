package triage

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

// defaultLabourRate is the garage hourly rate in GBP when the
// OBDLY_LABOUR_RATE environment variable is unset.
const defaultLabourRate = 70.0

// Range is an inclusive min..max estimate. A point estimate has Min == Max.
type Range struct {
	Min, Max float64
}

// Point returns a single-value range.
func Point(v float64) Range { return Range{Min: v, Max: v} }

func labourRate() float64 {
	if v := os.Getenv("OBDLY_LABOUR_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			return rate
		}
	}
	return defaultLabourRate
}

func gbp(v float64) string {
	return fmt.Sprintf("£%d", int(math.Round(math.Max(0, v))))
}

// categoryCosts are rough parts and labour-hour bands per subsystem,
// calibrated to common UK jobs rather than worst cases.
var categoryCosts = map[string]struct{ parts, hours Range }{
	"starting":   {Range{Min: 20, Max: 250}, Range{Min: 0.5, Max: 2}},
	"braking":    {Range{Min: 30, Max: 300}, Range{Min: 1, Max: 3}},
	"fluids":     {Range{Min: 10, Max: 400}, Range{Min: 0.5, Max: 4}},
	"electrical": {Range{Min: 15, Max: 350}, Range{Min: 0.5, Max: 3}},
	"drivetrain": {Range{Min: 50, Max: 900}, Range{Min: 1, Max: 6}},
	"hvac":       {Range{Min: 20, Max: 450}, Range{Min: 0.5, Max: 3}},
}

// CostBand renders the typical cost summary for a subsystem category.
// Unknown categories get the electrical band, matching Category's fallback.
func CostBand(category string) string {
	c, ok := categoryCosts[category]
	if !ok {
		c = categoryCosts["electrical"]
	}
	return EstimateCost(c.parts, c.hours)
}

// EstimateCost renders a UK-style cost summary comparing DIY (parts only)
// against a garage (parts plus labour at the configured hourly rate), e.g.
// "DIY £30–£120 / Garage £114–£260".
func EstimateCost(parts, hours Range) string {
	rate := labourRate()

	diyMin := math.Max(0, parts.Min)
	diyMax := math.Max(diyMin, parts.Max)
	garMin := math.Max(0, parts.Min+hours.Min*rate)
	garMax := math.Max(garMin, parts.Max+hours.Max*rate)

	if diyMin == diyMax && garMin == garMax {
		return fmt.Sprintf("DIY %s / Garage %s", gbp(diyMin), gbp(garMin))
	}
	return fmt.Sprintf("DIY %s–%s / Garage %s–%s",
		gbp(diyMin), gbp(diyMax), gbp(garMin), gbp(garMax))
}
