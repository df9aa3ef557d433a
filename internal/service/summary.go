package service

import (
	"fmt"
	"strconv"
	"strings"

	"insights/internal/model"
)

// Tier thresholds, in percent
const (
	strongPriceGrowth   = 20.0
	moderatePriceGrowth = 10.0
	highDemandGrowth    = 15.0
)

// AreaMetrics holds the growth figures computed for one area
type AreaMetrics struct {
	Area         string
	PriceGrowth  float64 // Percent change between first and last price
	DemandGrowth float64 // Percent change between first and last demand
	LatestPrice  float64
	LatestDemand float64
	Points       int
}

// GrowthPercent returns (last-first)/first*100
func GrowthPercent(first, last float64) (float64, error) {
	if first == 0 {
		return 0, ErrDivisionByZero
	}
	return (last - first) / first * 100, nil
}

// ComputeMetrics derives growth metrics for area from its rows in subset order.
// Rows must already be in ascending year order. Demand growth is skipped when
// withDemand is false so a zero demand baseline does not fail price-only use.
func ComputeMetrics(area string, rows []model.Record, withDemand bool) (AreaMetrics, error) {
	if len(rows) == 0 {
		return AreaMetrics{}, &AreaDataError{Area: area, Err: ErrEmptySubset}
	}

	first, last := rows[0], rows[len(rows)-1]
	m := AreaMetrics{
		Area:         area,
		LatestPrice:  last.Price,
		LatestDemand: last.Demand,
		Points:       len(rows),
	}

	var err error
	if m.PriceGrowth, err = GrowthPercent(first.Price, last.Price); err != nil {
		return AreaMetrics{}, &AreaDataError{Area: area, Metric: "price", Err: err}
	}
	if withDemand {
		if m.DemandGrowth, err = GrowthPercent(first.Demand, last.Demand); err != nil {
			return AreaMetrics{}, &AreaDataError{Area: area, Metric: "demand", Err: err}
		}
	}
	return m, nil
}

// Summarize renders the narrative report for a filtered subset.
// Two or more areas with the comparison flag compare the first two areas;
// otherwise the first area is described on its own.
func Summarize(intent *model.Intent, subset []model.Record) (string, error) {
	if len(intent.Areas) == 0 {
		return "", ErrNoAreaMentioned
	}

	if intent.IsComparison && len(intent.Areas) >= 2 {
		a, err := ComputeMetrics(intent.Areas[0], recordsForArea(subset, intent.Areas[0]), false)
		if err != nil {
			return "", err
		}
		b, err := ComputeMetrics(intent.Areas[1], recordsForArea(subset, intent.Areas[1]), false)
		if err != nil {
			return "", err
		}
		return renderComparison(a, b), nil
	}

	m, err := ComputeMetrics(intent.Areas[0], recordsForArea(subset, intent.Areas[0]), true)
	if err != nil {
		return "", err
	}
	return renderSingle(m, intent.YearWindow), nil
}

func renderComparison(a, b AreaMetrics) string {
	nameA, nameB := DisplayArea(a.Area), DisplayArea(b.Area)

	// Equal growth names the second area
	winner := nameB
	if a.PriceGrowth > b.PriceGrowth {
		winner = nameA
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Comparative Analysis: %s vs %s\n\n", nameA, nameB)
	fmt.Fprintf(&sb, "%s shows a %.1f%% price growth with current average price at ₹%s/sq.ft and demand index of %s.\n\n",
		nameA, a.PriceGrowth, formatAmount(a.LatestPrice), formatAmount(a.LatestDemand))
	fmt.Fprintf(&sb, "%s demonstrates %.1f%% price growth with current average price at ₹%s/sq.ft and demand index of %s.\n\n",
		nameB, b.PriceGrowth, formatAmount(b.LatestPrice), formatAmount(b.LatestDemand))
	fmt.Fprintf(&sb, "%s shows better investment potential based on recent growth trends.", winner)
	return sb.String()
}

func renderSingle(m AreaMetrics, window int) string {
	name := DisplayArea(m.Area)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Real Estate Analysis: %s\n\n", name)
	fmt.Fprintf(&sb, "Market Overview: %s has shown a %.1f%% change in property prices over the past %d years.\n\n",
		name, m.PriceGrowth, window)
	sb.WriteString("Current Metrics:\n")
	fmt.Fprintf(&sb, "• Average Price: ₹%s/sq.ft\n", formatAmount(m.LatestPrice))
	fmt.Fprintf(&sb, "• Demand Index: %s\n", formatAmount(m.LatestDemand))
	fmt.Fprintf(&sb, "• Price Growth: %.1f%%\n", m.PriceGrowth)
	fmt.Fprintf(&sb, "• Demand Growth: %.1f%%\n\n", m.DemandGrowth)
	fmt.Fprintf(&sb, "Investment Insights: The locality demonstrates %s appreciation potential with %s demand trends.",
		PriceTier(m.PriceGrowth), DemandTier(m.DemandGrowth))
	return sb.String()
}

// PriceTier classifies price growth as strong, moderate or stable
func PriceTier(growth float64) string {
	switch {
	case growth > strongPriceGrowth:
		return "strong"
	case growth > moderatePriceGrowth:
		return "moderate"
	default:
		return "stable"
	}
}

// DemandTier classifies demand growth as high or steady
func DemandTier(growth float64) string {
	if growth > highDemandGrowth {
		return "high"
	}
	return "steady"
}

// formatAmount prints whole numbers without a fraction and keeps any real decimals
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
