package trip

import (
	"fmt"
	"math"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
)

const (
	BaseSpeedLimitMph = 45.0

	MinSpeedPercentage = 0
	MaxSpeedPercentage = 50

	dangerAbove  = 30
	extremeAbove = 40
	warningAbove = 20
)

// ComputeMetrics derives route metrics from the trip distance and the chosen speed percentage.
func ComputeMetrics(distanceMiles float64, speedPercentage int) (models.TripMetrics, error) {
	if distanceMiles < 0 || math.IsNaN(distanceMiles) || math.IsInf(distanceMiles, 0) {
		return models.TripMetrics{}, types.ErrInvalidDistance
	}
	if speedPercentage < MinSpeedPercentage || speedPercentage > MaxSpeedPercentage {
		return models.TripMetrics{}, types.ErrInvalidSpeedPercentage
	}

	effective := EffectiveSpeed(speedPercentage)
	base := distanceMiles / BaseSpeedLimitMph * 60
	boosted := distanceMiles / effective * 60

	return models.TripMetrics{
		BaseSpeedLimitMph: BaseSpeedLimitMph,
		EffectiveSpeedMph: effective,
		BaseEtaMinutes:    base,
		BoostedEtaMinutes: boosted,
		TimeSavedMinutes:  base - boosted,
	}, nil
}

// EffectiveSpeed returns the target speed in mph for a speed percentage.
func EffectiveSpeed(speedPercentage int) float64 {
	return BaseSpeedLimitMph * (1 + float64(speedPercentage)/100)
}

// FormatTime renders minutes as "46 min" or "1h 30m".
// Total minutes are rounded once before the hour split, so 119.6 gives "2h 0m".
func FormatTime(minutes float64) string {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		minutes = 0
	}

	total := int64(math.Round(minutes))
	hours, mins := total/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%d min", mins)
}

// TierFor returns the display tier for a speed percentage.
func TierFor(pct int) types.Tier {
	switch {
	case pct > extremeAbove:
		return types.TierExtreme
	case pct > dangerAbove:
		return types.TierDanger
	default:
		return types.TierNormal
	}
}

// Label returns the slider caption for a speed percentage.
func Label(pct int) string {
	switch {
	case pct <= 0:
		return "Speed limit"
	case pct <= 10:
		return "A little faster"
	case pct <= 20:
		return "Cruising"
	case pct <= 30:
		return "Making time"
	case pct <= 40:
		return "Need for speed"
	default:
		return "Full send"
	}
}

// GaugeRotation maps [0, 50] onto a needle angle in [-90, 90] degrees.
func GaugeRotation(pct int) float64 {
	return float64(pct)/MaxSpeedPercentage*180 - 90
}

// ShowWarning reports whether the "drive responsibly" notice is shown.
func ShowWarning(pct int) bool {
	return pct > warningAbove
}

// Display bundles the presentation of a speed percentage.
func Display(pct int) models.SpeedDisplay {
	return models.SpeedDisplay{
		SpeedPercentage:  pct,
		Label:            Label(pct),
		Tier:             TierFor(pct),
		GaugeRotationDeg: GaugeRotation(pct),
		Warning:          ShowWarning(pct),
	}
}

// Summarize computes metrics with their formatted strings and the speed display.
func Summarize(distanceMiles float64, speedPercentage int) (models.TripSummary, error) {
	m, err := ComputeMetrics(distanceMiles, speedPercentage)
	if err != nil {
		return models.TripSummary{}, err
	}

	return models.TripSummary{
		Metrics:    m,
		Display:    Display(speedPercentage),
		BaseEta:    FormatTime(m.BaseEtaMinutes),
		BoostedEta: FormatTime(m.BoostedEtaMinutes),
		TimeSaved:  FormatTime(m.TimeSavedMinutes),
	}, nil
}
