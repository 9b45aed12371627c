package calculator

import (
	"math"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
)

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// Bearing returns the initial compass bearing from p1 to p2 in degrees [0, 360).
func Bearing(p1, p2 models.Location) float64 {
	lat1, lat2 := toRad(p1.Latitude), toRad(p2.Latitude)
	dLon := toRad(p2.Longitude - p1.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Lerp interpolates between two points, f in [0, 1].
func Lerp(p1, p2 models.Location, f float64) models.Location {
	return models.Location{
		Longitude: p1.Longitude + (p2.Longitude-p1.Longitude)*f,
		Latitude:  p1.Latitude + (p2.Latitude-p1.Latitude)*f,
	}
}
