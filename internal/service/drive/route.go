package drive

import (
	"math"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/service/calculator"
)

// route runs from downtown San Francisco to SFO.
var route = []models.Location{
	{Longitude: -122.4194, Latitude: 37.7749},
	{Longitude: -122.4089, Latitude: 37.7835},
	{Longitude: -122.4013, Latitude: 37.7879},
	{Longitude: -122.3964, Latitude: 37.7850},
	{Longitude: -122.3903, Latitude: 37.7792},
	{Longitude: -122.3851, Latitude: 37.7713},
	{Longitude: -122.3796, Latitude: 37.7621},
	{Longitude: -122.3749, Latitude: 37.7498},
	{Longitude: -122.3712, Latitude: 37.7341},
	{Longitude: -122.3689, Latitude: 37.7189},
	{Longitude: -122.3701, Latitude: 37.7012},
	{Longitude: -122.3756, Latitude: 37.6853},
	{Longitude: -122.3831, Latitude: 37.6695},
	{Longitude: -122.3894, Latitude: 37.6533},
	{Longitude: -122.3921, Latitude: 37.6213},
}

// segment returns the bounding route indexes and the fraction between them for progress p.
func segment(p float64) (lo, hi int, frac float64) {
	p = min(max(p, 0), 1)
	exact := p * float64(len(route)-1)
	lo = int(math.Floor(exact))
	hi = min(lo+1, len(route)-1)
	return lo, hi, exact - float64(lo)
}

// Position interpolates the vehicle position along the route for progress p.
func Position(p float64) models.Location {
	lo, hi, frac := segment(p)
	return calculator.Lerp(route[lo], route[hi], frac)
}

// Heading returns the bearing of the route segment the vehicle is on.
func Heading(p float64) float64 {
	lo, hi, _ := segment(p)
	if lo == hi {
		lo = hi - 1
	}
	return calculator.Bearing(route[lo], route[hi])
}
