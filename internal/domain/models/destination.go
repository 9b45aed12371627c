package models

// Destination is a catalog entry a trip can be planned to.
type Destination struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	DistanceMiles float64 `json:"distance_miles"`
}
