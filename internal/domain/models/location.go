package models

// Location is a point on the map. JSON keeps the lon/lat order used by map widgets.
type Location struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
}
