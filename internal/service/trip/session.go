package trip

import (
	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
)

// Session holds the trip parameters of one user while they plan a trip.
// It is not safe for concurrent use.
type Session struct {
	params models.TripParams
}

func NewSession() *Session {
	return &Session{}
}

// SelectDestination copies the address and distance of a catalog entry.
func (s *Session) SelectDestination(d models.Destination) {
	dist := d.DistanceMiles
	s.params.Destination = d.Address
	s.params.DistanceMiles = &dist
}

// SetDestinationText records free text. Only a catalog selection sets a distance.
func (s *Session) SetDestinationText(text string) {
	s.params.Destination = text
	s.params.DistanceMiles = nil
}

func (s *Session) SetSpeedPercentage(pct int) error {
	if pct < MinSpeedPercentage || pct > MaxSpeedPercentage {
		return types.ErrInvalidSpeedPercentage
	}
	s.params.SpeedPercentage = pct
	return nil
}

func (s *Session) Params() models.TripParams {
	p := s.params
	if p.DistanceMiles != nil {
		d := *p.DistanceMiles
		p.DistanceMiles = &d
	}
	return p
}

func (s *Session) Planned() bool {
	return s.params.DistanceMiles != nil
}

// Summary derives metrics and presentation from the current parameters.
func (s *Session) Summary() (models.TripSummary, error) {
	if !s.Planned() {
		return models.TripSummary{}, types.ErrTripNotPlanned
	}
	return Summarize(*s.params.DistanceMiles, s.params.SpeedPercentage)
}
