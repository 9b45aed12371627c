package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/internal/service/trip"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrips serves trips out of a map and summarizes them with the real trip model.
type fakeTrips struct {
	trips   map[uuid.UUID]*models.Trip
	catalog *trip.Catalog
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{
		trips:   make(map[uuid.UUID]*models.Trip),
		catalog: trip.NewCatalog(trip.DefaultDestinations),
	}
}

func (f *fakeTrips) add(driverID uuid.UUID, distance float64, pct int) *models.Trip {
	t := &models.Trip{ID: uuid.New(), DriverID: driverID, DestinationName: "Airport", DistanceMiles: distance, SpeedPercentage: pct}
	f.trips[t.ID] = t
	return t
}

func (f *fakeTrips) Plan(_ context.Context, driverID uuid.UUID, name string, pct int) (*models.Trip, models.TripSummary, error) {
	d, err := f.catalog.Select(name)
	if err != nil {
		return nil, models.TripSummary{}, err
	}
	t := f.add(driverID, d.DistanceMiles, pct)
	t.DestinationName, t.Address = d.Name, d.Address
	s, err := trip.Summarize(d.DistanceMiles, pct)
	return t, s, err
}

func (f *fakeTrips) Get(_ context.Context, driverID, tripID uuid.UUID) (*models.Trip, models.TripSummary, error) {
	t, ok := f.trips[tripID]
	if !ok {
		return nil, models.TripSummary{}, types.ErrTripNotFound
	}
	if t.DriverID != driverID {
		return nil, models.TripSummary{}, types.ErrForbidden
	}
	s, err := trip.Summarize(t.DistanceMiles, t.SpeedPercentage)
	return t, s, err
}

func (f *fakeTrips) UpdateSpeed(ctx context.Context, driverID, tripID uuid.UUID, pct int) (*models.Trip, models.TripSummary, error) {
	t, _, err := f.Get(ctx, driverID, tripID)
	if err != nil {
		return nil, models.TripSummary{}, err
	}
	t.SpeedPercentage = pct
	return f.Get(ctx, driverID, tripID)
}

func TestTrip_Plan(t *testing.T) {
	h := NewTrip(newFakeTrips(), testLogger())

	tests := []struct {
		name string
		body string
		user *models.User
		want int
	}{
		{name: "created", body: `{"destination":"airport","speed_percentage":20}`, user: testDriver, want: http.StatusCreated},
		{name: "anonymous", body: `{"destination":"Airport","speed_percentage":20}`, want: http.StatusUnauthorized},
		{name: "malformed", body: `{"destination":`, user: testDriver, want: http.StatusBadRequest},
		{name: "speed missing", body: `{"destination":"Airport"}`, user: testDriver, want: http.StatusUnprocessableEntity},
		{name: "speed out of range", body: `{"destination":"Airport","speed_percentage":51}`, user: testDriver, want: http.StatusUnprocessableEntity},
		{name: "unknown destination", body: `{"destination":"Mars","speed_percentage":10}`, user: testDriver, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Plan(rec, newRequest(http.MethodPost, "/trips", tt.body, tt.user))
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTrip_PlanResponse(t *testing.T) {
	h := NewTrip(newFakeTrips(), testLogger())

	rec := httptest.NewRecorder()
	h.Plan(rec, newRequest(http.MethodPost, "/trips", `{"destination":"Airport","speed_percentage":20}`, testDriver))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	tr := body["trip"].(map[string]any)
	assert.Equal(t, "Airport", tr["destination_name"])
	assert.Equal(t, testDriver.ID.String(), tr["driver_id"])

	metrics := body["summary"].(map[string]any)["metrics"].(map[string]any)
	assert.InDelta(t, 54.0, metrics["effective_speed_mph"], 1e-9)
	assert.InDelta(t, 7.13, metrics["time_saved_minutes"], 0.01)
}

func TestTrip_Get(t *testing.T) {
	svc := newFakeTrips()
	own := svc.add(testDriver.ID, 10, 0)
	other := svc.add(uuid.New(), 10, 0)
	h := NewTrip(svc, testLogger())

	tests := []struct {
		name string
		id   string
		want int
	}{
		{name: "own", id: own.ID.String(), want: http.StatusOK},
		{name: "someone else's", id: other.ID.String(), want: http.StatusForbidden},
		{name: "missing", id: uuid.NewString(), want: http.StatusNotFound},
		{name: "bad id", id: "42", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRequest(http.MethodGet, "/trips/"+tt.id, "", testDriver)
			r.SetPathValue("trip_id", tt.id)
			rec := httptest.NewRecorder()
			h.Get(rec, r)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTrip_UpdateSpeed(t *testing.T) {
	svc := newFakeTrips()
	tr := svc.add(testDriver.ID, 32.1, 0)
	h := NewTrip(svc, testLogger())

	r := newRequest(http.MethodPatch, "/trips/x/speed", `{"speed_percentage":50}`, testDriver)
	r.SetPathValue("trip_id", tr.ID.String())
	rec := httptest.NewRecorder()
	h.UpdateSpeed(rec, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	display := decodeBody(t, rec)["summary"].(map[string]any)["display"].(map[string]any)
	assert.Equal(t, string(types.TierExtreme), display["tier"])
	assert.Equal(t, true, display["warning"])
	assert.Equal(t, 50, tr.SpeedPercentage)

	r = newRequest(http.MethodPatch, "/trips/x/speed", `{"speed_percentage":-1}`, testDriver)
	r.SetPathValue("trip_id", tr.ID.String())
	rec = httptest.NewRecorder()
	h.UpdateSpeed(rec, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
