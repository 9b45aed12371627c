package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTripPlanned(t *testing.T) {
	before := testutil.ToFloat64(TripsPlannedTotal.WithLabelValues("danger"))
	RecordTripPlanned(types.TierDanger)
	if got := testutil.ToFloat64(TripsPlannedTotal.WithLabelValues("danger")); got != before+1 {
		t.Fatalf("expected counter to grow by one, got %v -> %v", before, got)
	}
}

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(DatabaseQueriesTotal.WithLabelValues("test_op", "error"))

	func() (err error) {
		defer ObserveQuery("test_op", time.Now(), &err)
		return errors.New("boom")
	}()

	if got := testutil.ToFloat64(DatabaseQueriesTotal.WithLabelValues("test_op", "error")); got != before+1 {
		t.Fatalf("expected error counter to grow by one, got %v -> %v", before, got)
	}
}
