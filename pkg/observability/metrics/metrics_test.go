package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := New()

	r.ObserveAssessment("high")
	r.ObserveAssessment("high")
	r.ObserveExtraction([]string{"E11.9", "I50.9"})
	r.ObserveExtraction(nil)
	r.ObserveCacheLookup("hit")
	r.ObserveRequest("GET", "/health", 200, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.assessments.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.extractions.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.extractions.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.entities.WithLabelValues("I50.9")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.requestDuration))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveAssessment("low")
	r.ObserveExtraction([]string{"I10"})
	r.ObserveRequest("GET", "/", 200, time.Millisecond)
}
