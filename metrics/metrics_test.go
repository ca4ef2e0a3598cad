package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, Register)
	assert.NotPanics(t, Register)

	err := prometheus.Register(DecodeAnomaliesTotal)
	var already prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &already)
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(IntakeTotal.WithLabelValues("CRITICAL"))
	IntakeTotal.WithLabelValues("CRITICAL").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(IntakeTotal.WithLabelValues("CRITICAL")))

	before = testutil.ToFloat64(DecodeAnomaliesTotal)
	DecodeAnomaliesTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(DecodeAnomaliesTotal))
}
