package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, vec.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	var m dto.Metric
	obs, ok := vec.WithLabelValues(labels...).(prometheus.Metric)
	require.True(t, ok)
	require.NoError(t, obs.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_SaveOutcomes(t *testing.T) {
	m := getMetrics()
	invalid := counterValue(t, m.savesTotal, "invalid")
	failed := counterValue(t, m.savesTotal, "failed")
	remoteErrors := histogramCount(t, m.remoteLatency, OpUpdateSection, "error")

	f := newLoadedFixture(t)
	require.NoError(t, f.session.ChangeField("name", "x"))
	f.session.Submit(context.Background())

	f.repo.updateErr = errors.New("boom")
	require.NoError(t, f.session.ChangeField("name", "Long enough"))
	f.session.Submit(context.Background())

	require.InDelta(t, invalid+1, counterValue(t, m.savesTotal, "invalid"), 0)
	require.InDelta(t, failed+1, counterValue(t, m.savesTotal, "failed"), 0)
	require.Equal(t, remoteErrors+1, histogramCount(t, m.remoteLatency, OpUpdateSection, "error"))
}

func TestMetrics_DeleteOutcomes(t *testing.T) {
	m := getMetrics()
	removed := counterValue(t, m.deletesTotal, "removed")

	f := newLoadedFixture(t)
	require.NoError(t, f.session.OpenDelete())
	f.session.ConfirmDelete(context.Background())

	require.InDelta(t, removed+1, counterValue(t, m.deletesTotal, "removed"), 0)
}
