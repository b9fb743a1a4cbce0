package observability

import (
	"testing"
)

func TestGetMatchingSnapshot_CountsOkRuns(t *testing.T) {
	m := NewMetrics()

	m.IncrMatchRun("ok")
	m.RecordMatchOutcomes(2, 1, 3, 0)

	snap := m.GetMatchingSnapshot()
	if snap.TotalMatchRuns != 1 {
		t.Errorf("expected 1 match run, got %d", snap.TotalMatchRuns)
	}
	if snap.ErrorRate != 0 {
		t.Errorf("expected error rate 0, got %f", snap.ErrorRate)
	}
	if snap.QualifiedTotal != 2 || snap.NeedMoreInfoTotal != 1 || snap.NotQualifiedTotal != 3 {
		t.Errorf("unexpected bucket totals: %+v", snap)
	}
}

func TestGetMatchingSnapshot_ErrorRate(t *testing.T) {
	m := NewMetrics()

	m.IncrMatchRun("ok")
	m.IncrMatchRun("error")

	snap := m.GetMatchingSnapshot()
	if snap.TotalMatchRuns != 2 {
		t.Errorf("expected 2 match runs, got %d", snap.TotalMatchRuns)
	}
	if snap.ErrorRate != 0.5 {
		t.Errorf("expected error rate 0.5, got %f", snap.ErrorRate)
	}
}

func TestGetMatchingSnapshot_CacheHitRate(t *testing.T) {
	m := NewMetrics()

	m.IncrCacheHit("catalog")
	m.IncrCacheHit("catalog")
	m.IncrCacheMiss("catalog")

	snap := m.GetMatchingSnapshot()
	if snap.CacheHitRate < 0.66 || snap.CacheHitRate > 0.67 {
		t.Errorf("expected cache hit rate ~0.67, got %f", snap.CacheHitRate)
	}
}

func TestGetMatchingSnapshot_InvalidProducts(t *testing.T) {
	m := NewMetrics()

	m.RecordMatchOutcomes(1, 0, 0, 2)

	snap := m.GetMatchingSnapshot()
	if snap.InvalidProducts != 2 {
		t.Errorf("expected 2 invalid products, got %d", snap.InvalidProducts)
	}
}
