package engine_test

import (
	"testing"
	"time"

	"helpdesk/internal/domain"
	"helpdesk/internal/engine"
)

func TestAnalyticsExtendedEmpty(t *testing.T) {
	env := newTestEnv(t)
	ext := env.Engine.AnalyticsExtended()
	if ext.SLA.PctEstimate != 0 || ext.SLA.OpenBreaches != 0 {
		t.Fatalf("empty store sla = %+v", ext.SLA)
	}
	if len(ext.AgingBuckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(ext.AgingBuckets))
	}
	for i, b := range ext.AgingBuckets {
		if b.Label != engine.BucketLabels[i] || b.Count != 0 {
			t.Fatalf("bucket %d = %+v", i, b)
		}
	}
}

func TestAnalyticsExtendedAllClosed(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "a", domain.PriorityHigh, nil)
	mustBool(t)(env.Engine.CloseTicket(env.Ctx, 1))
	ext := env.Engine.AnalyticsExtended()
	if ext.SLA.PctEstimate != 100 || ext.Totals.Closed != 1 || ext.Totals.Open != 0 {
		t.Fatalf("all closed = %+v", ext)
	}
}

func TestAnalyticsExtendedBucketsAndBreaches(t *testing.T) {
	env := newTestEnv(t)
	// ages at report time: #1 high 200h, #2 medium 100h, #3 low 30h, #4 high 1h, #5 low closed
	env.create(t, "old high", domain.PriorityHigh, nil)
	env.advance(100 * time.Hour)
	env.create(t, "medium", domain.PriorityMedium, nil)
	env.advance(70 * time.Hour)
	env.create(t, "low", domain.PriorityLow, nil)
	env.advance(29 * time.Hour)
	env.create(t, "fresh high", domain.PriorityHigh, nil)
	env.create(t, "closed low", domain.PriorityLow, nil)
	mustBool(t)(env.Engine.CloseTicket(env.Ctx, 5))
	env.advance(58 * time.Minute)

	ext := env.Engine.AnalyticsExtended()
	if ext.Totals.Open != 4 || ext.Totals.Closed != 1 {
		t.Fatalf("totals = %+v", ext.Totals)
	}
	wantBuckets := []int{1, 1, 1, 1}
	for i, b := range ext.AgingBuckets {
		if b.Count != wantBuckets[i] {
			t.Fatalf("bucket %s = %d, want %d", b.Label, b.Count, wantBuckets[i])
		}
	}
	// #1 (200h > 4h) and #2 (100h > 24h) breach; #3 (30h < 72h) and #4 (1h < 4h) do not
	if ext.SLA.OpenBreaches != 2 {
		t.Fatalf("breaches = %d, want 2", ext.SLA.OpenBreaches)
	}
	if ext.SLA.PctEstimate != 50 {
		t.Fatalf("sla pct = %d, want 50", ext.SLA.PctEstimate)
	}
	if len(ext.Ages) != 5 {
		t.Fatalf("ages for every ticket expected, got %d", len(ext.Ages))
	}
	closed := ext.Ages[4]
	if closed.Open || closed.Hours > 0.1 {
		t.Fatalf("closed ticket age must stop at closure: %+v", closed)
	}
}

func TestAnalyticsDashboardGrid(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "a", domain.PriorityHigh, nil)
	env.create(t, "b", domain.PriorityHigh, nil)
	env.create(t, "c", domain.PriorityLow, nil)
	mustBool(t)(env.Engine.CloseTicket(env.Ctx, 2))

	grid := env.Engine.AnalyticsDashboard().Grid()
	want := [4][3]string{
		{"Priority", "Open", "Closed"},
		{"High", "1", "1"},
		{"Medium", "0", "0"},
		{"Low", "1", "0"},
	}
	if grid != want {
		t.Fatalf("grid = %v, want %v", grid, want)
	}
}
