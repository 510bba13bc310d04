package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorBasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartUpdate()
		pc.StartPhase(PhaseDerive)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDiscovery)
		time.Sleep(200 * time.Microsecond)
		pc.EndUpdate()
	}

	stats := pc.Stats()

	if stats.AvgUpdateDuration <= 0 {
		t.Error("Expected positive average update duration")
	}
	if len(stats.PhaseAvg) == 0 {
		t.Error("Expected phase averages to be populated")
	}
	if _, ok := stats.PhaseAvg[PhaseDerive]; !ok {
		t.Error("Expected derive_lights phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseDiscovery]; !ok {
		t.Error("Expected discovery phase to be tracked")
	}
}

func TestPerfCollectorPhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartUpdate()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndUpdate()
	}

	stats := pc.Stats()

	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("Expected slow phase (%v%%) above fast phase (%v%%)",
			stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgUpdateDuration != 0 {
		t.Error("Expected zero avg update duration for empty collector")
	}
	if stats.PhaseAvg == nil {
		t.Error("Expected non-nil PhaseAvg map")
	}
	if stats.PhasePct == nil {
		t.Error("Expected non-nil PhasePct map")
	}
	if stats.FPS != 0 {
		t.Error("Expected zero FPS with no frames recorded")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	// Overfill the window; the collector must keep aggregating cleanly.
	for i := 0; i < 10; i++ {
		pc.StartUpdate()
		pc.StartPhase(PhaseInput)
		pc.EndUpdate()
	}

	stats := pc.Stats()

	if stats.AvgUpdateDuration <= 0 {
		t.Error("Expected positive average update duration after window filled")
	}
	if stats.UpdatesPerSecond <= 0 {
		t.Error("Expected positive updates per second")
	}
}

func TestPerfCollectorFramePercentiles(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes the baseline, the rest measure durations.
	pc.RecordFrame()
	for i := 0; i < 6; i++ {
		time.Sleep(5 * time.Millisecond)
		pc.RecordFrame()
	}

	stats := pc.Stats()

	if stats.FrameP50MS <= 0 {
		t.Error("Expected positive frame p50")
	}
	if stats.FrameP90MS < stats.FrameP50MS {
		t.Errorf("Expected p90 (%v) >= p50 (%v)", stats.FrameP90MS, stats.FrameP50MS)
	}
	if stats.FrameP99MS < stats.FrameP90MS {
		t.Errorf("Expected p99 (%v) >= p90 (%v)", stats.FrameP99MS, stats.FrameP90MS)
	}
	if stats.FPS <= 0 {
		t.Error("Expected positive FPS")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgUpdateDuration: 2 * time.Millisecond,
		UpdatesPerSecond:  500,
		FrameP50MS:        16.4,
		PhasePct: map[string]float64{
			PhaseDiscovery: 40,
			PhaseFog:       5,
		},
	}

	row := stats.ToCSV(500)

	if row.WindowEnd != 500 {
		t.Errorf("Expected window end 500, got %d", row.WindowEnd)
	}
	if row.AvgUpdateUS != 2000 {
		t.Errorf("Expected 2000us average, got %d", row.AvgUpdateUS)
	}
	if row.DiscoveryPct != 40 {
		t.Errorf("Expected discovery pct 40, got %v", row.DiscoveryPct)
	}
	if row.FrameP50MS != 16.4 {
		t.Errorf("Expected frame p50 16.4, got %v", row.FrameP50MS)
	}
}
