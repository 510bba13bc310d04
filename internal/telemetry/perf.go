package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one update pass.
const (
	PhaseInput     = "input"
	PhaseDerive    = "derive_lights"
	PhaseDiscovery = "discovery"
	PhaseFog       = "fog"
)

// PerfSample holds timing data for a single update pass.
type PerfSample struct {
	UpdateDuration time.Duration
	Phases         map[string]time.Duration
}

// PerfCollector tracks timing over a rolling window of update passes and
// rendered frames.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	updateStart   time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing, in milliseconds
	frames        []float64
	frameIndex    int
	frameCount    int
	lastFrameTime time.Time
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of update passes to aggregate over (e.g., 120 for two
// seconds at 60 updates per second).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		frames:        make([]float64, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartUpdate begins timing a new update pass.
func (p *PerfCollector) StartUpdate() {
	p.updateStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, closing out the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndUpdate finishes timing the current update pass and records the sample.
func (p *PerfCollector) EndUpdate() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		UpdateDuration: now.Sub(p.updateStart),
		Phases:         p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame notes that a frame was just drawn. Call once per Draw.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		ms := float64(now.Sub(p.lastFrameTime).Microseconds()) / 1000
		p.frames[p.frameIndex] = ms
		p.frameIndex = (p.frameIndex + 1) % p.windowSize
		if p.frameCount < p.windowSize {
			p.frameCount++
		}
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Update timing
	AvgUpdateDuration time.Duration
	MinUpdateDuration time.Duration
	MaxUpdateDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total update time
	PhasePct map[string]float64

	// Throughput
	UpdatesPerSecond float64

	// Frame timing distribution over the window
	FrameMeanMS float64
	FrameStdMS  float64
	FrameP50MS  float64
	FrameP90MS  float64
	FrameP99MS  float64
	FPS         float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}

	if p.frameCount > 0 {
		sorted := make([]float64, p.frameCount)
		copy(sorted, p.frames[:p.frameCount])
		sort.Float64s(sorted)

		stats.FrameMeanMS = stat.Mean(sorted, nil)
		if p.frameCount > 1 {
			stats.FrameStdMS = stat.StdDev(sorted, nil)
		}
		stats.FrameP50MS = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		stats.FrameP90MS = stat.Quantile(0.9, stat.Empirical, sorted, nil)
		stats.FrameP99MS = stat.Quantile(0.99, stat.Empirical, sorted, nil)
		if stats.FrameMeanMS > 0 {
			stats.FPS = 1000 / stats.FrameMeanMS
		}
	}

	if p.sampleCount == 0 {
		return stats
	}

	var totalUpdate time.Duration
	var minUpdate, maxUpdate time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalUpdate += s.UpdateDuration

		if i == 0 || s.UpdateDuration < minUpdate {
			minUpdate = s.UpdateDuration
		}
		if s.UpdateDuration > maxUpdate {
			maxUpdate = s.UpdateDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgUpdate := totalUpdate / time.Duration(p.sampleCount)

	for phase, sum := range phaseSum {
		stats.PhaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgUpdate > 0 {
			stats.PhasePct[phase] = float64(stats.PhaseAvg[phase]) / float64(avgUpdate) * 100
		}
	}

	stats.AvgUpdateDuration = avgUpdate
	stats.MinUpdateDuration = minUpdate
	stats.MaxUpdateDuration = maxUpdate
	if avgUpdate > 0 {
		stats.UpdatesPerSecond = float64(time.Second) / float64(avgUpdate)
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_update_us", s.AvgUpdateDuration.Microseconds(),
		"min_update_us", s.MinUpdateDuration.Microseconds(),
		"max_update_us", s.MaxUpdateDuration.Microseconds(),
		"updates_per_sec", int(s.UpdatesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs,
			"fps", int(s.FPS),
			"frame_p50_ms", int(s.FrameP50MS*10)/10.0,
			"frame_p99_ms", int(s.FrameP99MS*10)/10.0,
		)
	}

	phases := []string{PhaseInput, PhaseDerive, PhaseDiscovery, PhaseFog}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_update_us", s.AvgUpdateDuration.Microseconds()),
		slog.Int64("min_update_us", s.MinUpdateDuration.Microseconds()),
		slog.Int64("max_update_us", s.MaxUpdateDuration.Microseconds()),
		slog.Float64("updates_per_sec", s.UpdatesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs,
			slog.Float64("fps", s.FPS),
			slog.Float64("frame_mean_ms", s.FrameMeanMS),
			slog.Float64("frame_std_ms", s.FrameStdMS),
			slog.Float64("frame_p50_ms", s.FrameP50MS),
			slog.Float64("frame_p90_ms", s.FrameP90MS),
			slog.Float64("frame_p99_ms", s.FrameP99MS),
		)
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgUpdateUS   int64   `csv:"avg_update_us"`
	MinUpdateUS   int64   `csv:"min_update_us"`
	MaxUpdateUS   int64   `csv:"max_update_us"`
	UpdatesPerSec float64 `csv:"updates_per_sec"`
	FPS           float64 `csv:"fps"`
	FrameP50MS    float64 `csv:"frame_p50_ms"`
	FrameP90MS    float64 `csv:"frame_p90_ms"`
	FrameP99MS    float64 `csv:"frame_p99_ms"`
	InputPct      float64 `csv:"input_pct"`
	DerivePct     float64 `csv:"derive_lights_pct"`
	DiscoveryPct  float64 `csv:"discovery_pct"`
	FogPct        float64 `csv:"fog_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgUpdateUS:   s.AvgUpdateDuration.Microseconds(),
		MinUpdateUS:   s.MinUpdateDuration.Microseconds(),
		MaxUpdateUS:   s.MaxUpdateDuration.Microseconds(),
		UpdatesPerSec: s.UpdatesPerSecond,
		FPS:           s.FPS,
		FrameP50MS:    s.FrameP50MS,
		FrameP90MS:    s.FrameP90MS,
		FrameP99MS:    s.FrameP99MS,
		InputPct:      s.PhasePct[PhaseInput],
		DerivePct:     s.PhasePct[PhaseDerive],
		DiscoveryPct:  s.PhasePct[PhaseDiscovery],
		FogPct:        s.PhasePct[PhaseFog],
	}
}
