package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"

	"chosenoffset.com/gloam/internal/config"
)

// DiscoveryRecord summarizes fog-of-war progress at the end of a stats window.
type DiscoveryRecord struct {
	WindowEnd       int64   `csv:"window_end"`
	VisibleCells    int     `csv:"visible_cells"`
	DiscoveredCells int     `csv:"discovered_cells"`
	DiscoveredPct   float64 `csv:"discovered_pct"`
	Responses       int     `csv:"responses"`
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir           string
	perfFile      *os.File
	discoveryFile *os.File

	// Track if headers have been written
	perfHeaderWritten      bool
	discoveryHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	perfPath := filepath.Join(dir, "perf.csv")
	f, err := os.Create(perfPath)
	if err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	discoveryPath := filepath.Join(dir, "discovery.csv")
	f, err = os.Create(discoveryPath)
	if err != nil {
		om.perfFile.Close()
		return nil, fmt.Errorf("creating discovery.csv: %w", err)
	}
	om.discoveryFile = f

	return om, nil
}

// WriteConfig saves the active configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}

	if !om.perfHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// WriteDiscovery writes a fog-of-war progress record to discovery.csv.
func (om *OutputManager) WriteDiscovery(rec DiscoveryRecord) error {
	if om == nil {
		return nil
	}

	records := []DiscoveryRecord{rec}

	if !om.discoveryHeaderWritten {
		if err := gocsv.Marshal(records, om.discoveryFile); err != nil {
			return fmt.Errorf("writing discovery: %w", err)
		}
		om.discoveryHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.discoveryFile); err != nil {
			return fmt.Errorf("writing discovery: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files, logging their final sizes.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.perfFile != nil {
		if info, err := om.perfFile.Stat(); err == nil {
			slog.Info("telemetry file closed", "file", "perf.csv", "size", humanize.Bytes(uint64(info.Size())))
		}
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.discoveryFile != nil {
		if info, err := om.discoveryFile.Stat(); err == nil {
			slog.Info("telemetry file closed", "file", "discovery.csv", "size", humanize.Bytes(uint64(info.Size())))
		}
		if err := om.discoveryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
