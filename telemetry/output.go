package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/petalsim/petalfall/config"
)

// OutputManager writes per-window export stats as CSV alongside a
// snapshot of the configuration that produced them.
type OutputManager struct {
	dir           string
	statsFile     *os.File
	headerWritten bool
}

// NewOutputManager creates the output directory and stats file.
// Returns nil if dir is empty (output disabled); a nil manager is safe
// to call.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	statsPath := filepath.Join(dir, "export_stats.csv")
	f, err := os.Create(statsPath)
	if err != nil {
		return nil, fmt.Errorf("creating export_stats.csv: %w", err)
	}

	return &OutputManager{dir: dir, statsFile: f}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow appends one window stats record to the CSV.
func (om *OutputManager) WriteWindow(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing export stats: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
		return fmt.Errorf("writing export stats: %w", err)
	}
	return nil
}

// Close flushes and closes the stats file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	if err := om.statsFile.Close(); err != nil {
		return fmt.Errorf("closing export stats: %w", err)
	}
	return nil
}
