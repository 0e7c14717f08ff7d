package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/seirb/internal/experiment"
)

// Bundle file names inside a run directory.
const (
	BundleJSON = "run.json"
	BundleCSV  = "trajectory.csv"
	BundlePNG  = "trajectory.png"
)

// SaveBundle writes run.json, trajectory.csv and trajectory.png into
// baseDir/<run id> and returns that directory.
func SaveBundle(baseDir string, run *experiment.Run) (string, error) {
	runDir := filepath.Join(baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{BundleJSON, func(f *os.File) error { return WriteJSON(f, run) }},
		{BundleCSV, func(f *os.File) error { return WriteCSV(f, run.Trajectory) }},
		{BundlePNG, func(f *os.File) error { return WritePNG(f, run.Trajectory, 0, 0) }},
	}

	for _, w := range writers {
		if err := writeFile(filepath.Join(runDir, w.name), w.write); err != nil {
			return "", fmt.Errorf("%s: %w", w.name, err)
		}
	}
	return runDir, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
