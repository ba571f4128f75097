package predictor

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/saqibullah/diagnosify/disease"
)

// Candidate file names per disease, first match wins.
var (
	modelFiles = map[string][]string{
		"diabetes":   {"diabetes_model.json"},
		"heart":      {"heart_model.json", "heartDisease_model.json"},
		"parkinsons": {"parkinsons_model.json", "parkinson_model.json"},
	}
	scalerFiles = map[string][]string{
		"diabetes":   {"scaler_diabetes.json"},
		"parkinsons": {"scaler_parkinson.json", "scaler_parkinsons.json"},
	}
)

type LoadOptions struct {
	Dir string
	// RemoteURL, when set, serves diseases that have no local model.
	RemoteURL     string
	RemoteTimeout time.Duration
}

// Load builds a registry from the model files in opts.Dir. A model that
// fails to load is logged and skipped so the remaining diseases stay
// available.
func Load(opts LoadOptions) *Registry {
	reg := NewRegistry()

	for _, d := range disease.All() {
		m, err := loadLocal(opts.Dir, d)
		switch {
		case err != nil:
			slog.Error("Failed to load model", "disease", d.Type, "error", err)
		case m != nil:
			reg.Register(d.Type, m)
			slog.Info("Loaded model", "disease", d.Type, "scaled", m.Scaler != nil, "probability", m.Probability)
			continue
		}

		if opts.RemoteURL != "" {
			reg.Register(d.Type, NewRemote(opts.RemoteURL, d.Type, opts.RemoteTimeout))
			slog.Info("Using remote model", "disease", d.Type, "url", opts.RemoteURL)
		}
	}
	return reg
}

// loadLocal returns nil without error when no model file exists.
func loadLocal(dir string, d disease.Disease) (*LinearModel, error) {
	path := firstExisting(dir, modelFiles[d.Type])
	if path == "" {
		return nil, nil
	}
	m, err := LoadLinearModel(path)
	if err != nil {
		return nil, err
	}
	if len(m.Weights) != len(d.Fields) {
		return nil, fmt.Errorf("%s: %d weights, %s has %d fields", path, len(m.Weights), d.Type, len(d.Fields))
	}

	if sp := firstExisting(dir, scalerFiles[d.Type]); sp != "" {
		s, err := LoadScaler(sp)
		if err != nil {
			return nil, err
		}
		m.Scaler = s
	}
	return m, nil
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		} else if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Cannot stat model file", "path", path, "error", err)
		}
	}
	return ""
}
