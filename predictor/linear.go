package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Scaler standardises features as (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(s.Mean) != len(x) || len(s.Scale) != len(x) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// LinearModel is a logistic-regression classifier exported from training.
type LinearModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	// Probability is false for margin-only models such as linear SVMs;
	// they predict a label without confidence.
	Probability bool    `json:"probability"`
	Scaler      *Scaler `json:"-"`
}

func (m *LinearModel) Predict(ctx context.Context, features []float64) (Result, error) {
	if len(features) != len(m.Weights) {
		return Result{}, fmt.Errorf("model expects %d features, got %d", len(m.Weights), len(features))
	}

	x := features
	if m.Scaler != nil {
		var err error
		if x, err = m.Scaler.Transform(features); err != nil {
			return Result{}, err
		}
	}

	z := m.Intercept
	for i, w := range m.Weights {
		z += w * x[i]
	}

	if !m.Probability {
		return Result{Label: label(z > 0)}, nil
	}

	p := 1 / (1 + math.Exp(-z))
	confidence := math.Max(p, 1-p)
	return Result{Label: label(z > 0), Confidence: &confidence}, nil
}

func LoadLinearModel(path string) (*LinearModel, error) {
	var m LinearModel
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("%s: model has no weights", path)
	}
	return &m, nil
}

func LoadScaler(path string) (*Scaler, error) {
	var s Scaler
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("%s: mean and scale lengths differ", path)
	}
	return &s, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
