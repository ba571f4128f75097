// Package predictor turns feature vectors into Positive/Negative labels.
package predictor

import (
	"context"
	"sort"
)

const (
	Positive = "Positive"
	Negative = "Negative"
)

// Result is a classification. Confidence is nil when the model cannot
// report a probability.
type Result struct {
	Label      string
	Confidence *float64
}

type Predictor interface {
	Predict(ctx context.Context, features []float64) (Result, error)
}

// Registry maps disease types to predictors. It is not modified after
// start-up and is safe for concurrent reads.
type Registry struct {
	models map[string]Predictor
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Predictor)}
}

func (r *Registry) Register(diseaseType string, p Predictor) {
	r.models[diseaseType] = p
}

func (r *Registry) Get(diseaseType string) (Predictor, bool) {
	p, ok := r.models[diseaseType]
	return p, ok
}

// Loaded returns the disease types with a predictor, sorted.
func (r *Registry) Loaded() []string {
	out := make([]string, 0, len(r.models))
	for name := range r.models {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func label(positive bool) string {
	if positive {
		return Positive
	}
	return Negative
}
