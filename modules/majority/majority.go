// Package majority provides a baseline non-neural classifier that predicts
// the most frequent training label. Pipelines use it to measure how much a
// real model improves over guessing.
package majority

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/opgrid/internal/classes"
	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ErrNotFitted is returned by predictions made before Fit.
var ErrNotFitted = errors.New("classifier is not fitted")

// Classifier counts labels during Fit and predicts the most frequent one.
// Smoothing is added to every count when computing probabilities.
type Classifier struct {
	mu        sync.RWMutex
	smoothing float64
	counts    map[string]float64
}

type Params struct {
	Smoothing float64 `op:"smoothing,optional"`
}

func (c *Classifier) Configure(ctx context.Context, p Params) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.smoothing = p.Smoothing
	return nil
}

// Fit records the label frequencies. Features are ignored.
func (c *Classifier) Fit(ctx context.Context, features [][]float64, labels []string) error {
	if len(features) != len(labels) {
		return fmt.Errorf("got %d samples but %d labels", len(features), len(labels))
	}
	if len(labels) == 0 {
		return errors.New("cannot fit on an empty training set")
	}
	counts := make(map[string]float64)
	for _, l := range labels {
		counts[l]++
	}
	c.mu.Lock()
	c.counts = counts
	c.mu.Unlock()
	return nil
}

// Predict returns the majority label for every sample. Ties go to the
// label that sorts first.
func (c *Classifier) Predict(ctx context.Context, features [][]float64) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.counts) == 0 {
		return nil, ErrNotFitted
	}
	best := ""
	for _, label := range slices.Sorted(maps.Keys(c.counts)) {
		if best == "" || c.counts[label] > c.counts[best] {
			best = label
		}
	}
	out := make([]string, len(features))
	for i := range out {
		out[i] = best
	}
	return out, nil
}

// PredictProba returns the smoothed label distribution for every sample.
func (c *Classifier) PredictProba(ctx context.Context, features [][]float64) ([]map[string]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.counts) == 0 {
		return nil, ErrNotFitted
	}
	total := 0.0
	for _, n := range c.counts {
		total += n + c.smoothing
	}
	dist := make(map[string]float64, len(c.counts))
	for label, n := range c.counts {
		dist[label] = (n + c.smoothing) / total
	}
	out := make([]map[string]float64, len(features))
	for i := range out {
		out[i] = maps.Clone(dist)
	}
	return out, nil
}

// GetStateDict returns the fitted state.
func (c *Classifier) GetStateDict() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]any{
		"smoothing": c.smoothing,
		"counts":    maps.Clone(c.counts),
	}
}

// SetStateDict restores state produced by GetStateDict.
func (c *Classifier) SetStateDict(state map[string]any) error {
	counts, ok := state["counts"].(map[string]float64)
	if !ok {
		return errors.New("state has no label counts")
	}
	smoothing, _ := state["smoothing"].(float64)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = maps.Clone(counts)
	c.smoothing = smoothing
	return nil
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the classifier as a model primitive.
func (m *Module) Register(r *registry.Registry) error {
	smoothing := cty.NumberIntVal(0)
	zero := 0.0
	_, err := declare.Primitive[Classifier](r, descriptor.KindNonNeuralClassifier, declare.Spec{
		Name:        "majority classifier",
		Description: "Predicts the most frequent training label.",
		Category:    "CLASSIFIER",
		Parameters: map[string]descriptor.ParameterSpec{
			"smoothing": {
				Caption:    "Additive smoothing",
				Type:       descriptor.ParamFloat,
				Default:    &smoothing,
				Conditions: descriptor.Conditions{Min: &zero},
			},
		},
	})
	return err
}

// AddClasses makes the classifier available to manifests.
func (m *Module) AddClasses(c *classes.Classes) {
	classes.Add[Classifier](c)
}
