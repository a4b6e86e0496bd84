package testutil

import (
	"context"

	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/zclconf/go-cty/cty"
)

// TestPipelineOperator takes a required input baz and an optional input
// qux and returns a single output.
type TestPipelineOperator struct {
	Configured bool
}

type PipelineInputs struct {
	Baz string `op:"baz"`
	Qux int    `op:"qux,optional"`
}

type PipelineOutputs struct {
	LoadedModel string `op:"loaded model"`
}

func (o *TestPipelineOperator) Configure(ctx context.Context) error {
	o.Configured = true
	return nil
}

func (o *TestPipelineOperator) Apply(ctx context.Context, in PipelineInputs) (PipelineOutputs, error) {
	return PipelineOutputs{LoadedModel: in.Baz}, nil
}

// PipelineOperatorSpec declares TestPipelineOperator without a name, so the
// name is derived from the type.
func PipelineOperatorSpec() declare.Spec {
	return declare.Spec{
		Description: "test pipeline operator description",
		Inputs: map[string]descriptor.InputSpec{
			"baz": {Description: "required input"},
			"qux": {Description: "optional input"},
		},
		Outputs: []descriptor.OutputSpec{
			{Name: "loaded model", Description: "the loaded model"},
		},
	}
}

// MissingInputOperator has no baz in its Apply inputs.
type MissingInputOperator struct{}

func (o *MissingInputOperator) Apply(ctx context.Context, in struct {
	Qux int `op:"qux,optional"`
}) (PipelineOutputs, error) {
	return PipelineOutputs{}, nil
}

// DetectorParams are the configure-time parameters of TestDetector.
type DetectorParams struct {
	SomeStr   string  `op:"some_str,optional"`
	ValueName float64 `op:"value_name"`
}

// TestDetector is a detector primitive with a conditional parameter.
type TestDetector struct {
	Params DetectorParams
}

func (d *TestDetector) Configure(ctx context.Context, p DetectorParams) error {
	d.Params = p
	return nil
}

func (d *TestDetector) Forward(ctx context.Context, input []float64) ([]float64, error) {
	return input, nil
}

func (d *TestDetector) GetStateDict() map[string]any      { return nil }
func (d *TestDetector) SetStateDict(map[string]any) error { return nil }

// DetectorSpec declares TestDetector. some_str is only available while
// value_name is one of 1 or 2.5 and at least 3.5.
func DetectorSpec() declare.Spec {
	minimum := 3.5
	return declare.Spec{
		Name:        "test detector",
		Description: "test detector description",
		Parameters: map[string]descriptor.ParameterSpec{
			"some_str": {
				Type: descriptor.ParamString,
				When: map[string]descriptor.Conditions{
					"value_name": {Values: []cty.Value{cty.NumberIntVal(1), cty.NumberFloatVal(2.5)}, Min: &minimum},
				},
			},
			"value_name": {Type: descriptor.ParamFloat},
		},
	}
}

// DetectorWithoutForward is a detector lacking its Forward method.
type DetectorWithoutForward struct{}

func (d *DetectorWithoutForward) Configure(ctx context.Context) error { return nil }

// TestNonNeuralClassifier implements every classifier capability.
type TestNonNeuralClassifier struct{}

func (c *TestNonNeuralClassifier) Configure(ctx context.Context) error { return nil }
func (c *TestNonNeuralClassifier) Fit(ctx context.Context, x [][]float64, y []string) error {
	return nil
}
func (c *TestNonNeuralClassifier) Predict(ctx context.Context, x [][]float64) ([]string, error) {
	return nil, nil
}
func (c *TestNonNeuralClassifier) PredictProba(ctx context.Context, x [][]float64) ([]map[string]float64, error) {
	return nil, nil
}
func (c *TestNonNeuralClassifier) GetStateDict() map[string]any      { return nil }
func (c *TestNonNeuralClassifier) SetStateDict(map[string]any) error { return nil }

// ClassifierSpec declares TestNonNeuralClassifier.
func ClassifierSpec() declare.Spec {
	return declare.Spec{
		Name:        "test non-neural classifier",
		Description: "test non-neural classifier description",
	}
}

// ClassifierWithoutProba is a classifier lacking PredictProba.
type ClassifierWithoutProba struct{}

func (c *ClassifierWithoutProba) Fit(ctx context.Context, x [][]float64, y []string) error {
	return nil
}
func (c *ClassifierWithoutProba) Predict(ctx context.Context, x [][]float64) ([]string, error) {
	return nil, nil
}
func (c *ClassifierWithoutProba) GetStateDict() map[string]any      { return nil }
func (c *ClassifierWithoutProba) SetStateDict(map[string]any) error { return nil }
