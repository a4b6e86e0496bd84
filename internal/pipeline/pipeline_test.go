package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/pipeline"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/specialistvlad/opgrid/internal/testutil"
	"github.com/specialistvlad/opgrid/internal/validate"
	"github.com/specialistvlad/opgrid/modules/albums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, (&albums.Module{}).Register(reg))
	_, err := declare.Operator[testutil.TestPipelineOperator](reg, testutil.PipelineOperatorSpec())
	require.NoError(t, err)
	return reg
}

func holidayPipeline() pipeline.Pipeline {
	return pipeline.Pipeline{
		Name: "holiday training set",
		Steps: []pipeline.Step{
			{
				Name:     "store",
				Operator: "save album",
				Params:   map[string]cty.Value{"name": cty.StringVal("holidays-train")},
				Inputs:   map[string]string{"album": "split.train"},
			},
			{
				Name:     "split",
				Operator: "split album",
				Inputs:   map[string]string{"album": "augment.album"},
			},
			{
				Name:     "load",
				Operator: "select album",
				Params:   map[string]cty.Value{"album": cty.StringVal("albums/holidays")},
			},
			{
				Name:     "augment",
				Operator: "transform album",
				Params:   map[string]cty.Value{"mode": cty.StringVal("rotate"), "angle": cty.NumberIntVal(90)},
				Inputs:   map[string]string{"album": "load.album"},
			},
		},
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	reg := newRegistry(t)

	// --- Act ---
	plan, err := pipeline.Check(context.Background(), reg, holidayPipeline())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"load", "augment", "split", "store"}, plan.Order)
	assert.True(t, plan.Params["split"]["size"].RawEquals(cty.NumberFloatVal(0.8)), "default size applied")
	assert.True(t, plan.Params["augment"]["angle"].RawEquals(cty.NumberIntVal(90)))
}

func TestCheck_OptionalInputMayBeUnwired(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)

	p := pipeline.Pipeline{Name: "model", Steps: []pipeline.Step{
		{Name: "a", Operator: "test pipeline operator", Inputs: map[string]string{"baz": "b.loaded model"}},
		{Name: "b", Operator: "test pipeline operator", Inputs: map[string]string{"baz": "c.loaded model"}},
		{Name: "c", Operator: "test pipeline operator", Inputs: map[string]string{"baz": "d.loaded model"}},
		{Name: "d", Operator: "test pipeline operator", Inputs: map[string]string{}},
	}}

	_, err := pipeline.Check(context.Background(), reg, p)
	require.ErrorIs(t, err, pipeline.ErrUnwiredInput)
	assert.ErrorContains(t, err, "step 'd': required input is not connected: 'baz'")
	assert.NotContains(t, err.Error(), "'qux'")
}

func TestCheck_Problems(t *testing.T) {
	t.Parallel()

	load := pipeline.Step{
		Name:     "load",
		Operator: "select album",
		Params:   map[string]cty.Value{"album": cty.StringVal("albums/holidays")},
	}
	testCases := []struct {
		name    string
		step    pipeline.Step
		target  error
		message string
	}{
		{
			name:    "unknown operator",
			step:    pipeline.Step{Name: "x", Operator: "teleport album"},
			target:  registry.ErrUnknownOperator,
			message: "step 'x': operator 'teleport album' not found",
		},
		{
			name:    "unknown step in reference",
			step:    pipeline.Step{Name: "x", Operator: "split album", Inputs: map[string]string{"album": "ghost.album"}},
			target:  pipeline.ErrUnknownStep,
			message: "step 'x': unknown step 'ghost' in reference 'ghost.album'",
		},
		{
			name:    "malformed reference",
			step:    pipeline.Step{Name: "x", Operator: "split album", Inputs: map[string]string{"album": "load"}},
			message: "step 'x': invalid reference 'load': expected STEP.OUTPUT",
		},
		{
			name:    "missing output",
			step:    pipeline.Step{Name: "x", Operator: "split album", Inputs: map[string]string{"album": "load.train"}},
			message: "step 'x': operator 'select album' of step 'load' has no output 'train'",
		},
		{
			name: "missing input",
			step: pipeline.Step{Name: "x", Operator: "split album", Inputs: map[string]string{
				"album": "load.album", "labels": "load.album",
			}},
			message: "step 'x': operator 'split album' has no input 'labels'",
		},
		{
			name:    "incompatible link",
			step:    pipeline.Step{Name: "x", Operator: "test pipeline operator", Inputs: map[string]string{"baz": "load.album"}},
			target:  validate.ErrIncompatibleLink,
			message: "output 'album' of type studio9.library.albums.Album cannot feed input 'baz' of type string",
		},
		{
			name:    "self reference",
			step:    pipeline.Step{Name: "x", Operator: "transform album", Inputs: map[string]string{"album": "x.album"}},
			target:  pipeline.ErrCycle,
			message: "step 'x': pipeline contains a cycle: step 'x' feeds itself",
		},
		{
			name:    "duplicate step",
			step:    load,
			message: "step 'load': step is declared more than once",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			reg := newRegistry(t)

			_, err := pipeline.Check(context.Background(), reg, pipeline.Pipeline{
				Name:  "broken",
				Steps: []pipeline.Step{load, tc.step},
			})

			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
			assert.ErrorContains(t, err, tc.message)
		})
	}
}

func TestCheck_ParameterViolations(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)

	_, err := pipeline.Check(context.Background(), reg, pipeline.Pipeline{Name: "p", Steps: []pipeline.Step{
		{Name: "load", Operator: "select album"},
		{Name: "split", Operator: "split album", Params: map[string]cty.Value{"size": cty.NumberFloatVal(1.5)},
			Inputs: map[string]string{"album": "load.album"}},
	}})

	require.Error(t, err)
	var cv *validate.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, "album", cv.Parameter)
	assert.Equal(t, validate.RuleRequired, cv.Rule)
	assert.ErrorContains(t, err, "step 'split': parameter 'size' violates rule 'max'")
}

func TestCheck_Cycle(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)

	_, err := pipeline.Check(context.Background(), reg, pipeline.Pipeline{Name: "loop", Steps: []pipeline.Step{
		{Name: "left", Operator: "transform album", Inputs: map[string]string{"album": "right.album"}},
		{Name: "right", Operator: "transform album", Inputs: map[string]string{"album": "left.album"}},
	}})

	assert.ErrorIs(t, err, pipeline.ErrCycle)
}

func TestParseRef(t *testing.T) {
	t.Parallel()

	ref, err := pipeline.ParseRef("model.v2.loaded model")
	require.NoError(t, err)
	assert.Equal(t, pipeline.Ref{Step: "model.v2", Output: "loaded model"}, ref)
	assert.Equal(t, "model.v2.loaded model", ref.String())

	for _, bad := range []string{"", "load", ".album", "load."} {
		_, err := pipeline.ParseRef(bad)
		assert.Error(t, err, bad)
	}
}

const holidayHCL = `
pipeline "holiday training set" {
  step "load" {
    operator = "select album"
    params   = { album = "albums/holidays" }
  }
  step "augment" {
    operator = "transform album"
    params   = { mode = "rotate", angle = 90 }
    inputs   = { album = "load.album" }
  }
  step "split" {
    operator = "split album"
    inputs   = { album = "augment.album" }
  }
}

pipeline "empty" {}
`

func TestLoadFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "holidays.hcl")
	require.NoError(t, os.WriteFile(path, []byte(holidayHCL), 0o644))

	// --- Act ---
	pipelines, err := pipeline.LoadFile(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, pipelines, 2)
	p := pipelines[0]
	assert.Equal(t, "holiday training set", p.Name)
	require.Len(t, p.Steps, 3)
	assert.Equal(t, "transform album", p.Steps[1].Operator)
	assert.Equal(t, map[string]string{"album": "load.album"}, p.Steps[1].Inputs)
	assert.True(t, p.Steps[1].Params["mode"].RawEquals(cty.StringVal("rotate")))
	assert.Nil(t, p.Steps[2].Params)
	assert.Equal(t, 7, p.Steps[1].Range.Start.Line)
	assert.Empty(t, pipelines[1].Steps)

	plan, err := pipeline.Check(context.Background(), newRegistry(t), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"load", "augment", "split"}, plan.Order)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := pipeline.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	testCases := []struct {
		name    string
		src     string
		summary string
	}{
		{
			name:    "missing operator",
			src: `
pipeline "p" {
  step "s" {}
}`,
			summary: "Missing required argument",
		},
		{
			name:    "params is not an object",
			src: `
pipeline "p" {
  step "s" {
    operator = "split album"
    params   = "size=0.5"
  }
}`,
			summary: "Invalid step parameters",
		},
		{
			name:    "unexpected block",
			src: `
operator "s" {
}`,
			summary: "Unsupported block type",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			file, diags := hclparse.NewParser().ParseHCL([]byte(tc.src), "test.hcl")
			require.False(t, diags.HasErrors(), diags.Error())

			_, diags = pipeline.ParseFile(file)
			require.True(t, diags.HasErrors())
			assert.Equal(t, tc.summary, diags[0].Summary)
		})
	}
}
