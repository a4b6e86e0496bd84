package majority

import (
	"context"
	"testing"

	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestClassifier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &Classifier{}
	require.NoError(t, c.Configure(ctx, Params{Smoothing: 1}))

	_, err := c.Predict(ctx, [][]float64{{1}})
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, c.Fit(ctx, [][]float64{{1}, {2}, {3}}, []string{"dog", "cat", "dog"}))

	pred, err := c.Predict(ctx, [][]float64{{0}, {0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "dog"}, pred)

	proba, err := c.PredictProba(ctx, [][]float64{{0}})
	require.NoError(t, err)
	require.Len(t, proba, 1)
	assert.InDelta(t, 3.0/5.0, proba[0]["dog"], 1e-9)
	assert.InDelta(t, 2.0/5.0, proba[0]["cat"], 1e-9)

	restored := &Classifier{}
	require.NoError(t, restored.SetStateDict(c.GetStateDict()))
	pred, err = restored.Predict(ctx, [][]float64{{0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dog"}, pred)

	require.Error(t, restored.SetStateDict(map[string]any{}))
	require.Error(t, c.Fit(ctx, [][]float64{{1}}, nil))
	require.Error(t, c.Fit(ctx, nil, nil))
}

func TestClassifier_TiesGoToFirstLabel(t *testing.T) {
	t.Parallel()

	c := &Classifier{}
	require.NoError(t, c.Fit(context.Background(), [][]float64{{1}, {2}}, []string{"zebra", "ant"}))
	pred, err := c.Predict(context.Background(), [][]float64{{0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ant"}, pred)
}

func TestClassifier_ProbabilitiesSumToOne(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		labels := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 1, 50).Draw(t, "labels")
		smoothing := rapid.Float64Range(0, 10).Draw(t, "smoothing")

		c := &Classifier{}
		if err := c.Configure(context.Background(), Params{Smoothing: smoothing}); err != nil {
			t.Fatal(err)
		}
		if err := c.Fit(context.Background(), make([][]float64, len(labels)), labels); err != nil {
			t.Fatal(err)
		}
		proba, err := c.PredictProba(context.Background(), [][]float64{nil})
		if err != nil {
			t.Fatal(err)
		}
		sum := 0.0
		for _, p := range proba[0] {
			sum += p
		}
		if sum < 1-1e-9 || sum > 1+1e-9 {
			t.Fatalf("probabilities sum to %g", sum)
		}
	})
}

func TestModule_Register(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.NoError(t, (&Module{}).Register(reg))
	op, _, err := reg.LookupPrimitive("majority classifier")
	require.NoError(t, err)
	assert.Equal(t, descriptor.KindNonNeuralClassifier, op.Kind)
	assert.True(t, op.Parameters["smoothing"].Optional())
}
