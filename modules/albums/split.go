package albums

import (
	"context"
	"math"

	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// SplitAlbum splits an album into a train and a test album.
type SplitAlbum struct {
	size float64
}

type SplitParams struct {
	Size float64 `op:"size"`
}

type SplitInputs struct {
	Album Album `op:"album"`
}

type SplitOutputs struct {
	Train Album `op:"train"`
	Test  Album `op:"test"`
}

func (s *SplitAlbum) Configure(ctx context.Context, p SplitParams) error {
	s.size = p.Size
	return nil
}

// Apply puts the first size share of the pictures, rounded to the nearest
// picture, into the train album and the rest into the test album.
func (s *SplitAlbum) Apply(ctx context.Context, in SplitInputs) (SplitOutputs, error) {
	n := int(math.Round(s.size * float64(len(in.Album.Pictures))))
	n = min(max(n, 0), len(in.Album.Pictures))

	train := in.Album.Clone()
	train.ID = in.Album.ID + "-train"
	train.Pictures = train.Pictures[:n]

	test := in.Album.Clone()
	test.ID = in.Album.ID + "-test"
	test.Pictures = test.Pictures[n:]

	return SplitOutputs{Train: train, Test: test}, nil
}

func declareSplitAlbum(r *registry.Registry) error {
	size := cty.NumberFloatVal(0.8)
	lo, hi := 0.0, 1.0
	_, err := declare.Operator[SplitAlbum](r, spec(declare.Spec{
		Name:        "split album",
		Description: "Splits an album in two.",
		Parameters: map[string]descriptor.ParameterSpec{
			"size": {
				Caption:    "Size of a first album",
				Type:       descriptor.ParamFloat,
				Default:    &size,
				Conditions: descriptor.Conditions{Min: &lo, Max: &hi},
			},
		},
		Inputs: map[string]descriptor.InputSpec{
			"album": {Description: "Loaded album", Covariate: true},
		},
		Outputs: []descriptor.OutputSpec{
			{Name: "train", Description: "Train Album"},
			{Name: "test", Description: "Test Album"},
		},
	}))
	return err
}
