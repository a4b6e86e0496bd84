package albums

import (
	"context"
	"fmt"

	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Transformation modes.
const (
	ModeFlip   = "flip"
	ModeRotate = "rotate"
	ModeCrop   = "crop"
)

// TransformAlbum applies an augmentation to every picture of an album.
// Angle only applies to rotation and CropSize only to cropping.
type TransformAlbum struct {
	params TransformParams
}

type TransformParams struct {
	Mode     string  `op:"mode"`
	Angle    float64 `op:"angle,optional"`
	CropSize int     `op:"crop_size,optional"`
}

type TransformInputs struct {
	Album Album `op:"album"`
}

type TransformOutputs struct {
	Album Album `op:"album"`
}

func (t *TransformAlbum) Configure(ctx context.Context, p TransformParams) error {
	t.params = p
	return nil
}

func (t *TransformAlbum) Apply(ctx context.Context, in TransformInputs) (TransformOutputs, error) {
	out := in.Album.Clone()
	var step string
	switch t.params.Mode {
	case ModeFlip:
		step = ModeFlip
	case ModeRotate:
		step = fmt.Sprintf("%s(%g)", ModeRotate, t.params.Angle)
	case ModeCrop:
		step = fmt.Sprintf("%s(%d)", ModeCrop, t.params.CropSize)
	default:
		return TransformOutputs{}, fmt.Errorf("unknown transformation mode '%s'", t.params.Mode)
	}
	out.Transforms = append(out.Transforms, step)
	return TransformOutputs{Album: out}, nil
}

func declareTransformAlbum(r *registry.Registry) error {
	mode := cty.StringVal(ModeFlip)
	angle := cty.NumberIntVal(90)
	cropSize := cty.NumberIntVal(224)
	zero, full, one := 0.0, 360.0, 1.0

	_, err := declare.Operator[TransformAlbum](r, spec(declare.Spec{
		Name:        "transform album",
		Description: "Applies an augmentation to every picture of an album.",
		Parameters: map[string]descriptor.ParameterSpec{
			"mode": {
				Caption: "Transformation",
				Type:    descriptor.ParamString,
				Default: &mode,
				Conditions: descriptor.Conditions{
					Values: []cty.Value{cty.StringVal(ModeFlip), cty.StringVal(ModeRotate), cty.StringVal(ModeCrop)},
				},
			},
			"angle": {
				Caption:    "Rotation angle",
				Type:       descriptor.ParamFloat,
				Default:    &angle,
				Conditions: descriptor.Conditions{Min: &zero, Max: &full},
				When: map[string]descriptor.Conditions{
					"mode": {Values: []cty.Value{cty.StringVal(ModeRotate)}},
				},
			},
			"crop_size": {
				Caption:    "Crop size",
				Type:       descriptor.ParamInt,
				Default:    &cropSize,
				Conditions: descriptor.Conditions{Min: &one},
				When: map[string]descriptor.Conditions{
					"mode": {Values: []cty.Value{cty.StringVal(ModeCrop)}},
				},
			},
		},
		Inputs: map[string]descriptor.InputSpec{
			"album": {Description: "Album to transform", Covariate: true},
		},
		Outputs: []descriptor.OutputSpec{
			{Name: "album", Description: "Transformed album"},
		},
	}))
	return err
}
