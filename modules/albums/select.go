package albums

import (
	"context"

	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
)

// SelectAlbum feeds an album from the library into the pipeline.
type SelectAlbum struct {
	album string
}

type SelectParams struct {
	Album string `op:"album"`
}

type SelectOutputs struct {
	Album Album `op:"album"`
}

func (s *SelectAlbum) Configure(ctx context.Context, p SelectParams) error {
	s.album = p.Album
	return nil
}

func (s *SelectAlbum) Apply(ctx context.Context, _ struct{}) (SelectOutputs, error) {
	ctxlog.FromContext(ctx).Debug("Selecting album.", "album", s.album)
	return SelectOutputs{Album: Album{ID: s.album}}, nil
}

func declareSelectAlbum(r *registry.Registry) error {
	_, err := declare.Operator[SelectAlbum](r, spec(declare.Spec{
		Name:        "select album",
		Description: "Selects an album from the library.",
		Parameters: map[string]descriptor.ParameterSpec{
			"album": {
				Caption:   "Album",
				Type:      descriptor.ParamAssetReference,
				AssetType: datatype.AssetAlbum,
			},
		},
		Outputs: []descriptor.OutputSpec{
			{Name: "album", Description: "Selected album"},
		},
	}))
	return err
}
