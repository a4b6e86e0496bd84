package albums

import (
	"context"
	"errors"

	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
)

// SaveAlbum stores an album under a new name.
type SaveAlbum struct {
	name string
}

type SaveParams struct {
	Name string `op:"name"`
}

type SaveInputs struct {
	Album Album `op:"album"`
}

func (s *SaveAlbum) Configure(ctx context.Context, p SaveParams) error {
	if p.Name == "" {
		return errors.New("album name must not be empty")
	}
	s.name = p.Name
	return nil
}

func (s *SaveAlbum) Apply(ctx context.Context, in SaveInputs) (struct{}, error) {
	ctxlog.FromContext(ctx).Info("Saving album.", "album", in.Album.ID, "name", s.name, "pictures", len(in.Album.Pictures))
	return struct{}{}, nil
}

func declareSaveAlbum(r *registry.Registry) error {
	_, err := declare.Operator[SaveAlbum](r, spec(declare.Spec{
		Name:        "save album",
		Description: "Saves an album to the library.",
		Parameters: map[string]descriptor.ParameterSpec{
			"name": {Caption: "Album name", Type: descriptor.ParamString},
		},
		Inputs: map[string]descriptor.InputSpec{
			"album": {Description: "Album to save"},
		},
	}))
	return err
}
