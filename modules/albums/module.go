package albums

import (
	"errors"
	"reflect"

	"github.com/specialistvlad/opgrid/internal/classes"
	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/registry"
)

// Category groups the album operators in the pipeline editor.
const Category = "ALBUM_TRANSFORMER"

// PackageName and PackageVersion identify the operator package.
const (
	PackageName    = "s9-operators"
	PackageVersion = "1.2.0"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the album data type and every album operator.
func (m *Module) Register(r *registry.Registry) error {
	if err := r.Types().Register(reflect.TypeFor[Album](), datatype.Complex(AlbumDefinition)); err != nil {
		return err
	}

	var errs []error
	for _, declareOne := range []func(*registry.Registry) error{
		declareSelectAlbum,
		declareSaveAlbum,
		declareSplitAlbum,
		declareTransformAlbum,
	} {
		errs = append(errs, declareOne(r))
	}
	return errors.Join(errs...)
}

// AddClasses makes the album classes available to manifests.
func (m *Module) AddClasses(c *classes.Classes) {
	classes.Add[SelectAlbum](c)
	classes.Add[SaveAlbum](c)
	classes.Add[SplitAlbum](c)
	classes.Add[TransformAlbum](c)
}

func spec(s declare.Spec) declare.Spec {
	s.Category = Category
	s.PackageName = PackageName
	s.PackageVersion = PackageVersion
	return s
}
