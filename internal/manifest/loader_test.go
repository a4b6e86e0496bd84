package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/specialistvlad/opgrid/internal/classes"
	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/manifest"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/specialistvlad/opgrid/internal/testutil"
	"github.com/specialistvlad/opgrid/modules/albums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClasses() *classes.Classes {
	c := classes.New()
	classes.Add[testutil.TestPipelineOperator](c)
	classes.Add[testutil.MissingInputOperator](c)
	classes.Add[testutil.TestDetector](c)
	classes.Add[testutil.TestNonNeuralClassifier](c)
	return c
}

func TestLoadDir_AndBind(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"operators/loader.hcl": `
			operator "loader" {
				class       = "TestPipelineOperator"
				description = "Loads a model."
				input "baz" { type = "string" }
				input "qux" {}
				output "loaded model" {}
			}
		`,
		"primitives/detector.hcl": `
			primitive "test detector" {
				class = "TestDetector"
				kind  = "detector"
				parameter "value_name" { type = float }
				parameter "some_str" {
					type = string
					when "value_name" {
						values = [1, 2.5]
						min    = 3.5
					}
				}
			}
			primitive "forest" {
				class = "TestNonNeuralClassifier"
				kind  = "non_neural_classifier"
			}
		`,
		".hidden/ignored.hcl": `this is not hcl`,
		"notes.txt":           `not a manifest`,
	})
	ctx := context.Background()

	// --- Act ---
	decls, err := manifest.LoadDir(ctx, dir)
	if err != nil {
		t.Fatalf("LoadDir() returned an unexpected error: %v", err)
	}
	reg := registry.New()
	err = manifest.Bind(ctx, reg, testClasses(), decls)

	// --- Assert ---
	if err != nil {
		t.Fatalf("Bind() returned an unexpected error: %v", err)
	}
	if len(decls) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(decls))
	}

	op, class, err := reg.LookupOperator("loader")
	require.NoError(t, err)
	assert.Equal(t, "TestPipelineOperator", class.Name())
	assert.Equal(t, "Loads a model.", op.Description)
	assert.True(t, op.Inputs["baz"].Type.Equal(datatype.String))
	assert.True(t, op.Inputs["qux"].Optional)

	det, _, err := reg.LookupPrimitive("test detector")
	require.NoError(t, err)
	assert.Equal(t, descriptor.KindDetector, det.Kind)
	when := det.Parameters["some_str"].When["value_name"]
	assert.Len(t, when.Values, 2)
	require.NotNil(t, when.Min)
	assert.Equal(t, 3.5, *when.Min)

	forest, _, err := reg.LookupPrimitive("forest")
	require.NoError(t, err)
	assert.Equal(t, descriptor.KindNonNeuralClassifier, forest.Kind)
}

func TestBind_CollectsEveryFailure(t *testing.T) {
	t.Parallel()

	src := []byte(`
operator "ghost" {
  class = "Nope"
}

operator "missing input" {
  class = "MissingInputOperator"
  input "baz" {}
  input "qux" {}
  output "loaded model" {}
}

operator "typed" {
  class = "TestPipelineOperator"
  input "baz" { type = "Spaceship" }
  input "qux" {}
  output "loaded model" {}
}

operator "good" {
  class = "TestPipelineOperator"
  input "baz" {}
  input "qux" {}
  output "loaded model" {}
}
`)
	decls, diags := manifest.ParseSource(context.Background(), src, "bind.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	reg := registry.New()
	err := manifest.Bind(context.Background(), reg, testClasses(), decls)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "operator 'ghost': unknown class 'Nope'")
	assert.Contains(t, msg, `input "baz" is not a parameter of Apply`)
	assert.Contains(t, msg, "Unknown data type")
	assert.Contains(t, msg, "bind.hcl:13,")
	assert.Contains(t, msg, "operator 'typed'")

	_, _, err = reg.LookupOperator("good")
	require.NoError(t, err, "valid declarations are registered despite other failures")
	assert.Equal(t, 1, reg.Len(descriptor.PartitionOperators))
}

func TestLoadDir_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid HCL", func(t *testing.T) {
		t.Parallel()
		dir := testutil.WriteFiles(t, map[string]string{"broken.hcl": `operator "x" {`})
		_, err := manifest.LoadDir(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse HCL file")
	})

	t.Run("invalid declaration", func(t *testing.T) {
		t.Parallel()
		dir := testutil.WriteFiles(t, map[string]string{"bad.hcl": `operator "x" {}`})
		_, err := manifest.LoadDir(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to process declarations in")
		assert.Contains(t, err.Error(), "Missing 'class' attribute")
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := manifest.LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("no manifests", func(t *testing.T) {
		t.Parallel()
		decls, err := manifest.LoadDir(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, decls)
	})

	t.Run("single file", func(t *testing.T) {
		t.Parallel()
		dir := testutil.WriteFiles(t, map[string]string{"one.hcl": `operator "x" { class = "X" }`})
		decls, err := manifest.LoadDir(context.Background(), filepath.Join(dir, "one.hcl"))
		require.NoError(t, err)
		require.Len(t, decls, 1)
		assert.Equal(t, "X", decls[0].Class)
	})
}

const transformManifest = `
operator "transform album" {
  class       = "TransformAlbum"
  description = "Applies an augmentation to every picture of an album."
  category    = "ALBUM_TRANSFORMER"
  package     = "s9-operators"
  version     = "1.2.0"

  parameter "mode" {
    caption = "Transformation"
    type    = string
    default = "flip"
    values  = ["flip", "rotate", "crop"]
  }

  parameter "angle" {
    caption = "Rotation angle"
    type    = float
    default = 90
    min     = 0
    max     = 360
    when "mode" {
      values = ["rotate"]
    }
  }

  parameter "crop_size" {
    caption = "Crop size"
    type    = int
    default = 224
    min     = 1
    when "mode" {
      values = ["crop"]
    }
  }

  input "album" {
    description = "Album to transform"
    covariate   = true
  }

  output "album" {
    description = "Transformed album"
  }
}
`

func TestBind_RoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	compiled := registry.New()
	require.NoError(t, (&albums.Module{}).Register(compiled))
	want, _, err := compiled.LookupOperator("transform album")
	require.NoError(t, err)

	fromManifest := registry.New()
	fromManifest.Types().MustRegister(reflect.TypeFor[albums.Album](), datatype.Complex(albums.AlbumDefinition))
	table := classes.New()
	(&albums.Module{}).AddClasses(table)

	// --- Act ---
	decls, diags := manifest.ParseSource(context.Background(), []byte(transformManifest), "transform.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	require.NoError(t, manifest.Bind(context.Background(), fromManifest, table, decls))

	// --- Assert ---
	got, _, err := fromManifest.LookupOperator("transform album")
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "the manifest declaration differs from the Go declaration")
}
