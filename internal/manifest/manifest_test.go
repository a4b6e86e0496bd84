package manifest

import (
	"context"
	"reflect"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const splitManifest = `
operator "split album" {
  class       = "SplitAlbum"
  description = "Splits an album into train and test parts."
  category    = "ALBUM_TRANSFORMER"
  package     = "s9-operators"
  version     = "1.2.0"

  parameter "size" {
    type    = float
    caption = "Train size"
    default = 0.5
    min     = 0
    max     = 1
  }

  parameter "mode" {
    type    = string
    values  = ["flip", "rotate"]
    default = "flip"
  }

  parameter "angle" {
    type = float
    when "mode" {
      values = ["rotate"]
    }
  }

  parameter "source" {
    type       = asset_reference
    asset_type = "ALBUM"
  }

  input "album" {
    type      = "Album"
    covariate = true
  }

  output "train" { type = "Album" }
  output "test" {}
}

primitive "split album" {
  class = "SplitDetector"
  kind  = "detector"
}
`

func TestParseSource_Declarations(t *testing.T) {
	t.Parallel()

	// --- Act ---
	decls, diags := ParseSource(context.Background(), []byte(splitManifest), "split.hcl")

	// --- Assert ---
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, decls, 2, "operators and primitives are named independently")

	op := decls[0]
	assert.Equal(t, descriptor.KindOperator, op.Kind)
	assert.Equal(t, "SplitAlbum", op.Class)
	assert.Equal(t, "split.hcl", op.Path)
	assert.Equal(t, "split album", op.Spec.Name)
	assert.Equal(t, "ALBUM_TRANSFORMER", op.Spec.Category)
	assert.Equal(t, "s9-operators", op.Spec.PackageName)
	assert.Equal(t, "1.2.0", op.Spec.PackageVersion)

	require.Len(t, op.Spec.Parameters, 4)
	size := op.Spec.Parameters["size"]
	assert.Equal(t, descriptor.ParamFloat, size.Type)
	assert.Equal(t, "Train size", size.Caption)
	require.NotNil(t, size.Default)
	assert.True(t, size.Default.Equals(cty.NumberFloatVal(0.5)).True())
	require.NotNil(t, size.Conditions.Min)
	require.NotNil(t, size.Conditions.Max)
	assert.Equal(t, 0.0, *size.Conditions.Min)
	assert.Equal(t, 1.0, *size.Conditions.Max)

	mode := op.Spec.Parameters["mode"]
	require.Len(t, mode.Conditions.Values, 2)
	assert.True(t, mode.Conditions.Values[1].RawEquals(cty.StringVal("rotate")))
	assert.True(t, mode.Default.RawEquals(cty.StringVal("flip")))

	angle := op.Spec.Parameters["angle"]
	assert.False(t, angle.Optional())
	require.Contains(t, angle.When, "mode")
	assert.True(t, angle.When["mode"].Values[0].RawEquals(cty.StringVal("rotate")))

	source := op.Spec.Parameters["source"]
	assert.Equal(t, descriptor.ParamAssetReference, source.Type)
	assert.Equal(t, datatype.AssetAlbum, source.AssetType)

	require.Contains(t, op.Spec.Inputs, "album")
	assert.True(t, op.Spec.Inputs["album"].Covariate)
	assert.Equal(t, "Album", op.inputTypes["album"].Name)

	require.Len(t, op.Spec.Outputs, 2)
	assert.Equal(t, "train", op.Spec.Outputs[0].Name)
	assert.Equal(t, "test", op.Spec.Outputs[1].Name)
	assert.Contains(t, op.outputTypes, "train")
	assert.NotContains(t, op.outputTypes, "test")

	prim := decls[1]
	assert.Equal(t, descriptor.KindDetector, prim.Kind)
	assert.Equal(t, "SplitDetector", prim.Class)
}

func TestParseSource_DefaultOnDecimalBound(t *testing.T) {
	t.Parallel()

	src := `
primitive "test detector" {
  class = "TestDetector"
  kind  = "detector"

  parameter "value_name" {
    type    = float
    default = 0.3
    min     = 0.1
    max     = 0.3
  }
  parameter "floor" {
    type    = float
    default = 0.1
    min     = 0.1
  }
}
`
	decls, diags := ParseSource(context.Background(), []byte(src), "bounds.hcl")

	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, decls, 1)
	p := decls[0].Spec.Parameters["value_name"]
	require.NotNil(t, p.Conditions.Max)
	assert.Equal(t, 0.3, *p.Conditions.Max)
	assert.Contains(t, decls[0].Spec.Parameters, "floor")
}

func TestParseSource_Diagnostics(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		src         string
		wantSummary string
	}{
		{
			name:        "missing class",
			src:         `operator "x" {}`,
			wantSummary: "Missing 'class' attribute",
		},
		{
			name:        "missing kind",
			src:         `primitive "x" { class = "X" }`,
			wantSummary: "Missing 'kind' attribute",
		},
		{
			name: "operator is not a primitive kind",
			src: `primitive "x" {
  class = "X"
  kind  = "operator"
}`,
			wantSummary: "Unknown primitive kind",
		},
		{
			name: "invalid version",
			src: `operator "x" {
  class   = "X"
  version = "one"
}`,
			wantSummary: "Invalid package version",
		},
		{
			name: "kind on an operator",
			src: `operator "x" {
  class = "X"
  kind  = "detector"
}`,
			wantSummary: "Unsupported argument",
		},
		{
			name: "missing parameter type",
			src: `operator "x" {
  class = "X"
  parameter "p" {}
}`,
			wantSummary: "Missing 'type' attribute",
		},
		{
			name: "quoted parameter type",
			src: `operator "x" {
  class = "X"
  parameter "p" { type = "string" }
}`,
			wantSummary: "Invalid type specification",
		},
		{
			name: "unsupported parameter type",
			src: `operator "x" {
  class = "X"
  parameter "p" { type = matrix }
}`,
			wantSummary: "Unsupported type",
		},
		{
			name: "default violates bounds",
			src: `operator "x" {
  class = "X"
  parameter "p" {
    type    = int
    default = 12
    max     = 10
  }
}`,
			wantSummary: "Invalid default value",
		},
		{
			name: "default of the wrong type",
			src: `operator "x" {
  class = "X"
  parameter "p" {
    type    = int
    default = "twelve"
  }
}`,
			wantSummary: "Invalid default value",
		},
		{
			name: "values is not a list",
			src: `operator "x" {
  class = "X"
  parameter "p" {
    type   = string
    values = "a"
  }
}`,
			wantSummary: "Invalid allowed values",
		},
		{
			name: "unknown asset type",
			src: `operator "x" {
  class = "X"
  parameter "p" {
    type       = asset_reference
    asset_type = "SPACESHIP"
  }
}`,
			wantSummary: "Unknown asset type",
		},
		{
			name: "duplicate parameter",
			src: `operator "x" {
  class = "X"
  parameter "p" { type = int }
  parameter "p" { type = int }
}`,
			wantSummary: "Duplicate parameter definition",
		},
		{
			name: "duplicate condition",
			src: `operator "x" {
  class = "X"
  parameter "p" {
    type = int
    when "q" { min = 1 }
    when "q" { max = 2 }
  }
}`,
			wantSummary: "Duplicate condition",
		},
		{
			name: "duplicate input",
			src: `operator "x" {
  class = "X"
  input "a" {}
  input "a" {}
}`,
			wantSummary: "Duplicate input definition",
		},
		{
			name: "duplicate output",
			src: `operator "x" {
  class = "X"
  output "a" {}
  output "a" {}
}`,
			wantSummary: "Duplicate output definition",
		},
		{
			name: "duplicate operator",
			src: `operator "x" { class = "X" }
operator "x" { class = "Y" }`,
			wantSummary: "Duplicate operator definition",
		},
		{
			name:        "unknown top-level block",
			src:         `runner "x" {}`,
			wantSummary: "Unsupported block type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			decls, diags := ParseSource(context.Background(), []byte(tc.src), "test.hcl")
			require.True(t, diags.HasErrors(), "expected diagnostics")
			assert.Nil(t, decls, "a file with errors yields no declarations")
			assert.Equal(t, tc.wantSummary, firstError(diags).Summary, diags.Error())
		})
	}
}

func TestParseFile_NilFile(t *testing.T) {
	t.Parallel()

	_, diags := ParseFile(context.Background(), nil, "nil.hcl")
	require.True(t, diags.HasErrors())
}

func TestResolveDataType(t *testing.T) {
	t.Parallel()

	table := datatype.NewTable()
	album := datatype.Complex("studio9.library.albums.Album")
	table.MustRegister(reflectTypeOfAlbum, album)

	testCases := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "string", want: "string"},
		{name: "int", want: "integer"},
		{name: "list[float]", want: "list[float]"},
		{name: "studio9.library.albums.Album", want: "studio9.library.albums.Album"},
		{name: "list[studio9.library.albums.Album]", want: "list[studio9.library.albums.Album]"},
		{name: "list[string", wantErr: true},
		{name: "Spaceship", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveDataType(tc.name, table)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func firstError(diags hcl.Diagnostics) *hcl.Diagnostic {
	for _, d := range diags {
		if d.Severity == hcl.DiagError {
			return d
		}
	}
	return nil
}

type albumFixture struct{}

var reflectTypeOfAlbum = reflect.TypeFor[albumFixture]()
