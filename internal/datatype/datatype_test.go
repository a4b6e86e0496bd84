package datatype

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataType_AssignableTo(t *testing.T) {
	t.Parallel()

	album := Complex("studio9.library.albums.Album")
	labeled := Complex("studio9.library.albums.LabeledAlbum", album)
	boxed := Complex("studio9.library.albums.BoxedAlbum", labeled)

	testCases := []struct {
		name   string
		from   DataType
		to     DataType
		expect bool
	}{
		{name: "same primitive", from: Float, to: Float, expect: true},
		{name: "different primitives", from: Integer, to: Float, expect: false},
		{name: "same complex type", from: album, to: album, expect: true},
		{name: "direct parent", from: labeled, to: album, expect: true},
		{name: "grandparent", from: boxed, to: album, expect: true},
		{name: "child is not assignable from parent", from: album, to: labeled, expect: false},
		{name: "list of same element", from: List(album), to: List(album), expect: true},
		{name: "list variance is not inferred", from: List(labeled), to: List(album), expect: false},
		{name: "complex to primitive", from: album, to: String, expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, tc.from.AssignableTo(tc.to))
		})
	}
}

func TestDataType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "float", Float.String())
	assert.Equal(t, "Album", Complex("Album").String())
	assert.Equal(t, "list[list[integer]]", List(List(Integer)).String())
	assert.Equal(t, "map[string, Album]", Generic("map", String, Complex("Album")).String())
	assert.Equal(t, "<none>", DataType{}.String())
}

func TestDataType_EqualIgnoresParents(t *testing.T) {
	t.Parallel()

	a := Complex("Album")
	b := Complex("Album", Complex("Asset"))
	assert.True(t, a.Equal(b))
	assert.False(t, List(a).Equal(Generic("list")))
}

func TestDataType_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := Generic("map", String, Complex("Album", Complex("Asset")))
	clone := orig.Clone()
	require.Empty(t, cmp.Diff(orig, clone))

	clone.TypeArguments[1].Parents[0].Definition = "Changed"
	assert.Equal(t, "Asset", orig.TypeArguments[1].Parents[0].Definition)
}

func TestParsePrimitive(t *testing.T) {
	t.Parallel()

	for keyword, want := range map[string]DataType{
		"string":  String,
		"int":     Integer,
		"integer": Integer,
		"number":  Float,
		"Float":   Float,
		"bool":    Boolean,
		"boolean": Boolean,
	} {
		got, ok := ParsePrimitive(keyword)
		require.True(t, ok, keyword)
		assert.Equal(t, want, got, keyword)
	}

	_, ok := ParsePrimitive("Album")
	assert.False(t, ok)
}

func TestParseAssetType(t *testing.T) {
	t.Parallel()

	a, ok := ParseAssetType(" album ")
	require.True(t, ok)
	assert.Equal(t, AssetAlbum, a)

	a, ok = ParseAssetType("s9_project")
	require.True(t, ok)
	assert.Equal(t, AssetProject, a)

	_, ok = ParseAssetType("PICTURE")
	assert.False(t, ok)
}

type album struct{ ID string }

type model struct{}

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("Success: resolves scalars, registered types and slices", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		albumType := Complex("studio9.library.albums.Album")
		require.NoError(t, table.Register(reflect.TypeFor[*album](), albumType))

		cases := []struct {
			goType reflect.Type
			want   DataType
		}{
			{reflect.TypeFor[string](), String},
			{reflect.TypeFor[int64](), Integer},
			{reflect.TypeFor[uint8](), Integer},
			{reflect.TypeFor[float32](), Float},
			{reflect.TypeFor[bool](), Boolean},
			{reflect.TypeFor[album](), albumType},
			{reflect.TypeFor[*album](), albumType},
			{reflect.TypeFor[[]album](), List(albumType)},
			{reflect.TypeFor[[3][]string](), List(List(String))},
		}
		for _, c := range cases {
			got, err := table.Resolve(c.goType)
			require.NoError(t, err, c.goType.String())
			assert.Empty(t, cmp.Diff(c.want, got), c.goType.String())
		}

		byDef, ok := table.ByDefinition("studio9.library.albums.Album")
		require.True(t, ok)
		assert.True(t, byDef.Equal(albumType))
	})

	t.Run("Failure: unregistered structs and maps", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		_, err := table.Resolve(reflect.TypeFor[model]())
		require.ErrorContains(t, err, "has no registered data type")
		_, err = table.Resolve(reflect.TypeFor[[]map[string]int]())
		require.Error(t, err)
		_, err = table.Resolve(nil)
		require.Error(t, err)
	})

	t.Run("Failure: conflicting registrations", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		require.NoError(t, table.Register(reflect.TypeFor[album](), Complex("Album")))
		require.ErrorContains(t, table.Register(reflect.TypeFor[*album](), Complex("Other")), "already registered")
		require.ErrorContains(t, table.Register(reflect.TypeFor[model](), Generic("Album", String)), "already registered")
		require.Error(t, table.Register(reflect.TypeFor[model](), DataType{}))
		require.Panics(t, func() { table.MustRegister(reflect.TypeFor[album](), Complex("Album")) })
	})
}
