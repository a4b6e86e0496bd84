// Package albums provides the album operators of the pipeline: selecting an
// album asset, splitting it, transforming it and saving the result.
package albums

import (
	"slices"
)

// AlbumDefinition is the data type name albums are published under.
const AlbumDefinition = "studio9.library.albums.Album"

// Album is a collection of pictures flowing between operators.
type Album struct {
	ID       string
	Name     string
	Pictures []string
	// Transforms records the transformations applied so far, oldest first.
	Transforms []string
}

// Clone returns a copy of a that shares no slices with it.
func (a Album) Clone() Album {
	a.Pictures = slices.Clone(a.Pictures)
	a.Transforms = slices.Clone(a.Transforms)
	return a
}
