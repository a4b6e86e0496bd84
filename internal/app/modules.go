package app

import (
	"github.com/specialistvlad/opgrid/internal/classes"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/specialistvlad/opgrid/modules/albums"
	"github.com/specialistvlad/opgrid/modules/majority"
)

// ClassProvider is implemented by modules whose classes may also be bound
// from manifests.
type ClassProvider interface {
	AddClasses(c *classes.Classes)
}

// coreModules is the definitive list of all modules that are compiled into
// the opgrid binary.
var coreModules = []registry.Module{
	&albums.Module{},
	&majority.Module{},
}
