package classes

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/opgrid/internal/registry"
)

// Classes holds the Go classes that manifests may bind to, keyed by the
// name a manifest uses in its `class` attribute.
type Classes struct {
	all map[string]registry.Class
}

// New creates and initializes an empty class table.
func New() *Classes {
	return &Classes{
		all: make(map[string]registry.Class),
	}
}

// Add registers a class under name. A name may only be added once.
func (c *Classes) Add(name string, class registry.Class) {
	if _, exists := c.all[name]; exists {
		panic(fmt.Sprintf("class with name '%s' already added", name))
	}
	slog.Debug("Adding operator class.", "name", name, "type", class.Name())
	c.all[name] = class
}

// Add registers T under its Go type name.
func Add[T any](c *Classes) {
	class := registry.ClassOf[T]()
	c.Add(class.Name(), class)
}

// Lookup returns the class added under name.
func (c *Classes) Lookup(name string) (registry.Class, bool) {
	class, ok := c.all[name]
	return class, ok
}

// Names returns every added class name in sorted order.
func (c *Classes) Names() []string {
	return slices.Sorted(maps.Keys(c.all))
}
