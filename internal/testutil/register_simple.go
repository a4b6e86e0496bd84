package testutil

import "github.com/specialistvlad/opgrid/internal/registry"

// SimpleModule is a test helper for creating a module from a function.
type SimpleModule struct {
	Fn func(r *registry.Registry) error
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) error {
	if m.Fn == nil {
		return nil
	}
	return m.Fn(r)
}
