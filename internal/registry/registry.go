// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"iter"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/descriptor"
)

// Module is implemented by packages that contribute operators. Register is
// called once per registry during startup.
type Module interface {
	Register(r *Registry) error
}

// Class is the Go type implementing a registered operator.
type Class struct {
	// Type is the non-pointer type of the class.
	Type reflect.Type
	// New returns a fresh *Type ready to be configured.
	New func() any
}

// ClassOf returns the Class of T.
func ClassOf[T any]() Class {
	return Class{
		Type: reflect.TypeFor[T](),
		New:  func() any { return new(T) },
	}
}

// Name returns the Go identifier of the class.
func (c Class) Name() string {
	if c.Type == nil {
		return ""
	}
	return c.Type.Name()
}

// Entry is one registration: the descriptor and its class.
type Entry struct {
	Descriptor descriptor.Operator
	Class      Class
}

// snapshot is an immutable view of one partition. Writers replace it wholesale.
type snapshot struct {
	byName map[string]Entry
	order  []string
	byType map[reflect.Type]string
}

// Registry holds every declared operator of a single application instance.
type Registry struct {
	mu         sync.Mutex
	partitions map[descriptor.Partition]*atomic.Pointer[snapshot]
	types      *datatype.Table
}

// New creates an empty Registry with its own data type table.
func New() *Registry {
	return NewWithTypes(datatype.NewTable())
}

// NewWithTypes creates an empty Registry that resolves Go types through the
// given table.
func NewWithTypes(types *datatype.Table) *Registry {
	r := &Registry{
		partitions: make(map[descriptor.Partition]*atomic.Pointer[snapshot], len(descriptor.Partitions)),
		types:      types,
	}
	for _, p := range descriptor.Partitions {
		ptr := &atomic.Pointer[snapshot]{}
		ptr.Store(&snapshot{
			byName: map[string]Entry{},
			byType: map[reflect.Type]string{},
		})
		r.partitions[p] = ptr
	}
	return r
}

// Types returns the data type table used when declaring operators.
func (r *Registry) Types() *datatype.Table {
	return r.types
}

func (r *Registry) load(p descriptor.Partition) (*snapshot, bool) {
	ptr, ok := r.partitions[p]
	if !ok {
		return nil, false
	}
	return ptr.Load(), true
}

// Register stores a descriptor and its class. The name and partition are
// taken from the descriptor. Registration is all or nothing: on error the
// registry is unchanged.
func (r *Registry) Register(desc descriptor.Operator, class Class) error {
	partition := desc.Kind.Partition()

	r.mu.Lock()
	defer r.mu.Unlock()

	ptr := r.partitions[partition]
	cur := ptr.Load()
	if _, exists := cur.byName[desc.Name]; exists {
		return &DuplicateOperatorError{Partition: partition, Name: desc.Name}
	}

	next := &snapshot{
		byName: maps.Clone(cur.byName),
		order:  append(slices.Clip(cur.order), desc.Name),
		byType: maps.Clone(cur.byType),
	}
	next.byName[desc.Name] = Entry{Descriptor: desc.Clone(), Class: class}
	if class.Type != nil {
		if _, taken := next.byType[class.Type]; !taken {
			next.byType[class.Type] = desc.Name
		}
	}
	ptr.Store(next)

	slog.Debug("Registered operator.", "name", desc.Name, "partition", partition, "kind", desc.Kind, "class", class.Name())
	return nil
}

// Lookup returns the descriptor and class registered under name.
func (r *Registry) Lookup(p descriptor.Partition, name string) (descriptor.Operator, Class, error) {
	snap, ok := r.load(p)
	if !ok {
		return descriptor.Operator{}, Class{}, &UnknownOperatorError{Partition: p, Name: name}
	}
	e, ok := snap.byName[name]
	if !ok {
		return descriptor.Operator{}, Class{}, &UnknownOperatorError{Partition: p, Name: name}
	}
	return e.Descriptor.Clone(), e.Class, nil
}

// LookupOperator looks name up among pipeline operators.
func (r *Registry) LookupOperator(name string) (descriptor.Operator, Class, error) {
	return r.Lookup(descriptor.PartitionOperators, name)
}

// LookupPrimitive looks name up among model primitives.
func (r *Registry) LookupPrimitive(name string) (descriptor.Operator, Class, error) {
	return r.Lookup(descriptor.PartitionPrimitives, name)
}

// List yields the descriptors of a partition in registration order. Each call
// iterates the snapshot current at the time of the call, so the sequence can
// be restarted and is unaffected by later registrations.
func (r *Registry) List(p descriptor.Partition) iter.Seq[descriptor.Operator] {
	return func(yield func(descriptor.Operator) bool) {
		snap, ok := r.load(p)
		if !ok {
			return
		}
		for _, name := range snap.order {
			if !yield(snap.byName[name].Descriptor.Clone()) {
				return
			}
		}
	}
}

// Len returns the number of registrations in a partition.
func (r *Registry) Len(p descriptor.Partition) int {
	snap, ok := r.load(p)
	if !ok {
		return 0
	}
	return len(snap.order)
}

// DescriptorOf returns the descriptor attached to a class. When a class was
// registered more than once, the first registration wins.
func (r *Registry) DescriptorOf(t reflect.Type) (descriptor.Operator, bool) {
	if t == nil {
		return descriptor.Operator{}, false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, p := range descriptor.Partitions {
		snap, _ := r.load(p)
		if name, ok := snap.byType[t]; ok {
			return snap.byName[name].Descriptor.Clone(), true
		}
	}
	return descriptor.Operator{}, false
}
