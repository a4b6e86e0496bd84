// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package datatype

import (
	"fmt"
	"reflect"
	"sync"
)

// Table maps Go types to pipeline data types. Scalar Go kinds resolve to the
// primitives; structs and other named types must be registered explicitly.
type Table struct {
	mu     sync.RWMutex
	byType map[reflect.Type]DataType
	byDef  map[string]DataType
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		byType: make(map[reflect.Type]DataType),
		byDef:  make(map[string]DataType),
	}
}

// Register associates a Go type with a complex data type. Pointer types are
// registered under their element type.
func (t *Table) Register(rt reflect.Type, dt DataType) error {
	if rt == nil {
		return fmt.Errorf("cannot register data type %s for a nil Go type", dt)
	}
	if dt.IsZero() {
		return fmt.Errorf("cannot register an empty data type for Go type %s", rt)
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byType[rt]; ok {
		return fmt.Errorf("go type %s is already registered as data type %s", rt, existing)
	}
	if !dt.IsPrimitive() {
		if existing, ok := t.byDef[dt.Definition]; ok && !existing.Equal(dt) {
			return fmt.Errorf("data type definition %q is already registered", dt.Definition)
		}
		t.byDef[dt.Definition] = dt
	}
	t.byType[rt] = dt
	return nil
}

// MustRegister is like Register but panics on error. It is meant for module
// initialisation, where a conflict is a programming error.
func (t *Table) MustRegister(rt reflect.Type, dt DataType) {
	if err := t.Register(rt, dt); err != nil {
		panic(err)
	}
}

// Resolve returns the data type of a Go type.
func (t *Table) Resolve(rt reflect.Type) (DataType, error) {
	if rt == nil {
		return DataType{}, fmt.Errorf("nil Go type has no data type")
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	t.mu.RLock()
	dt, ok := t.byType[rt]
	t.mu.RUnlock()
	if ok {
		return dt, nil
	}

	switch rt.Kind() {
	case reflect.String:
		return String, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer, nil
	case reflect.Float32, reflect.Float64:
		return Float, nil
	case reflect.Bool:
		return Boolean, nil
	case reflect.Slice, reflect.Array:
		elem, err := t.Resolve(rt.Elem())
		if err != nil {
			return DataType{}, fmt.Errorf("element of %s: %w", rt, err)
		}
		return List(elem), nil
	}
	return DataType{}, fmt.Errorf("go type %s has no registered data type", rt)
}

// ByDefinition returns the registered complex type with the given definition.
func (t *Table) ByDefinition(definition string) (DataType, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	dt, ok := t.byDef[definition]
	return dt, ok
}
