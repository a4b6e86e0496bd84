// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package datatype

import (
	"strings"
)

// Primitive names one of the built-in scalar data types.
type Primitive string

const (
	PrimitiveString  Primitive = "string"
	PrimitiveInteger Primitive = "integer"
	PrimitiveFloat   Primitive = "float"
	PrimitiveBoolean Primitive = "boolean"
)

// ListDefinition is the definition used for homogeneous sequences.
const ListDefinition = "list"

// DataType is the type of an operator input or output.
// Exactly one of Primitive or Definition is set.
type DataType struct {
	Primitive     Primitive  `yaml:"primitive,omitempty" json:"primitive,omitempty"`
	Definition    string     `yaml:"definition,omitempty" json:"definition,omitempty"`
	Parents       []DataType `yaml:"parents,omitempty" json:"parents,omitempty"`
	TypeArguments []DataType `yaml:"typeArguments,omitempty" json:"typeArguments,omitempty"`
}

var (
	String  = DataType{Primitive: PrimitiveString}
	Integer = DataType{Primitive: PrimitiveInteger}
	Float   = DataType{Primitive: PrimitiveFloat}
	Boolean = DataType{Primitive: PrimitiveBoolean}
)

// Complex returns a complex data type with the given definition and parents.
func Complex(definition string, parents ...DataType) DataType {
	return DataType{Definition: definition, Parents: parents}
}

// Generic returns a complex data type parameterised by type arguments.
func Generic(definition string, args ...DataType) DataType {
	return DataType{Definition: definition, TypeArguments: args}
}

// List returns the data type of a sequence of elem.
func List(elem DataType) DataType {
	return Generic(ListDefinition, elem)
}

// ParsePrimitive maps a primitive keyword to its DataType.
func ParsePrimitive(name string) (DataType, bool) {
	switch Primitive(strings.ToLower(name)) {
	case PrimitiveString:
		return String, true
	case PrimitiveInteger, "int":
		return Integer, true
	case PrimitiveFloat, "number":
		return Float, true
	case PrimitiveBoolean, "bool":
		return Boolean, true
	}
	return DataType{}, false
}

// IsZero reports whether t is the unset data type.
func (t DataType) IsZero() bool {
	return t.Primitive == "" && t.Definition == ""
}

// IsPrimitive reports whether t is one of the scalar types.
func (t DataType) IsPrimitive() bool {
	return t.Primitive != ""
}

// Equal reports whether t and o denote the same type. Parents are part of a
// definition, not of its identity, so they are not compared.
func (t DataType) Equal(o DataType) bool {
	if t.Primitive != o.Primitive || t.Definition != o.Definition {
		return false
	}
	if len(t.TypeArguments) != len(o.TypeArguments) {
		return false
	}
	for i := range t.TypeArguments {
		if !t.TypeArguments[i].Equal(o.TypeArguments[i]) {
			return false
		}
	}
	return true
}

// AssignableTo reports whether a value of type t can be used where target is
// expected: either the types are equal or one of t's ancestors equals target.
func (t DataType) AssignableTo(target DataType) bool {
	if t.Equal(target) {
		return true
	}
	for _, p := range t.Parents {
		if p.AssignableTo(target) {
			return true
		}
	}
	return false
}

// String renders the type the way it is shown to users, e.g. "list[Album]".
func (t DataType) String() string {
	if t.IsPrimitive() {
		return string(t.Primitive)
	}
	if t.Definition == "" {
		return "<none>"
	}
	if len(t.TypeArguments) == 0 {
		return t.Definition
	}
	args := make([]string, len(t.TypeArguments))
	for i, a := range t.TypeArguments {
		args[i] = a.String()
	}
	return t.Definition + "[" + strings.Join(args, ", ") + "]"
}

// Clone returns a deep copy of t.
func (t DataType) Clone() DataType {
	out := DataType{Primitive: t.Primitive, Definition: t.Definition}
	if t.Parents != nil {
		out.Parents = make([]DataType, len(t.Parents))
		for i, p := range t.Parents {
			out.Parents[i] = p.Clone()
		}
	}
	if t.TypeArguments != nil {
		out.TypeArguments = make([]DataType, len(t.TypeArguments))
		for i, a := range t.TypeArguments {
			out.TypeArguments[i] = a.Clone()
		}
	}
	return out
}
