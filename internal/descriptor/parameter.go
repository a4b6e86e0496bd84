// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package descriptor

import (
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

// ParamType is the declared type of an operator parameter.
type ParamType string

const (
	ParamString         ParamType = "string"
	ParamInt            ParamType = "int"
	ParamFloat          ParamType = "float"
	ParamBoolean        ParamType = "boolean"
	ParamAssetReference ParamType = "assetReference"
)

// ParseParamType resolves a parameter type keyword, accepting the usual aliases.
func ParseParamType(s string) (ParamType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string":
		return ParamString, true
	case "int", "integer":
		return ParamInt, true
	case "float", "number":
		return ParamFloat, true
	case "bool", "boolean":
		return ParamBoolean, true
	case "asset", "assetreference", "asset_reference":
		return ParamAssetReference, true
	}
	return "", false
}

// Valid reports whether p is a known parameter type.
func (p ParamType) Valid() bool {
	switch p {
	case ParamString, ParamInt, ParamFloat, ParamBoolean, ParamAssetReference:
		return true
	}
	return false
}

// Numeric reports whether values of this type can be bounded by min/max.
func (p ParamType) Numeric() bool {
	return p == ParamInt || p == ParamFloat
}

// Conditions constrain a single value. Every present rule must hold.
type Conditions struct {
	// Values is the set of allowed values.
	Values []cty.Value
	// Min is the inclusive lower bound of a numeric value.
	Min *float64
	// Max is the inclusive upper bound of a numeric value.
	Max *float64
}

// IsEmpty reports whether no rule is declared.
func (c Conditions) IsEmpty() bool {
	return len(c.Values) == 0 && c.Min == nil && c.Max == nil
}

// Clone returns a deep copy of c.
func (c Conditions) Clone() Conditions {
	out := Conditions{Values: slices.Clone(c.Values)}
	if c.Min != nil {
		v := *c.Min
		out.Min = &v
	}
	if c.Max != nil {
		v := *c.Max
		out.Max = &v
	}
	return out
}

// Equal reports whether c and o declare the same rules.
func (c Conditions) Equal(o Conditions) bool {
	if !floatPtrEqual(c.Min, o.Min) || !floatPtrEqual(c.Max, o.Max) {
		return false
	}
	return slices.EqualFunc(c.Values, o.Values, cty.Value.RawEquals)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ParameterSpec describes one configure-time parameter of an operator.
type ParameterSpec struct {
	Name        string
	Caption     string
	Description string
	Type        ParamType
	// AssetType is set for asset references and names the referenced kind.
	AssetType datatype.AssetType
	// Multiple marks a parameter whose value is a list of Type.
	Multiple bool
	// Default is used when no value is supplied. A parameter with a default
	// is optional.
	Default *cty.Value
	// Conditions constrain the parameter's own value.
	Conditions Conditions
	// When makes the parameter available only while the named parameters
	// satisfy their conditions.
	When map[string]Conditions
}

// Optional reports whether the parameter may be omitted.
func (p ParameterSpec) Optional() bool {
	return p.Default != nil
}

// Clone returns a deep copy of p.
func (p ParameterSpec) Clone() ParameterSpec {
	out := p
	if p.Default != nil {
		v := *p.Default
		out.Default = &v
	}
	out.Conditions = p.Conditions.Clone()
	if p.When != nil {
		out.When = make(map[string]Conditions, len(p.When))
		for k, c := range p.When {
			out.When[k] = c.Clone()
		}
	}
	return out
}

// Equal reports whether p and o describe the same parameter.
func (p ParameterSpec) Equal(o ParameterSpec) bool {
	if p.Name != o.Name || p.Caption != o.Caption || p.Description != o.Description ||
		p.Type != o.Type || p.AssetType != o.AssetType || p.Multiple != o.Multiple {
		return false
	}
	if (p.Default == nil) != (o.Default == nil) {
		return false
	}
	if p.Default != nil && !p.Default.RawEquals(*o.Default) {
		return false
	}
	if !p.Conditions.Equal(o.Conditions) {
		return false
	}
	return maps.EqualFunc(p.When, o.When, Conditions.Equal)
}
