// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package descriptor

import (
	"maps"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/specialistvlad/opgrid/internal/datatype"
)

// InputSpec describes one named input of an operator's apply step.
type InputSpec struct {
	Name        string
	Caption     string
	Description string
	Type        datatype.DataType
	// Covariate marks a primary model feature rather than auxiliary context.
	Covariate bool
	// Optional is derived from the signature: the input has a default.
	Optional bool
}

// Clone returns a deep copy of s.
func (s InputSpec) Clone() InputSpec {
	s.Type = s.Type.Clone()
	return s
}

// Equal reports whether s and o describe the same input.
func (s InputSpec) Equal(o InputSpec) bool {
	return s.Name == o.Name && s.Caption == o.Caption && s.Description == o.Description &&
		s.Type.Equal(o.Type) && s.Covariate == o.Covariate && s.Optional == o.Optional
}

// OutputSpec describes one positional output of an operator's apply step.
type OutputSpec struct {
	Name        string
	Caption     string
	Description string
	Type        datatype.DataType
}

// Clone returns a deep copy of s.
func (s OutputSpec) Clone() OutputSpec {
	s.Type = s.Type.Clone()
	return s
}

// Equal reports whether s and o describe the same output.
func (s OutputSpec) Equal(o OutputSpec) bool {
	return s.Name == o.Name && s.Caption == o.Caption && s.Description == o.Description &&
		s.Type.Equal(o.Type)
}

// Operator is the captured metadata of one registered class.
type Operator struct {
	Name           string
	Description    string
	Kind           Kind
	Category       string
	ClassName      string
	PackageName    string
	PackageVersion *semver.Version
	Parameters     map[string]ParameterSpec
	Inputs         map[string]InputSpec
	Outputs        []OutputSpec
	// Capabilities is the capability set detected on the class.
	Capabilities []Capability
}

// Clone returns a deep copy of o. The registry hands out clones only, so a
// registered descriptor can never be changed through a lookup result.
func (o Operator) Clone() Operator {
	out := o
	if o.PackageVersion != nil {
		v := *o.PackageVersion
		out.PackageVersion = &v
	}
	if o.Parameters != nil {
		out.Parameters = make(map[string]ParameterSpec, len(o.Parameters))
		for k, p := range o.Parameters {
			out.Parameters[k] = p.Clone()
		}
	}
	if o.Inputs != nil {
		out.Inputs = make(map[string]InputSpec, len(o.Inputs))
		for k, in := range o.Inputs {
			out.Inputs[k] = in.Clone()
		}
	}
	if o.Outputs != nil {
		out.Outputs = make([]OutputSpec, len(o.Outputs))
		for i, s := range o.Outputs {
			out.Outputs[i] = s.Clone()
		}
	}
	out.Capabilities = slices.Clone(o.Capabilities)
	return out
}

// Equal reports whether o and other carry the same metadata.
func (o Operator) Equal(other Operator) bool {
	if o.Name != other.Name || o.Description != other.Description || o.Kind != other.Kind ||
		o.Category != other.Category || o.ClassName != other.ClassName || o.PackageName != other.PackageName {
		return false
	}
	if (o.PackageVersion == nil) != (other.PackageVersion == nil) {
		return false
	}
	if o.PackageVersion != nil && !o.PackageVersion.Equal(other.PackageVersion) {
		return false
	}
	return maps.EqualFunc(o.Parameters, other.Parameters, ParameterSpec.Equal) &&
		maps.EqualFunc(o.Inputs, other.Inputs, InputSpec.Equal) &&
		slices.EqualFunc(o.Outputs, other.Outputs, OutputSpec.Equal) &&
		slices.Equal(o.Capabilities, other.Capabilities)
}

// ParameterNames returns the parameter names in sorted order.
func (o Operator) ParameterNames() []string {
	return slices.Sorted(maps.Keys(o.Parameters))
}

// InputNames returns the input names in sorted order.
func (o Operator) InputNames() []string {
	return slices.Sorted(maps.Keys(o.Inputs))
}

// Output returns the output with the given name and its position.
func (o Operator) Output(name string) (OutputSpec, int, bool) {
	for i, s := range o.Outputs {
		if s.Name == name {
			return s, i, true
		}
	}
	return OutputSpec{}, -1, false
}
