// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package catalog renders registered descriptors as documents for pipeline
// orchestrators and for people. Documents are plain data and serialise to
// YAML, JSON or a text table.
package catalog

import (
	"math/big"
	"slices"

	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/zclconf/go-cty/cty"
)

// Document is the published form of one descriptor.
type Document struct {
	ID             string          `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	Kind           descriptor.Kind `yaml:"kind" json:"kind"`
	Description    string          `yaml:"description,omitempty" json:"description,omitempty"`
	Category       string          `yaml:"category,omitempty" json:"category,omitempty"`
	ClassName      string          `yaml:"className" json:"className"`
	PackageName    string          `yaml:"packageName,omitempty" json:"packageName,omitempty"`
	PackageVersion string          `yaml:"packageVersion,omitempty" json:"packageVersion,omitempty"`
	Capabilities   []string        `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Params         []Param         `yaml:"params,omitempty" json:"params,omitempty"`
	Inputs         []Input         `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs        []Output        `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// Param is a published parameter.
type Param struct {
	Name        string                `yaml:"name" json:"name"`
	Caption     string                `yaml:"caption,omitempty" json:"caption,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Type        descriptor.ParamType  `yaml:"type" json:"type"`
	AssetType   datatype.AssetType    `yaml:"assetType,omitempty" json:"assetType,omitempty"`
	Multiple    bool                  `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	Optional    bool                  `yaml:"optional,omitempty" json:"optional,omitempty"`
	Default     any                   `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Options     []any                 `yaml:"options,omitempty" json:"options,omitempty"`
	Min         *float64              `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64              `yaml:"max,omitempty" json:"max,omitempty"`
	Conditions  map[string]Conditions `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

// Conditions is a published availability condition.
type Conditions struct {
	Values []any    `yaml:"values,omitempty" json:"values,omitempty"`
	Min    *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Input is a published input.
type Input struct {
	Name        string             `yaml:"name" json:"name"`
	Caption     string             `yaml:"caption,omitempty" json:"caption,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Type        *datatype.DataType `yaml:"type,omitempty" json:"type,omitempty"`
	Covariate   bool               `yaml:"covariate" json:"covariate"`
	Optional    bool               `yaml:"optional" json:"optional"`
}

// Output is a published output.
type Output struct {
	Name        string             `yaml:"name" json:"name"`
	Caption     string             `yaml:"caption,omitempty" json:"caption,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Type        *datatype.DataType `yaml:"type,omitempty" json:"type,omitempty"`
}

// FromDescriptor builds the document of op. Parameters and inputs are sorted
// by name; outputs keep their declared order.
func FromDescriptor(op descriptor.Operator) Document {
	doc := Document{
		ID:          documentID(op),
		Name:        op.Name,
		Kind:        op.Kind,
		Description: op.Description,
		Category:    op.Category,
		ClassName:   op.ClassName,
		PackageName: op.PackageName,
	}
	if op.PackageVersion != nil {
		doc.PackageVersion = op.PackageVersion.String()
	}
	for _, c := range op.Capabilities {
		doc.Capabilities = append(doc.Capabilities, string(c))
	}

	for _, name := range op.ParameterNames() {
		p := op.Parameters[name]
		param := Param{
			Name:        p.Name,
			Caption:     p.Caption,
			Description: p.Description,
			Type:        p.Type,
			AssetType:   p.AssetType,
			Multiple:    p.Multiple,
			Optional:    p.Optional(),
			Min:         p.Conditions.Min,
			Max:         p.Conditions.Max,
			Options:     nativeValues(p.Conditions.Values),
		}
		if p.Default != nil {
			param.Default = native(*p.Default)
		}
		if len(p.When) > 0 {
			param.Conditions = make(map[string]Conditions, len(p.When))
			for other, c := range p.When {
				param.Conditions[other] = Conditions{Values: nativeValues(c.Values), Min: c.Min, Max: c.Max}
			}
		}
		doc.Params = append(doc.Params, param)
	}

	for _, name := range op.InputNames() {
		in := op.Inputs[name]
		doc.Inputs = append(doc.Inputs, Input{
			Name:        in.Name,
			Caption:     in.Caption,
			Description: in.Description,
			Type:        typeRef(in.Type),
			Covariate:   in.Covariate,
			Optional:    in.Optional,
		})
	}
	for _, out := range op.Outputs {
		doc.Outputs = append(doc.Outputs, Output{
			Name:        out.Name,
			Caption:     out.Caption,
			Description: out.Description,
			Type:        typeRef(out.Type),
		})
	}
	return doc
}

// documentID joins the package and class names the way module paths are
// written: "s9-operators.SplitAlbum".
func documentID(op descriptor.Operator) string {
	if op.PackageName == "" {
		return op.ClassName
	}
	return op.PackageName + "." + op.ClassName
}

func typeRef(t datatype.DataType) *datatype.DataType {
	if t.IsZero() {
		return nil
	}
	c := t.Clone()
	return &c
}

func nativeValues(vs []cty.Value) []any {
	if len(vs) == 0 {
		return nil
	}
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		out = append(out, native(v))
	}
	return out
}

// native converts a cty value into plain Go data for the encoders. Integral
// numbers become int64 so that `3` is not rendered as `3.0`.
func native(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			out = append(out, native(elem))
		}
		return out
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			out[k.AsString()] = native(elem)
		}
		return out
	}
	return nil
}

// FromDescriptors builds one document per descriptor, preserving order.
func FromDescriptors(ops ...descriptor.Operator) []Document {
	docs := make([]Document, 0, len(ops))
	for _, op := range ops {
		docs = append(docs, FromDescriptor(op))
	}
	return slices.Clip(docs)
}
