// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package declare attaches operator metadata to Go classes and registers
// them. It replaces class-level annotations with explicit builder calls made
// once during module initialisation:
//
//	func (m *Module) Register(r *registry.Registry) error {
//		_, err := declare.Operator[SplitAlbum](r, declare.Spec{
//			Name: "split album",
//			...
//		})
//		return err
//	}
//
// A declaration is checked on its own, then against the reflected signature
// of its class, and only registered once both checks pass.
package declare

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/specialistvlad/opgrid/internal/signature"
	"github.com/specialistvlad/opgrid/internal/validate"
)

// Spec is the metadata supplied by an operator author. Map keys name the
// parameters and inputs; a spec whose Name field is empty takes its key.
type Spec struct {
	// Name defaults to the Go type name split into lower-case words.
	Name        string
	Description string
	Category    string
	// ClassName defaults to the Go type name.
	ClassName      string
	PackageName    string
	PackageVersion string
	Parameters     map[string]descriptor.ParameterSpec
	Inputs         map[string]descriptor.InputSpec
	Outputs        []descriptor.OutputSpec
}

// Operator declares T as a pipeline operator.
func Operator[T any](reg *registry.Registry, spec Spec) (descriptor.Operator, error) {
	return Class(reg, descriptor.KindOperator, registry.ClassOf[T](), spec)
}

// Primitive declares T as a model primitive of the given kind.
func Primitive[T any](reg *registry.Registry, kind descriptor.Kind, spec Spec) (descriptor.Operator, error) {
	return Class(reg, kind, registry.ClassOf[T](), spec)
}

// MustOperator is like Operator but panics on error.
func MustOperator[T any](reg *registry.Registry, spec Spec) descriptor.Operator {
	op, err := Operator[T](reg, spec)
	if err != nil {
		panic(err)
	}
	return op
}

// MustPrimitive is like Primitive but panics on error.
func MustPrimitive[T any](reg *registry.Registry, kind descriptor.Kind, spec Spec) descriptor.Operator {
	op, err := Primitive[T](reg, kind, spec)
	if err != nil {
		panic(err)
	}
	return op
}

// DescriptorFor returns the descriptor registered for T.
func DescriptorFor[T any](reg *registry.Registry) (descriptor.Operator, bool) {
	return reg.DescriptorOf(reflect.TypeFor[T]())
}

// Class declares an arbitrary class. It is the untyped form used when the
// class is only known at runtime, as with manifests. On success the resolved
// descriptor, as stored in the registry, is returned.
func Class(reg *registry.Registry, kind descriptor.Kind, class registry.Class, spec Spec) (descriptor.Operator, error) {
	if reg == nil {
		return descriptor.Operator{}, fmt.Errorf("cannot declare into a nil registry")
	}
	if class.Type == nil {
		return descriptor.Operator{}, fmt.Errorf("cannot declare %q without a class", spec.Name)
	}

	op, err := Capture(kind, class.Type, spec)
	if err != nil {
		return descriptor.Operator{}, err
	}
	if err := validate.Descriptor(op); err != nil {
		return descriptor.Operator{}, err
	}

	sig, err := signature.Of(class.Type, reg.Types())
	if err != nil {
		return descriptor.Operator{}, fmt.Errorf("failed to reflect class %s: %w", class.Name(), err)
	}
	resolved, err := validate.Signature(op, sig)
	if err != nil {
		return descriptor.Operator{}, err
	}

	if err := reg.Register(resolved, class); err != nil {
		return descriptor.Operator{}, err
	}
	return resolved, nil
}

// Capture turns an author's Spec into a descriptor without validating it.
func Capture(kind descriptor.Kind, t reflect.Type, spec Spec) (descriptor.Operator, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	typeName := ""
	if t != nil {
		typeName = t.Name()
	}

	op := descriptor.Operator{
		Name:        spec.Name,
		Description: spec.Description,
		Kind:        kind,
		Category:    spec.Category,
		ClassName:   spec.ClassName,
		PackageName: spec.PackageName,
	}
	if op.Name == "" {
		op.Name = DefaultName(typeName)
	}
	if op.ClassName == "" {
		op.ClassName = typeName
	}
	if spec.PackageVersion != "" {
		v, err := semver.NewVersion(spec.PackageVersion)
		if err != nil {
			return descriptor.Operator{}, fmt.Errorf("operator '%s': invalid package version %q: %w", op.Name, spec.PackageVersion, err)
		}
		op.PackageVersion = v
	}

	op.Parameters = make(map[string]descriptor.ParameterSpec, len(spec.Parameters))
	for key, p := range spec.Parameters {
		p = p.Clone()
		if p.Name == "" {
			p.Name = key
		}
		op.Parameters[key] = p
	}
	op.Inputs = make(map[string]descriptor.InputSpec, len(spec.Inputs))
	for key, in := range spec.Inputs {
		in = in.Clone()
		if in.Name == "" {
			in.Name = key
		}
		op.Inputs[key] = in
	}
	op.Outputs = make([]descriptor.OutputSpec, 0, len(spec.Outputs))
	for _, out := range spec.Outputs {
		op.Outputs = append(op.Outputs, out.Clone())
	}
	return op, nil
}

// DefaultName splits a Go identifier into lower-case words:
// "TestPipelineOperator" becomes "test pipeline operator" and
// "HTTPClient" becomes "http client".
func DefaultName(ident string) string {
	runes := []rune(ident)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev))
		if !boundary && unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			boundary = true
		}
		if cur == '_' {
			words = append(words, string(runes[start:i]))
			start = i + 1
			continue
		}
		if boundary && i > start {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	words = slices.DeleteFunc(words, func(w string) bool { return w == "" })
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, " ")
}

