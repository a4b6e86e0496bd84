// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package signature turns the Go method set of an operator class into an
// explicit schema that can be compared with declared metadata.
//
// Operators expose their contract through two methods:
//
//	func (o *Op) Configure(ctx context.Context, p Params) error
//	func (o *Op) Apply(ctx context.Context, in Inputs) (Outputs, error)
//
// Params, Inputs and Outputs are structs (or pointers to structs). Their
// fields are published through `op:"name"` tags; `op:"name,optional"` marks a
// field that has a default and may be left unset by the caller. Untagged
// fields are ignored.
package signature

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/descriptor"
)

// TagName is the struct tag key read from parameter, input and output structs.
const TagName = "op"

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// Field is one tagged field of a parameter, input or output struct.
type Field struct {
	Name     string
	GoName   string
	GoType   reflect.Type
	Index    []int
	Type     datatype.DataType
	Optional bool
}

// Method is the reflected shape of Configure or Apply.
type Method struct {
	Name string
	// Arg is the struct type of the method's single non-context argument.
	// It is nil for a Configure that takes only a context.
	Arg        reflect.Type
	ArgPointer bool
	Args       []Field
	// Result is the struct type returned by Apply; nil for Configure.
	Result        reflect.Type
	ResultPointer bool
	Results       []Field
}

// ArgField returns the argument field with the given tag name.
func (m *Method) ArgField(name string) (Field, bool) {
	for _, f := range m.Args {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Signature is the contract a class exposes.
type Signature struct {
	Type         reflect.Type
	Capabilities []descriptor.Capability
	Configure    *Method
	Apply        *Method
	// Problems lists shape errors found while reflecting. They are reported
	// together with metadata mismatches by the validator.
	Problems []string
}

// capabilityMethods lists the capabilities in reporting order, each with the
// methods that must all be present.
var capabilityMethods = []struct {
	capability descriptor.Capability
	methods    []string
}{
	{descriptor.CapabilityConfigure, []string{"Configure"}},
	{descriptor.CapabilityApply, []string{"Apply"}},
	{descriptor.CapabilityForward, []string{"Forward"}},
	{descriptor.CapabilityFit, []string{"Fit"}},
	{descriptor.CapabilityPredict, []string{"Predict"}},
	{descriptor.CapabilityPredictProba, []string{"PredictProba"}},
	{descriptor.CapabilityStateDict, []string{"GetStateDict", "SetStateDict"}},
}

// Of reflects the class t. Methods are looked up on *t so that both value
// and pointer receivers count.
func Of(t reflect.Type, types *datatype.Table) (Signature, error) {
	if t == nil {
		return Signature{}, fmt.Errorf("cannot reflect a nil class")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if types == nil {
		types = datatype.NewTable()
	}

	sig := Signature{Type: t}
	ptr := reflect.PointerTo(t)

	for _, cm := range capabilityMethods {
		present := true
		for _, name := range cm.methods {
			if _, ok := ptr.MethodByName(name); !ok {
				present = false
				break
			}
		}
		if present {
			sig.Capabilities = append(sig.Capabilities, cm.capability)
		}
	}

	if m, ok := ptr.MethodByName("Configure"); ok {
		sig.Configure = reflectConfigure(m.Type, &sig.Problems)
	}
	if m, ok := ptr.MethodByName("Apply"); ok {
		sig.Apply = reflectApply(m.Type, types, &sig.Problems)
	}

	return sig, nil
}

// reflectConfigure reads func(recv, context.Context[, Params]) error.
func reflectConfigure(ft reflect.Type, problems *[]string) *Method {
	m := &Method{Name: "Configure"}
	if ft.NumIn() < 2 || ft.NumIn() > 3 || ft.In(1) != contextType {
		*problems = append(*problems, "Configure must have the form Configure(context.Context[, Params]) error")
		return m
	}
	if ft.NumOut() != 1 || ft.Out(0) != errorType {
		*problems = append(*problems, "Configure must return exactly one error")
	}
	if ft.NumIn() == 3 {
		arg, isPtr, ok := structOf(ft.In(2))
		if !ok {
			*problems = append(*problems, fmt.Sprintf("Configure parameters must be a struct, got %s", ft.In(2)))
			return m
		}
		m.Arg, m.ArgPointer = arg, isPtr
		m.Args = tagFields(arg, nil, "Configure", problems)
	}
	return m
}

// reflectApply reads func(recv, context.Context, Inputs) (Outputs, error).
func reflectApply(ft reflect.Type, types *datatype.Table, problems *[]string) *Method {
	m := &Method{Name: "Apply"}
	if ft.NumIn() != 3 || ft.In(1) != contextType {
		*problems = append(*problems, "Apply must have the form Apply(context.Context, Inputs) (Outputs, error)")
		return m
	}
	if ft.NumOut() != 2 || ft.Out(1) != errorType {
		*problems = append(*problems, "Apply must return (Outputs, error)")
		return m
	}

	in, inPtr, ok := structOf(ft.In(2))
	if !ok {
		*problems = append(*problems, fmt.Sprintf("Apply inputs must be a struct, got %s", ft.In(2)))
	} else {
		m.Arg, m.ArgPointer = in, inPtr
		m.Args = tagFields(in, types, "Apply input", problems)
	}

	out, outPtr, ok := structOf(ft.Out(0))
	if !ok {
		*problems = append(*problems, fmt.Sprintf("Apply outputs must be a struct, got %s", ft.Out(0)))
	} else {
		m.Result, m.ResultPointer = out, outPtr
		m.Results = tagFields(out, types, "Apply output", problems)
	}
	return m
}

func structOf(t reflect.Type) (reflect.Type, bool, bool) {
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		return t.Elem(), true, true
	}
	if t.Kind() == reflect.Struct {
		return t, false, true
	}
	return nil, false, false
}

// tagFields collects the tagged fields of a struct in declaration order. When
// types is non-nil each field's data type is resolved through it.
func tagFields(st reflect.Type, types *datatype.Table, where string, problems *[]string) []Field {
	var fields []Field
	seen := make(map[string]string)
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, optional := parseTag(sf.Tag.Get(TagName))
		if name == "" || name == "-" {
			continue
		}
		if prev, dup := seen[name]; dup {
			*problems = append(*problems, fmt.Sprintf("%s: fields %s and %s share the name %q", where, prev, sf.Name, name))
			continue
		}
		seen[name] = sf.Name

		f := Field{
			Name:     name,
			GoName:   sf.Name,
			GoType:   sf.Type,
			Index:    sf.Index,
			Optional: optional,
		}
		if types != nil {
			dt, err := types.Resolve(sf.Type)
			if err != nil {
				*problems = append(*problems, fmt.Sprintf("%s %q: %v", where, name, err))
			} else {
				f.Type = dt
			}
		}
		fields = append(fields, f)
	}
	return fields
}

func parseTag(tag string) (string, bool) {
	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	optional := false
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "optional" {
			optional = true
		}
	}
	return name, optional
}
