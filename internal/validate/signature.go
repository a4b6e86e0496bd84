// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/signature"
	"github.com/zclconf/go-cty/cty"
)

var ctyValueType = reflect.TypeFor[cty.Value]()

// capabilityMethodNames is used to tell authors which methods are missing.
var capabilityMethodNames = map[descriptor.Capability]string{
	descriptor.CapabilityConfigure:    "Configure",
	descriptor.CapabilityApply:        "Apply",
	descriptor.CapabilityForward:      "Forward",
	descriptor.CapabilityFit:          "Fit",
	descriptor.CapabilityPredict:      "Predict",
	descriptor.CapabilityPredictProba: "PredictProba",
	descriptor.CapabilityStateDict:    "GetStateDict and SetStateDict",
}

// Signature compares declared metadata with the reflected signature of its
// class. It returns the resolved descriptor: input and output types left
// empty are taken from the signature, input optionality is derived from the
// signature, and the detected capability set is recorded.
//
// Every disagreement is collected into a single SignatureMismatch.
func Signature(op descriptor.Operator, sig signature.Signature) (descriptor.Operator, error) {
	problems := slices.Clone(sig.Problems)
	resolved := op.Clone()
	resolved.Capabilities = slices.Clone(sig.Capabilities)

	for _, c := range op.Kind.RequiredCapabilities() {
		if !descriptor.HasCapability(sig.Capabilities, c) {
			problems = append(problems, fmt.Sprintf("a %s requires the %q capability (method %s)", op.Kind, c, capabilityMethodNames[c]))
		}
	}

	problems = append(problems, checkParameters(op, sig.Configure)...)

	if sig.Apply == nil {
		if len(op.Inputs) > 0 || len(op.Outputs) > 0 {
			problems = append(problems, "inputs or outputs are declared but the class has no Apply method")
		}
	} else {
		problems = append(problems, resolveInputs(op, sig.Apply, &resolved)...)
		problems = append(problems, resolveOutputs(op, sig.Apply, &resolved)...)
	}

	if len(problems) > 0 {
		return descriptor.Operator{}, &SignatureMismatch{Operator: op.Name, Problems: problems}
	}
	return resolved, nil
}

func checkParameters(op descriptor.Operator, configure *signature.Method) []string {
	var problems []string
	names := slices.Sorted(maps.Keys(op.Parameters))

	if configure == nil {
		if len(names) > 0 {
			problems = append(problems, "parameters are declared but the class has no Configure method")
		}
		return problems
	}

	for _, name := range names {
		p := op.Parameters[name]
		f, ok := configure.ArgField(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("parameter %q is not a field of the Configure parameters", name))
			continue
		}
		if !parameterFieldCompatible(p, f.GoType) {
			problems = append(problems, fmt.Sprintf("parameter %q is declared as %s but Configure field %s has Go type %s",
				name, describeType(p), f.GoName, f.GoType))
		}
	}
	for _, f := range configure.Args {
		if _, ok := op.Parameters[f.Name]; !ok && !f.Optional {
			problems = append(problems, fmt.Sprintf("Configure field %s (%q) has no default and no declared parameter", f.GoName, f.Name))
		}
	}
	return problems
}

// parameterFieldCompatible reports whether a Go field can hold values of the
// declared parameter type. A cty.Value field accepts anything.
func parameterFieldCompatible(p descriptor.ParameterSpec, t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == ctyValueType {
		return true
	}
	if p.Multiple {
		if t.Kind() != reflect.Slice {
			return false
		}
		t = t.Elem()
		if t == ctyValueType {
			return true
		}
	}
	switch p.Type {
	case descriptor.ParamString, descriptor.ParamAssetReference:
		return t.Kind() == reflect.String
	case descriptor.ParamBoolean:
		return t.Kind() == reflect.Bool
	case descriptor.ParamInt:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
	case descriptor.ParamFloat:
		return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
	}
	return false
}

func resolveInputs(op descriptor.Operator, apply *signature.Method, resolved *descriptor.Operator) []string {
	var problems []string
	for _, name := range slices.Sorted(maps.Keys(op.Inputs)) {
		in := op.Inputs[name]
		f, ok := apply.ArgField(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("input %q is not a parameter of Apply", name))
			continue
		}
		switch {
		case f.Type.IsZero():
			// The field's Go type could not be resolved; already reported.
		case in.Type.IsZero():
			in.Type = f.Type.Clone()
		case !in.Type.Equal(f.Type):
			problems = append(problems, fmt.Sprintf("input %q is declared as %s but Apply takes %s", name, in.Type, f.Type))
		}
		in.Optional = f.Optional
		resolved.Inputs[name] = in
	}
	for _, f := range apply.Args {
		if _, ok := op.Inputs[f.Name]; !ok && !f.Optional {
			problems = append(problems, fmt.Sprintf("Apply parameter %q has no default and no declared input", f.Name))
		}
	}
	return problems
}

func resolveOutputs(op descriptor.Operator, apply *signature.Method, resolved *descriptor.Operator) []string {
	var problems []string
	position := make(map[string]int, len(apply.Results))
	for i, f := range apply.Results {
		position[f.Name] = i
	}

	for i, out := range op.Outputs {
		j, ok := position[out.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("output %q is not returned by Apply", out.Name))
			continue
		}
		if i != j {
			problems = append(problems, fmt.Sprintf("output %q is declared at position %d but Apply returns it at position %d", out.Name, i, j))
		}
		f := apply.Results[j]
		switch {
		case f.Type.IsZero():
		case out.Type.IsZero():
			out.Type = f.Type.Clone()
		case !out.Type.Equal(f.Type):
			problems = append(problems, fmt.Sprintf("output %q is declared as %s but Apply returns %s", out.Name, out.Type, f.Type))
		}
		resolved.Outputs[i] = out
	}

	declared := make(map[string]bool, len(op.Outputs))
	for _, out := range op.Outputs {
		declared[out.Name] = true
	}
	for _, f := range apply.Results {
		if !declared[f.Name] {
			problems = append(problems, fmt.Sprintf("Apply returns %q which is not a declared output", f.Name))
		}
	}
	return problems
}
