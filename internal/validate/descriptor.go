// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/opgrid/internal/descriptor"
)

// Descriptor checks that declared metadata is well formed on its own, before
// it is compared with any class. Problems are reported as a SignatureMismatch
// because a malformed declaration can never match its class.
func Descriptor(op descriptor.Operator) error {
	var problems []string

	if op.Name == "" {
		problems = append(problems, "operator name is empty")
	}
	if !op.Kind.Valid() {
		problems = append(problems, fmt.Sprintf("unknown kind %q", op.Kind))
	}

	for _, name := range slices.Sorted(maps.Keys(op.Parameters)) {
		problems = append(problems, parameterProblems(name, op.Parameters[name], op.Parameters)...)
	}

	for _, name := range slices.Sorted(maps.Keys(op.Inputs)) {
		in := op.Inputs[name]
		if name == "" {
			problems = append(problems, "input with an empty name")
		} else if in.Name != name {
			problems = append(problems, fmt.Sprintf("input %q is stored under the key %q", in.Name, name))
		}
	}

	seen := make(map[string]bool, len(op.Outputs))
	for i, out := range op.Outputs {
		switch {
		case out.Name == "":
			problems = append(problems, fmt.Sprintf("output #%d has an empty name", i))
		case seen[out.Name]:
			problems = append(problems, fmt.Sprintf("output %q is declared more than once", out.Name))
		}
		seen[out.Name] = true
	}

	if len(problems) > 0 {
		return &SignatureMismatch{Operator: op.Name, Problems: problems}
	}
	return nil
}

func parameterProblems(key string, p descriptor.ParameterSpec, all map[string]descriptor.ParameterSpec) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf("parameter %q: ", key)+fmt.Sprintf(format, args...))
	}

	if key == "" {
		add("empty name")
	}
	if p.Name != key {
		add("stored under a different name %q", p.Name)
	}
	if !p.Type.Valid() {
		add("unknown type %q", p.Type)
		return problems
	}
	if p.Type == descriptor.ParamAssetReference {
		if !p.AssetType.Valid() {
			add("asset reference with unknown asset type %q", p.AssetType)
		}
	} else if p.AssetType != "" {
		add("asset type %q is only valid for asset references", p.AssetType)
	}

	problems = append(problems, boundProblems(key, "", p.Type, p.Conditions)...)
	for _, v := range p.Conditions.Values {
		if err := checkType(descriptor.ParameterSpec{Name: p.Name, Type: p.Type}, v); err != nil {
			add("allowed value %s is not a %s", renderValue(v), p.Type)
		}
	}

	if p.Default != nil {
		if err := Parameter(p, *p.Default); err != nil {
			add("default is invalid: %v", err)
		}
	}

	for _, other := range slices.Sorted(maps.Keys(p.When)) {
		if other == key {
			add("condition refers to itself")
			continue
		}
		ref, ok := all[other]
		if !ok {
			add("condition refers to undeclared parameter %q", other)
			continue
		}
		problems = append(problems, boundProblems(key, other, ref.Type, p.When[other])...)
	}
	return problems
}

func boundProblems(key, other string, t descriptor.ParamType, c descriptor.Conditions) []string {
	where := fmt.Sprintf("parameter %q", key)
	if other != "" {
		where += fmt.Sprintf(" condition on %q", other)
	}
	if c.Min == nil && c.Max == nil {
		return nil
	}
	if !t.Numeric() {
		return []string{fmt.Sprintf("%s: min/max bounds require a numeric type, not %s", where, t)}
	}
	if c.Min != nil && !finite(*c.Min) || c.Max != nil && !finite(*c.Max) {
		return []string{fmt.Sprintf("%s: bounds must be finite numbers", where)}
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return []string{fmt.Sprintf("%s: min %g is greater than max %g", where, *c.Min, *c.Max)}
	}
	return nil
}
