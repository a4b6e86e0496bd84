// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/zclconf/go-cty/cty"
)

// Parameter checks a single value against its parameter spec: the value's
// type must match, and every declared condition must hold. A nil error means
// the value is valid.
func Parameter(spec descriptor.ParameterSpec, value cty.Value) error {
	if value.IsNull() || !value.IsKnown() {
		return &ConstraintViolation{Parameter: spec.Name, Rule: RuleType, Value: value,
			Detail: fmt.Sprintf("expected %s, got no value", describeType(spec))}
	}
	if !spec.Multiple {
		return checkValue(spec, value)
	}

	ty := value.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return &ConstraintViolation{Parameter: spec.Name, Rule: RuleType, Value: value,
			Detail: fmt.Sprintf("expected %s, got %s", describeType(spec), ty.FriendlyName())}
	}
	for it := value.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if err := checkValue(spec, elem); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(spec descriptor.ParameterSpec, v cty.Value) error {
	if err := checkType(spec, v); err != nil {
		return err
	}
	return checkConditions(spec.Name, spec.Conditions, v)
}

func describeType(spec descriptor.ParameterSpec) string {
	if spec.Multiple {
		return "a list of " + string(spec.Type)
	}
	return string(spec.Type)
}

func checkType(spec descriptor.ParameterSpec, v cty.Value) error {
	if v.IsNull() || !v.IsKnown() {
		return &ConstraintViolation{Parameter: spec.Name, Rule: RuleType, Value: v,
			Detail: fmt.Sprintf("expected %s, got no value", spec.Type)}
	}
	ok := false
	ty := v.Type()
	switch spec.Type {
	case descriptor.ParamString:
		ok = ty.Equals(cty.String)
	case descriptor.ParamAssetReference:
		ok = ty.Equals(cty.String) && v.AsString() != ""
	case descriptor.ParamBoolean:
		ok = ty.Equals(cty.Bool)
	case descriptor.ParamFloat:
		ok = ty.Equals(cty.Number)
	case descriptor.ParamInt:
		ok = ty.Equals(cty.Number) && v.AsBigFloat().IsInt()
	}
	if !ok {
		return &ConstraintViolation{Parameter: spec.Name, Rule: RuleType, Value: v,
			Detail: fmt.Sprintf("expected %s, got %s", spec.Type, renderValue(v))}
	}
	return nil
}

func checkConditions(name string, c descriptor.Conditions, v cty.Value) error {
	if len(c.Values) > 0 && !slices.ContainsFunc(c.Values, func(candidate cty.Value) bool { return sameValue(candidate, v) }) {
		return &ConstraintViolation{Parameter: name, Rule: RuleValues, Value: v,
			Detail: fmt.Sprintf("%s is not one of %s", renderValue(v), renderValues(c.Values))}
	}
	if c.Min == nil && c.Max == nil {
		return nil
	}
	if !v.Type().Equals(cty.Number) || v.IsNull() {
		rule := RuleMin
		if c.Min == nil {
			rule = RuleMax
		}
		return &ConstraintViolation{Parameter: name, Rule: rule, Value: v,
			Detail: fmt.Sprintf("bounds apply to numbers, got %s", renderValue(v))}
	}
	// Bounds are float64; compare the value at the same precision.
	f, _ := v.AsBigFloat().Float64()
	if c.Min != nil {
		if !finite(*c.Min) {
			return &ConstraintViolation{Parameter: name, Rule: RuleMin, Value: v,
				Detail: fmt.Sprintf("the minimum %g is not a finite number", *c.Min)}
		}
		if f < *c.Min {
			return &ConstraintViolation{Parameter: name, Rule: RuleMin, Value: v,
				Detail: fmt.Sprintf("%s is less than the minimum %g", renderValue(v), *c.Min)}
		}
	}
	if c.Max != nil {
		if !finite(*c.Max) {
			return &ConstraintViolation{Parameter: name, Rule: RuleMax, Value: v,
				Detail: fmt.Sprintf("the maximum %g is not a finite number", *c.Max)}
		}
		if f > *c.Max {
			return &ConstraintViolation{Parameter: name, Rule: RuleMax, Value: v,
				Detail: fmt.Sprintf("%s is greater than the maximum %g", renderValue(v), *c.Max)}
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Satisfies reports whether v meets every rule in c. Empty conditions are
// always satisfied.
func Satisfies(c descriptor.Conditions, v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return c.IsEmpty()
	}
	return checkConditions("", c, v) == nil
}

func sameValue(a, b cty.Value) bool {
	if !a.IsKnown() || !b.IsKnown() || a.IsNull() || b.IsNull() {
		return false
	}
	if !a.Type().Equals(b.Type()) {
		return false
	}
	return a.Equals(b).True()
}

// Parameters validates a complete set of configure-time values against the
// declared parameters. Defaults are applied to omitted optional parameters,
// and parameters whose When conditions are not met are left out. The
// returned map holds the resolved values of every available parameter. All
// violations are reported together.
func Parameters(specs map[string]descriptor.ParameterSpec, values map[string]cty.Value) (map[string]cty.Value, error) {
	var errs []error

	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, ok := specs[name]; !ok {
			errs = append(errs, &ConstraintViolation{Parameter: name, Rule: RuleUnknown, Value: values[name],
				Detail: "no such parameter is declared"})
		}
	}

	names := slices.Sorted(maps.Keys(specs))
	resolved := make(map[string]cty.Value, len(specs))
	for _, name := range names {
		if v, ok := values[name]; ok && !v.IsNull() {
			resolved[name] = v
		} else if d := specs[name].Default; d != nil {
			resolved[name] = *d
		}
	}

	out := make(map[string]cty.Value, len(resolved))
	for _, name := range names {
		spec := specs[name]
		v, present := resolved[name]

		if !available(spec, resolved) {
			if supplied, ok := values[name]; ok && !supplied.IsNull() {
				errs = append(errs, &ConstraintViolation{Parameter: name, Rule: RuleWhen, Value: supplied,
					Detail: "parameter does not apply with the current values of " + renderNames(spec.When)})
			}
			continue
		}
		if !present {
			errs = append(errs, &ConstraintViolation{Parameter: name, Rule: RuleRequired, Value: cty.NullVal(cty.DynamicPseudoType),
				Detail: "a value is required"})
			continue
		}
		if err := Parameter(spec, v); err != nil {
			errs = append(errs, err)
			continue
		}
		out[name] = v
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// available evaluates a parameter's When conditions against the resolved
// values. A referenced list value matches when any element does.
func available(spec descriptor.ParameterSpec, resolved map[string]cty.Value) bool {
	for other, cond := range spec.When {
		v, ok := resolved[other]
		if !ok {
			return false
		}
		if !matchesAny(cond, v) {
			return false
		}
	}
	return true
}

func matchesAny(c descriptor.Conditions, v cty.Value) bool {
	if v.IsKnown() && !v.IsNull() {
		ty := v.Type()
		if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
			for it := v.ElementIterator(); it.Next(); {
				_, elem := it.Element()
				if Satisfies(c, elem) {
					return true
				}
			}
			return false
		}
	}
	return Satisfies(c, v)
}
