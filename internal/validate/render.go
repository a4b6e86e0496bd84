// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/zclconf/go-cty/cty"
)

// renderValue formats a value for error messages.
func renderValue(v cty.Value) string {
	switch {
	case !v.IsKnown():
		return "(unknown)"
	case v.IsNull():
		return "null"
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return strconv.Quote(v.AsString())
	case ty.Equals(cty.Number):
		return v.AsBigFloat().Text('g', -1)
	case ty.Equals(cty.Bool):
		return strconv.FormatBool(v.True())
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var elems []cty.Value
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			elems = append(elems, e)
		}
		return renderValues(elems)
	}
	return ty.FriendlyName()
}

func renderValues(vs []cty.Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = renderValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func renderNames(when map[string]descriptor.Conditions) string {
	names := slices.Sorted(maps.Keys(when))
	for i, n := range names {
		names[i] = "'" + n + "'"
	}
	return strings.Join(names, ", ")
}
