// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/descriptor"
)

// paramTypeFromExpr converts a type keyword such as `float` into a parameter
// type. Only bare keywords are accepted.
func paramTypeFromExpr(expr hcl.Expression) (descriptor.ParamType, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	traversal, travDiags := hcl.AbsTraversalForExpr(expr)
	if travDiags.HasErrors() || len(traversal) != 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "The 'type' attribute must be a simple type keyword like 'string', 'int', 'float', 'boolean' or 'asset_reference'.",
			Subject:  expr.Range().Ptr(),
		})
		return "", diags
	}

	keyword := traversal.RootName()
	pt, ok := descriptor.ParseParamType(keyword)
	if !ok {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type",
			Detail:   fmt.Sprintf("The keyword '%s' is not a valid parameter type. Supported types are: string, int, float, boolean, asset_reference.", keyword),
			Subject:  expr.Range().Ptr(),
		})
		return "", diags
	}
	return pt, diags
}

// typeRef is a data type named in a manifest, resolved once the registry's
// type table is available.
type typeRef struct {
	Name  string
	Range hcl.Range
}

// resolveDataType parses a data type name: a primitive keyword, a registered
// definition, or `list[...]` around either.
func resolveDataType(name string, types *datatype.Table) (datatype.DataType, error) {
	name = strings.TrimSpace(name)
	if inner, ok := strings.CutPrefix(name, datatype.ListDefinition+"["); ok {
		inner, ok = strings.CutSuffix(inner, "]")
		if !ok {
			return datatype.DataType{}, fmt.Errorf("unterminated list type '%s'", name)
		}
		elem, err := resolveDataType(inner, types)
		if err != nil {
			return datatype.DataType{}, err
		}
		return datatype.List(elem), nil
	}
	if dt, ok := datatype.ParsePrimitive(name); ok {
		return dt, nil
	}
	if types != nil {
		if dt, ok := types.ByDefinition(name); ok {
			return dt, nil
		}
	}
	return datatype.DataType{}, fmt.Errorf("unknown data type '%s'", name)
}
