// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/opgrid/internal/datatype"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/validate"
)

// parameterBodySchema is the HCL schema for the body of a `parameter` block.
var parameterBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for its existence manually
		// to provide a better error message.
		{Name: "type"},
		{Name: "caption"},
		{Name: "description"},
		{Name: "default"},
		{Name: "multiple"},
		{Name: "asset_type"},
		{Name: "values"},
		{Name: "min"},
		{Name: "max"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "when", LabelNames: []string{"parameter"}},
	},
}

// conditionsBodySchema is the HCL schema for the body of a `when` block.
var conditionsBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "values"},
		{Name: "min"},
		{Name: "max"},
	},
}

// parseParameters decodes all `parameter` blocks of an operator body.
func parseParameters(blocks hcl.Blocks) (map[string]descriptor.ParameterSpec, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	params := make(map[string]descriptor.ParameterSpec)

	for _, block := range blocks.OfType("parameter") {
		name := block.Labels[0]

		if _, exists := params[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate parameter definition",
				Detail:   fmt.Sprintf("A parameter named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}

		content, contentDiags := block.Body.Content(parameterBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		typeAttr, exists := content.Attributes["type"]
		if !exists {
			missing := block.Body.MissingItemRange()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing 'type' attribute",
				Detail:   "The 'type' attribute is required for all parameter blocks.",
				Subject:  &missing,
			})
			continue
		}
		pt, typeDiags := paramTypeFromExpr(typeAttr.Expr)
		diags = append(diags, typeDiags...)
		if typeDiags.HasErrors() {
			continue
		}

		spec := descriptor.ParameterSpec{Name: name, Type: pt}
		var attrDiags hcl.Diagnostics
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "caption", &spec.Caption)...)
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "description", &spec.Description)...)
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "multiple", &spec.Multiple)...)

		if attr, ok := content.Attributes["asset_type"]; ok {
			var raw string
			decodeDiags := gohcl.DecodeExpression(attr.Expr, nil, &raw)
			attrDiags = append(attrDiags, decodeDiags...)
			if !decodeDiags.HasErrors() {
				at, valid := datatype.ParseAssetType(raw)
				if !valid {
					attrDiags = append(attrDiags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Unknown asset type",
						Detail:   fmt.Sprintf("The asset type '%s' of parameter '%s' is not known.", raw, name),
						Subject:  attr.Expr.Range().Ptr(),
					})
				}
				spec.AssetType = at
			}
		}

		cond, condDiags := parseConditions(content.Attributes)
		attrDiags = append(attrDiags, condDiags...)
		spec.Conditions = cond

		when, whenDiags := parseWhen(content.Blocks)
		attrDiags = append(attrDiags, whenDiags...)
		spec.When = when

		diags = append(diags, attrDiags...)
		if attrDiags.HasErrors() {
			continue
		}

		if attr, ok := content.Attributes["default"]; ok {
			// Defaults must be literal values, so no evaluation context is given.
			val, valDiags := attr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			if err := validate.Parameter(spec, val); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid default value",
					Detail:   fmt.Sprintf("The default value for '%s' is not valid: %s.", name, err),
					Subject:  attr.Expr.Range().Ptr(),
				})
				continue
			}
			spec.Default = &val
		}

		params[name] = spec
	}

	return params, diags
}

// parseConditions reads `values`, `min` and `max` from an attribute set.
func parseConditions(attrs hcl.Attributes) (descriptor.Conditions, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var c descriptor.Conditions

	if attr, ok := attrs["values"]; ok {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if !valDiags.HasErrors() {
			ty := val.Type()
			if val.IsNull() || !(ty.IsTupleType() || ty.IsListType() || ty.IsSetType()) {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid allowed values",
					Detail:   "The 'values' attribute must be a list of literal values.",
					Subject:  attr.Expr.Range().Ptr(),
				})
			} else {
				for it := val.ElementIterator(); it.Next(); {
					_, elem := it.Element()
					c.Values = append(c.Values, elem)
				}
			}
		}
	}

	for _, bound := range []struct {
		name   string
		target **float64
	}{
		{"min", &c.Min},
		{"max", &c.Max},
	} {
		attr, ok := attrs[bound.name]
		if !ok {
			continue
		}
		var f float64
		decodeDiags := gohcl.DecodeExpression(attr.Expr, nil, &f)
		diags = append(diags, decodeDiags...)
		if !decodeDiags.HasErrors() {
			*bound.target = &f
		}
	}

	return c, diags
}

// parseWhen decodes the `when` blocks of a parameter into availability
// conditions keyed by the referenced parameter.
func parseWhen(blocks hcl.Blocks) (map[string]descriptor.Conditions, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	whenBlocks := blocks.OfType("when")
	if len(whenBlocks) == 0 {
		return nil, nil
	}

	when := make(map[string]descriptor.Conditions, len(whenBlocks))
	for _, block := range whenBlocks {
		other := block.Labels[0]
		if _, exists := when[other]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate condition",
				Detail:   fmt.Sprintf("A condition on '%s' has already been defined.", other),
				Subject:  &block.DefRange,
			})
			continue
		}
		content, contentDiags := block.Body.Content(conditionsBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}
		c, condDiags := parseConditions(content.Attributes)
		diags = append(diags, condDiags...)
		when[other] = c
	}
	return when, diags
}

// decodeOptional decodes a literal attribute into target when it is present.
func decodeOptional(attrs hcl.Attributes, name string, target any) hcl.Diagnostics {
	attr, ok := attrs[name]
	if !ok {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, nil, target)
}

