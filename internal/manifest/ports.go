// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/opgrid/internal/descriptor"
)

// inputBodySchema is the HCL schema for the body of an `input` block.
var inputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "caption"},
		{Name: "description"},
		{Name: "covariate"},
	},
}

// outputBodySchema is the HCL schema for the body of an `output` block.
var outputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "caption"},
		{Name: "description"},
	},
}

// parseInputs decodes all `input` blocks. Types named in the blocks are
// returned separately because they can only be resolved at bind time.
func parseInputs(blocks hcl.Blocks) (map[string]descriptor.InputSpec, map[string]typeRef, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	inputs := make(map[string]descriptor.InputSpec)
	refs := make(map[string]typeRef)

	for _, block := range blocks.OfType("input") {
		name := block.Labels[0]
		if _, exists := inputs[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate input definition",
				Detail:   fmt.Sprintf("An input named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}

		content, contentDiags := block.Body.Content(inputBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		in := descriptor.InputSpec{Name: name}
		var attrDiags hcl.Diagnostics
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "caption", &in.Caption)...)
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "description", &in.Description)...)
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "covariate", &in.Covariate)...)
		ref, refDiags := decodeTypeRef(content.Attributes)
		attrDiags = append(attrDiags, refDiags...)

		diags = append(diags, attrDiags...)
		if attrDiags.HasErrors() {
			continue
		}
		if ref.Name != "" {
			refs[name] = ref
		}
		inputs[name] = in
	}
	return inputs, refs, diags
}

// parseOutputs decodes all `output` blocks in source order, which is the
// order Apply returns them in.
func parseOutputs(blocks hcl.Blocks) ([]descriptor.OutputSpec, map[string]typeRef, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var outputs []descriptor.OutputSpec
	refs := make(map[string]typeRef)
	seen := make(map[string]bool)

	for _, block := range blocks.OfType("output") {
		name := block.Labels[0]
		if seen[name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate output definition",
				Detail:   fmt.Sprintf("An output named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = true

		content, contentDiags := block.Body.Content(outputBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		out := descriptor.OutputSpec{Name: name}
		var attrDiags hcl.Diagnostics
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "caption", &out.Caption)...)
		attrDiags = append(attrDiags, decodeOptional(content.Attributes, "description", &out.Description)...)
		ref, refDiags := decodeTypeRef(content.Attributes)
		attrDiags = append(attrDiags, refDiags...)

		diags = append(diags, attrDiags...)
		if attrDiags.HasErrors() {
			continue
		}
		if ref.Name != "" {
			refs[name] = ref
		}
		outputs = append(outputs, out)
	}
	return outputs, refs, diags
}

func decodeTypeRef(attrs hcl.Attributes) (typeRef, hcl.Diagnostics) {
	attr, ok := attrs["type"]
	if !ok {
		return typeRef{}, nil
	}
	var name string
	diags := decodeOptional(attrs, "type", &name)
	return typeRef{Name: name, Range: attr.Expr.Range()}, diags
}
