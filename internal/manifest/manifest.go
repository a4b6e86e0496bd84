// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
)

// Declaration is one `operator` or `primitive` block of a manifest.
type Declaration struct {
	Kind descriptor.Kind
	// Class is the name of the Go class the declaration binds to.
	Class string
	Spec  declare.Spec
	// Path is the file the declaration was read from.
	Path  string
	Range hcl.Range

	inputTypes  map[string]typeRef
	outputTypes map[string]typeRef
}

// rootSchema defines the top level of a manifest file.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "operator", LabelNames: []string{"name"}},
		{Type: "primitive", LabelNames: []string{"name"}},
	},
}

var operatorAttributes = []hcl.AttributeSchema{
	// `class` is required, but we check for its existence manually
	// to provide a better error message.
	{Name: "class"},
	{Name: "description"},
	{Name: "category"},
	{Name: "package"},
	{Name: "version"},
}

var operatorBlocks = []hcl.BlockHeaderSchema{
	{Type: "parameter", LabelNames: []string{"name"}},
	{Type: "input", LabelNames: []string{"name"}},
	{Type: "output", LabelNames: []string{"name"}},
}

// operatorBodySchema is the HCL schema for the body of an `operator` block.
var operatorBodySchema = &hcl.BodySchema{
	Attributes: operatorAttributes,
	Blocks:     operatorBlocks,
}

// primitiveBodySchema adds the required `kind` to the operator schema.
var primitiveBodySchema = &hcl.BodySchema{
	Attributes: append(slices.Clone(operatorAttributes), hcl.AttributeSchema{Name: "kind"}),
	Blocks:     operatorBlocks,
}

// ParseSource parses manifest source held in memory.
func ParseSource(ctx context.Context, src []byte, filename string) ([]Declaration, hcl.Diagnostics) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	decls, parseDiags := ParseFile(ctx, file, filename)
	return decls, append(diags, parseDiags...)
}

// ParseFile decodes every `operator` and `primitive` block of a parsed file.
// Declarations are returned in source order. Any error diagnostic discards
// the whole file.
func ParseFile(ctx context.Context, file *hcl.File, path string) ([]Declaration, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing operator declarations from file", "file_path", path)

	var diags hcl.Diagnostics
	if file == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, diags
	}

	content, contentDiags := file.Body.Content(rootSchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	var decls []Declaration
	seen := make(map[descriptor.Partition]map[string]bool)
	for _, block := range content.Blocks {
		decl, declDiags := parseDeclaration(block, path)
		diags = append(diags, declDiags...)
		if declDiags.HasErrors() {
			continue
		}

		partition := decl.Kind.Partition()
		if seen[partition] == nil {
			seen[partition] = make(map[string]bool)
		}
		if seen[partition][decl.Spec.Name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Duplicate %s definition", block.Type),
				Detail:   fmt.Sprintf("A %s named '%s' has already been defined in this file.", block.Type, decl.Spec.Name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[partition][decl.Spec.Name] = true
		decls = append(decls, decl)
	}

	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Successfully parsed operator declarations", "file_path", path, "count", len(decls))
	return decls, diags
}

func parseDeclaration(block *hcl.Block, path string) (Declaration, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	schema := operatorBodySchema
	if block.Type == "primitive" {
		schema = primitiveBodySchema
	}
	content, contentDiags := block.Body.Content(schema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return Declaration{}, diags
	}

	decl := Declaration{
		Kind:  descriptor.KindOperator,
		Path:  path,
		Range: block.DefRange,
		Spec:  declare.Spec{Name: block.Labels[0]},
	}

	classAttr, exists := content.Attributes["class"]
	if !exists {
		missing := block.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'class' attribute",
			Detail:   fmt.Sprintf("The %s '%s' must name the Go class implementing it.", block.Type, decl.Spec.Name),
			Subject:  &missing,
		})
	} else {
		diags = append(diags, gohcl.DecodeExpression(classAttr.Expr, nil, &decl.Class)...)
	}

	if block.Type == "primitive" {
		diags = append(diags, parseKind(block, content.Attributes, &decl)...)
	}

	diags = append(diags, decodeOptional(content.Attributes, "description", &decl.Spec.Description)...)
	diags = append(diags, decodeOptional(content.Attributes, "category", &decl.Spec.Category)...)
	diags = append(diags, decodeOptional(content.Attributes, "package", &decl.Spec.PackageName)...)

	if attr, ok := content.Attributes["version"]; ok {
		var raw string
		versionDiags := decodeOptional(content.Attributes, "version", &raw)
		diags = append(diags, versionDiags...)
		if !versionDiags.HasErrors() {
			if _, err := semver.NewVersion(raw); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid package version",
					Detail:   fmt.Sprintf("The version '%s' is not a valid semantic version: %s.", raw, err),
					Subject:  attr.Expr.Range().Ptr(),
				})
			}
			decl.Spec.PackageVersion = raw
		}
	}

	var blockDiags hcl.Diagnostics
	decl.Spec.Parameters, blockDiags = parseParameters(content.Blocks)
	diags = append(diags, blockDiags...)
	decl.Spec.Inputs, decl.inputTypes, blockDiags = parseInputs(content.Blocks)
	diags = append(diags, blockDiags...)
	decl.Spec.Outputs, decl.outputTypes, blockDiags = parseOutputs(content.Blocks)
	diags = append(diags, blockDiags...)

	return decl, diags
}

func parseKind(block *hcl.Block, attrs hcl.Attributes, decl *Declaration) hcl.Diagnostics {
	attr, ok := attrs["kind"]
	if !ok {
		missing := block.Body.MissingItemRange()
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing 'kind' attribute",
			Detail:   "Primitives must declare their kind, such as \"detector\" or \"non-neural classifier\".",
			Subject:  &missing,
		}}
	}
	var raw string
	diags := decodeOptional(attrs, "kind", &raw)
	if diags.HasErrors() {
		return diags
	}
	kind, valid := descriptor.ParseKind(raw)
	if !valid || kind == descriptor.KindOperator {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown primitive kind",
			Detail:   fmt.Sprintf("The kind '%s' is not a primitive kind. Supported kinds are: detector, non-neural classifier.", raw),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}
	decl.Kind = kind
	return diags
}
