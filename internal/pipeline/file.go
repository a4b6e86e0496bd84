// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

type fileSchema struct {
	Pipelines []*pipelineBlock `hcl:"pipeline,block"`
}

type pipelineBlock struct {
	Name  string       `hcl:"name,label"`
	Steps []*stepBlock `hcl:"step,block"`
}

type stepBlock struct {
	Name      string            `hcl:"name,label"`
	Operator  string            `hcl:"operator"`
	Params    hcl.Expression    `hcl:"params,optional"`
	Inputs    map[string]string `hcl:"inputs,optional"`
	DeclRange hcl.Range         `hcl:",def_range"`
}

// LoadFile parses the pipelines declared in an HCL file.
func LoadFile(ctx context.Context, path string) ([]Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	pipelines, diags := ParseFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode pipelines in %s: %w", path, diags)
	}
	logger.Debug("Loaded pipelines.", "file_path", path, "count", len(pipelines))
	return pipelines, nil
}

// ParseFile decodes the `pipeline` blocks of a parsed file.
func ParseFile(file *hcl.File) ([]Pipeline, hcl.Diagnostics) {
	if file == nil {
		return nil, nil
	}

	var schema fileSchema
	diags := gohcl.DecodeBody(file.Body, nil, &schema)
	if diags.HasErrors() {
		return nil, diags
	}

	out := make([]Pipeline, 0, len(schema.Pipelines))
	for _, pb := range schema.Pipelines {
		p := Pipeline{Name: pb.Name, Steps: make([]Step, 0, len(pb.Steps))}
		for _, sb := range pb.Steps {
			params, paramDiags := decodeParams(sb)
			diags = append(diags, paramDiags...)
			p.Steps = append(p.Steps, Step{
				Name:     sb.Name,
				Operator: sb.Operator,
				Params:   params,
				Inputs:   sb.Inputs,
				Range:    sb.DeclRange,
			})
		}
		out = append(out, p)
	}
	return out, diags
}

func decodeParams(sb *stepBlock) (map[string]cty.Value, hcl.Diagnostics) {
	if sb.Params == nil {
		return nil, nil
	}
	val, diags := sb.Params.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid step parameters",
			Detail:   fmt.Sprintf("The 'params' attribute of step '%s' must be an object of parameter values.", sb.Name),
			Subject:  sb.Params.Range().Ptr(),
		})
	}
	params := make(map[string]cty.Value, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		params[k.AsString()] = v
	}
	return params, diags
}
