// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/opgrid/internal/classes"
	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/declare"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/fsutil"
	"github.com/specialistvlad/opgrid/internal/registry"
)

// Extension is the file extension of manifest files.
const Extension = ".hcl"

// LoadDir parses every manifest file found under the given paths. A path
// may be a single file or a directory that is searched recursively.
func LoadDir(ctx context.Context, paths ...string) ([]Declaration, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading manifests...", "paths", paths)

	filePaths, err := fsutil.FindFilesByExtension(Extension, paths...)
	if err != nil {
		logger.Error("Failed to walk manifest paths", "paths", paths, "error", err)
		return nil, err
	}
	if len(filePaths) == 0 {
		logger.Warn("No manifest files found", "paths", paths)
		return nil, nil
	}
	logger.Debug("Found manifest files to load", "files", filePaths)

	parser := hclparse.NewParser()
	var decls []Declaration
	for _, filePath := range filePaths {
		file, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}
		fileDecls, diags := ParseFile(ctx, file, filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to process declarations in %s: %w", filePath, diags)
		}
		decls = append(decls, fileDecls...)
	}

	logger.Info("Manifests loaded.", "files", len(filePaths), "declarations", len(decls))
	return decls, nil
}

// Bind declares every manifest entry into reg, resolving class names through
// the class table. Every entry is attempted; all failures are returned
// together.
func Bind(ctx context.Context, reg *registry.Registry, table *classes.Classes, decls []Declaration) error {
	logger := ctxlog.FromContext(ctx)

	var errs []error
	bound := 0
	for _, decl := range decls {
		if err := bindOne(reg, table, decl); err != nil {
			logger.Debug("Failed to bind declaration", "name", decl.Spec.Name, "file_path", decl.Path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %s '%s': %w", decl.Range, decl.Kind, decl.Spec.Name, err))
			continue
		}
		bound++
	}

	logger.Debug("Bound manifest declarations", "bound", bound, "failed", len(errs))
	return errors.Join(errs...)
}

func bindOne(reg *registry.Registry, table *classes.Classes, decl Declaration) error {
	class, ok := table.Lookup(decl.Class)
	if !ok {
		return fmt.Errorf("unknown class '%s'", decl.Class)
	}

	spec := decl.Spec
	var diags hcl.Diagnostics
	if len(decl.inputTypes) > 0 {
		spec.Inputs = make(map[string]descriptor.InputSpec, len(decl.Spec.Inputs))
		for name, in := range decl.Spec.Inputs {
			if ref, ok := decl.inputTypes[name]; ok {
				dt, err := resolveDataType(ref.Name, reg.Types())
				if err != nil {
					diags = append(diags, typeDiagnostic("input", name, ref, err))
				}
				in.Type = dt
			}
			spec.Inputs[name] = in
		}
	}
	if len(decl.outputTypes) > 0 {
		spec.Outputs = make([]descriptor.OutputSpec, len(decl.Spec.Outputs))
		for i, out := range decl.Spec.Outputs {
			if ref, ok := decl.outputTypes[out.Name]; ok {
				dt, err := resolveDataType(ref.Name, reg.Types())
				if err != nil {
					diags = append(diags, typeDiagnostic("output", out.Name, ref, err))
				}
				out.Type = dt
			}
			spec.Outputs[i] = out
		}
	}
	if diags.HasErrors() {
		return diags
	}

	_, err := declare.Class(reg, decl.Kind, class, spec)
	return err
}

func typeDiagnostic(what, name string, ref typeRef, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Unknown data type",
		Detail:   fmt.Sprintf("The type of %s '%s' cannot be resolved: %s.", what, name, err),
		Subject:  ref.Range.Ptr(),
	}
}
