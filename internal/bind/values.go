// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package bind

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ParseAssignments turns `name=expression` pairs into parameter values. The
// right-hand side is an HCL literal, so `size=0.8`, `name="a"`,
// `flags=[1, 2]` and `enabled=true` all work. A right-hand side that is not a
// valid expression is taken as a plain string.
func ParseAssignments(pairs []string) (map[string]cty.Value, error) {
	values := make(map[string]cty.Value, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment '%s': expected name=value", pair)
		}
		if _, dup := values[name]; dup {
			return nil, fmt.Errorf("parameter '%s' is assigned more than once", name)
		}
		v, err := parseLiteral(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for '%s': %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

func parseLiteral(raw string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(raw), "<argument>", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return cty.StringVal(raw), nil
	}
	if len(expr.Variables()) > 0 {
		// A bare word such as `ALBUM` reads as a variable reference.
		return cty.StringVal(strings.TrimSpace(raw)), nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return v, nil
}
