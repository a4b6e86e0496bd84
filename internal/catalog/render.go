// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/specialistvlad/opgrid/internal/datatype"
)

// descriptionWidth bounds description cells of the text tables, in terminal
// columns.
const descriptionWidth = 60

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, descriptionWidth, "...")
}

func paramType(p Param) string {
	t := string(p.Type)
	if p.AssetType != "" {
		t += "(" + string(p.AssetType) + ")"
	}
	if p.Multiple {
		t = "list of " + t
	}
	return t
}

func dataType(t *datatype.DataType) string {
	if t == nil {
		return "-"
	}
	return t.String()
}

func render(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return fmt.Sprintf("%q", v)
	case []any:
		return renderList(v)
	}
	return fmt.Sprint(v)
}

func renderList(vs []any) string {
	if len(vs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, render(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func renderRange(lo, hi *float64) string {
	switch {
	case lo == nil && hi == nil:
		return ""
	case hi == nil:
		return fmt.Sprintf(">= %g", *lo)
	case lo == nil:
		return fmt.Sprintf("<= %g", *hi)
	}
	return fmt.Sprintf("%g..%g", *lo, *hi)
}

func renderWhen(when map[string]Conditions) string {
	parts := make([]string, 0, len(when))
	for _, name := range slices.Sorted(maps.Keys(when)) {
		c := when[name]
		var rules []string
		if len(c.Values) > 0 {
			rules = append(rules, "in "+renderList(c.Values))
		}
		if r := renderRange(c.Min, c.Max); r != "" {
			rules = append(rules, r)
		}
		parts = append(parts, name+" "+strings.Join(rules, ", "))
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
