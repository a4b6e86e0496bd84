// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format selects how documents are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format '%s' (use text, yaml or json)", s)
}

// Write renders a list of documents. The text format is a summary table
// with one row per document.
func Write(w io.Writer, format Format, docs []Document) error {
	switch format {
	case FormatYAML:
		return writeYAML(w, docs)
	case FormatJSON:
		return writeJSON(w, docs)
	case FormatText:
		table := tablewriter.NewWriter(w)
		table.SetAutoWrapText(false)
		table.SetBorder(false)
		table.SetHeader([]string{"Name", "Kind", "Category", "Class", "Package", "Version"})
		for _, d := range docs {
			table.Append([]string{d.Name, string(d.Kind), d.Category, d.ClassName, d.PackageName, d.PackageVersion})
		}
		table.Render()
		return nil
	}
	return fmt.Errorf("unknown output format '%s'", format)
}

// WriteOne renders a single document in full.
func WriteOne(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatYAML:
		return writeYAML(w, doc)
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatText:
		return writeDetail(w, doc)
	}
	return fmt.Errorf("unknown output format '%s'", format)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeDetail(w io.Writer, doc Document) error {
	summary := tablewriter.NewWriter(w)
	summary.SetAutoWrapText(false)
	summary.SetBorders(tablewriter.Border{Left: false, Right: false, Top: true, Bottom: true})
	summary.AppendBulk([][]string{
		{"ID", doc.ID},
		{"Name", doc.Name},
		{"Kind", string(doc.Kind)},
		{"Category", doc.Category},
		{"Class", doc.ClassName},
		{"Package", strings.TrimSpace(doc.PackageName + " " + doc.PackageVersion)},
		{"Capabilities", strings.Join(doc.Capabilities, ", ")},
		{"Description", doc.Description},
	})
	summary.Render()

	if len(doc.Params) > 0 {
		if _, err := fmt.Fprintln(w, "\nParameters:"); err != nil {
			return err
		}
		params := tablewriter.NewWriter(w)
		params.SetAutoWrapText(false)
		params.SetBorder(false)
		params.SetHeader([]string{"Name", "Type", "Default", "Options", "Range", "When"})
		for _, p := range doc.Params {
			params.Append([]string{p.Name, paramType(p), render(p.Default), renderList(p.Options), renderRange(p.Min, p.Max), renderWhen(p.Conditions)})
		}
		params.Render()
	}

	if len(doc.Inputs) > 0 {
		if _, err := fmt.Fprintln(w, "\nInputs:"); err != nil {
			return err
		}
		inputs := tablewriter.NewWriter(w)
		inputs.SetAutoWrapText(false)
		inputs.SetBorder(false)
		inputs.SetHeader([]string{"Name", "Type", "Covariate", "Optional", "Description"})
		for _, in := range doc.Inputs {
			inputs.Append([]string{in.Name, dataType(in.Type), yesNo(in.Covariate), yesNo(in.Optional), clip(in.Description)})
		}
		inputs.Render()
	}

	if len(doc.Outputs) > 0 {
		if _, err := fmt.Fprintln(w, "\nOutputs:"); err != nil {
			return err
		}
		outputs := tablewriter.NewWriter(w)
		outputs.SetAutoWrapText(false)
		outputs.SetBorder(false)
		outputs.SetHeader([]string{"#", "Name", "Type", "Description"})
		for i, out := range doc.Outputs {
			outputs.Append([]string{fmt.Sprint(i), out.Name, dataType(out.Type), clip(out.Description)})
		}
		outputs.Render()
	}
	return nil
}
