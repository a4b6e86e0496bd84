// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/specialistvlad/opgrid/internal/validate"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrCycle is returned when steps feed each other in a loop.
	ErrCycle = errors.New("pipeline contains a cycle")
	// ErrUnknownStep is returned when a link names a step that does not exist.
	ErrUnknownStep = errors.New("unknown step")
	// ErrUnwiredInput is returned when a required input has no link.
	ErrUnwiredInput = errors.New("required input is not connected")
)

// Pipeline is a named composition of operator steps.
type Pipeline struct {
	Name  string
	Steps []Step
}

// Step is one operator invocation inside a pipeline.
type Step struct {
	Name     string
	Operator string
	// Params holds the parameter values given to the operator.
	Params map[string]cty.Value
	// Inputs maps an input of the operator to the "step.output" feeding it.
	Inputs map[string]string
	Range  hcl.Range
}

// Plan is the result of a successful check.
type Plan struct {
	// Order lists step names so that every step follows the steps it
	// consumes from.
	Order []string
	// Params holds the resolved parameter values of each step, defaults
	// included.
	Params map[string]map[string]cty.Value
}

// Ref is a parsed "step.output" reference.
type Ref struct {
	Step   string
	Output string
}

func (r Ref) String() string { return r.Step + "." + r.Output }

// ParseRef splits a "step.output" reference. Step names may contain dots;
// the output name is the part after the last one.
func ParseRef(s string) (Ref, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return Ref{}, fmt.Errorf("invalid reference '%s': expected STEP.OUTPUT", s)
	}
	return Ref{Step: s[:i], Output: s[i+1:]}, nil
}

// Check verifies that every step names a registered pipeline operator, that
// parameter values satisfy their declarations and that every link joins an
// existing output to an existing input of a compatible type. Every problem
// is reported; the plan is only returned when there are none.
func Check(ctx context.Context, reg *registry.Registry, p Pipeline) (*Plan, error) {
	logger := ctxlog.FromContext(ctx).With("pipeline", p.Name)
	logger.Debug("Checking pipeline.", "steps", len(p.Steps))

	var errs []error
	fail := func(step Step, err error) {
		errs = append(errs, fmt.Errorf("step '%s': %w", step.Name, err))
	}

	graph := NewGraph()
	ops := make(map[string]descriptor.Operator, len(p.Steps))
	plan := &Plan{Params: make(map[string]map[string]cty.Value, len(p.Steps))}

	for _, step := range p.Steps {
		if _, dup := ops[step.Name]; dup {
			fail(step, errors.New("step is declared more than once"))
			continue
		}
		op, _, err := reg.LookupOperator(step.Operator)
		if err != nil {
			fail(step, err)
			continue
		}
		ops[step.Name] = op
		graph.AddNode(step.Name)

		resolved, err := validate.Parameters(op.Parameters, step.Params)
		if err != nil {
			fail(step, err)
			continue
		}
		plan.Params[step.Name] = resolved
	}

	for _, step := range p.Steps {
		op, ok := ops[step.Name]
		if !ok {
			continue
		}
		for _, input := range slices.Sorted(maps.Keys(step.Inputs)) {
			if err := link(graph, ops, step, op, input); err != nil {
				fail(step, err)
			}
		}
		for _, name := range slices.Sorted(maps.Keys(op.Inputs)) {
			if _, wired := step.Inputs[name]; !wired && !op.Inputs[name].Optional {
				fail(step, fmt.Errorf("%w: '%s'", ErrUnwiredInput, name))
			}
		}
	}

	if len(errs) > 0 {
		logger.Debug("Pipeline check failed.", "problems", len(errs))
		return nil, errors.Join(errs...)
	}

	order, err := graph.Order()
	if err != nil {
		return nil, err
	}
	plan.Order = order
	logger.Debug("Pipeline check passed.", "order", order)
	return plan, nil
}

func link(graph *Graph, ops map[string]descriptor.Operator, step Step, op descriptor.Operator, input string) error {
	in, ok := op.Inputs[input]
	if !ok {
		return fmt.Errorf("operator '%s' has no input '%s'", op.Name, input)
	}
	ref, err := ParseRef(step.Inputs[input])
	if err != nil {
		return err
	}
	src, ok := ops[ref.Step]
	if !ok {
		return fmt.Errorf("%w '%s' in reference '%s'", ErrUnknownStep, ref.Step, ref)
	}
	out, _, ok := src.Output(ref.Output)
	if !ok {
		return fmt.Errorf("operator '%s' of step '%s' has no output '%s'", src.Name, ref.Step, ref.Output)
	}
	if err := validate.Link(out, in); err != nil {
		return err
	}
	return graph.AddEdge(ref.Step, step.Name)
}
