// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Rule names the check a parameter value failed.
type Rule string

const (
	RuleType     Rule = "type"
	RuleValues   Rule = "values"
	RuleMin      Rule = "min"
	RuleMax      Rule = "max"
	RuleRequired Rule = "required"
	RuleUnknown  Rule = "unknown"
	RuleWhen     Rule = "when"
)

// ConstraintViolation reports a parameter value that fails its declared rules.
type ConstraintViolation struct {
	Parameter string
	Rule      Rule
	Value     cty.Value
	Detail    string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("parameter '%s' violates rule '%s': %s", e.Parameter, e.Rule, e.Detail)
}

// SignatureMismatch reports declared metadata that disagrees with the class it
// describes. Problems holds every disagreement found, not just the first.
type SignatureMismatch struct {
	Operator string
	Problems []string
}

func (e *SignatureMismatch) Error() string {
	return fmt.Sprintf("operator '%s' does not match its signature:\n- %s", e.Operator, strings.Join(e.Problems, "\n- "))
}

// ErrIncompatibleLink is returned by Link when an output cannot feed an input.
var ErrIncompatibleLink = errors.New("incompatible link")

// Violations extracts every ConstraintViolation from an error returned by
// Parameter or Parameters.
func Violations(err error) []*ConstraintViolation {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ConstraintViolation
		for _, e := range joined.Unwrap() {
			out = append(out, Violations(e)...)
		}
		return out
	}
	var cv *ConstraintViolation
	if errors.As(err, &cv) {
		return []*ConstraintViolation{cv}
	}
	return nil
}
