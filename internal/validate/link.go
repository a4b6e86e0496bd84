// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"fmt"

	"github.com/specialistvlad/opgrid/internal/descriptor"
)

// Link checks that an output of one operator can feed an input of another.
// The output type must equal the input type or have it among its ancestors.
func Link(out descriptor.OutputSpec, in descriptor.InputSpec) error {
	if out.Type.AssignableTo(in.Type) {
		return nil
	}
	return fmt.Errorf("%w: output '%s' of type %s cannot feed input '%s' of type %s",
		ErrIncompatibleLink, out.Name, out.Type, in.Name, in.Type)
}
