// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/opgrid/internal/descriptor"
)

var (
	// ErrDuplicateOperator matches every DuplicateOperatorError.
	ErrDuplicateOperator = errors.New("operator already registered")
	// ErrUnknownOperator matches every UnknownOperatorError.
	ErrUnknownOperator = errors.New("operator not found")
)

// DuplicateOperatorError is returned when a name is registered twice.
type DuplicateOperatorError struct {
	Partition descriptor.Partition
	Name      string
}

func (e *DuplicateOperatorError) Error() string {
	return fmt.Sprintf("%s with name '%s' already registered", partitionNoun(e.Partition), e.Name)
}

// Is lets errors.Is match the sentinel.
func (e *DuplicateOperatorError) Is(target error) bool {
	return target == ErrDuplicateOperator
}

// UnknownOperatorError is returned when a lookup misses.
type UnknownOperatorError struct {
	Partition descriptor.Partition
	Name      string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("%s '%s' not found", partitionNoun(e.Partition), e.Name)
}

// Is lets errors.Is match the sentinel.
func (e *UnknownOperatorError) Is(target error) bool {
	return target == ErrUnknownOperator
}

func partitionNoun(p descriptor.Partition) string {
	if p == descriptor.PartitionPrimitives {
		return "primitive"
	}
	return "operator"
}
