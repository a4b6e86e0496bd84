// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package descriptor

import (
	"slices"
	"strings"
)

// Partition separates independently named groups of registrations.
type Partition string

const (
	// PartitionOperators holds general pipeline operators.
	PartitionOperators Partition = "operators"
	// PartitionPrimitives holds computer-vision model primitives.
	PartitionPrimitives Partition = "primitives"
)

// Partitions lists every partition a registry maintains.
var Partitions = []Partition{PartitionOperators, PartitionPrimitives}

// Capability names a group of methods a class exposes.
type Capability string

const (
	CapabilityConfigure    Capability = "configure"
	CapabilityApply        Capability = "apply"
	CapabilityForward      Capability = "forward"
	CapabilityFit          Capability = "fit"
	CapabilityPredict      Capability = "predict"
	CapabilityPredictProba Capability = "predict_proba"
	CapabilityStateDict    Capability = "state_dict"
)

// Kind is the declared role of a registered class.
type Kind string

const (
	KindOperator            Kind = "operator"
	KindDetector            Kind = "detector"
	KindNonNeuralClassifier Kind = "non-neural classifier"
)

// ParseKind resolves a kind name. Dashes and underscores are accepted in place
// of spaces, so "non_neural_classifier" works in manifests.
func ParseKind(s string) (Kind, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	switch norm {
	case "operator":
		return KindOperator, true
	case "detector":
		return KindDetector, true
	case "non neural classifier":
		return KindNonNeuralClassifier, true
	}
	return "", false
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindOperator, KindDetector, KindNonNeuralClassifier:
		return true
	}
	return false
}

// Partition returns the registry partition that k is stored in.
func (k Kind) Partition() Partition {
	if k == KindOperator {
		return PartitionOperators
	}
	return PartitionPrimitives
}

// RequiredCapabilities returns the capabilities a class of this kind must have.
func (k Kind) RequiredCapabilities() []Capability {
	switch k {
	case KindOperator:
		return []Capability{CapabilityApply, CapabilityConfigure}
	case KindDetector:
		return []Capability{CapabilityForward, CapabilityConfigure}
	case KindNonNeuralClassifier:
		return []Capability{CapabilityFit, CapabilityPredict, CapabilityPredictProba, CapabilityStateDict}
	}
	return nil
}

// HasCapability reports whether caps contains c.
func HasCapability(caps []Capability, c Capability) bool {
	return slices.Contains(caps, c)
}
