// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package face decides whether an observed face embedding matches an
// enrolled reference set.
//
// Embeddings come from an external model and are treated as opaque
// fixed-length vectors. Matching is a Euclidean distance test against a
// tolerance; the package holds no state and performs no I/O apart from
// [ReferenceStore].
package face

import "math"

// DefaultTolerance is the largest distance still counted as a match.
const DefaultTolerance = 0.6

// Embedding is a face feature vector. A nil Embedding means no face was
// found in the frame.
type Embedding []float64

// Outcome is the result of comparing one frame against the reference set.
type Outcome int

const (
	OutcomeNoFace Outcome = iota
	OutcomeMismatch
	OutcomeMatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoFace:
		return "no_face"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeMatch:
		return "match"
	default:
		return "unknown"
	}
}

// Distance returns the Euclidean distance between a and b. ok is false when
// either vector is empty or their lengths differ.
func Distance(a, b Embedding) (d float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum), true
}

// IsMatch reports whether observed lies within tolerance of any reference.
// An empty reference set or a nil observation never matches.
func IsMatch(refs []Embedding, observed Embedding, tolerance float64) bool {
	if observed == nil {
		return false
	}
	for _, ref := range refs {
		if d, ok := Distance(ref, observed); ok && d <= tolerance {
			return true
		}
	}
	return false
}

// Evaluate classifies one observation for the authentication state machine.
func Evaluate(refs []Embedding, observed Embedding, tolerance float64) Outcome {
	if observed == nil {
		return OutcomeNoFace
	}
	if IsMatch(refs, observed, tolerance) {
		return OutcomeMatch
	}
	return OutcomeMismatch
}

// BestDistance returns the smallest distance between observed and any
// reference, or ok=false if none is comparable.
func BestDistance(refs []Embedding, observed Embedding) (best float64, ok bool) {
	best = math.Inf(1)
	for _, ref := range refs {
		if d, comparable := Distance(ref, observed); comparable && d < best {
			best, ok = d, true
		}
	}
	return best, ok
}
