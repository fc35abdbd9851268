package face

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Embedding
		want   float64
		wantOK bool
	}{
		{name: "identical", a: Embedding{1, 2, 3}, b: Embedding{1, 2, 3}, want: 0, wantOK: true},
		{name: "3-4-5", a: Embedding{0, 0}, b: Embedding{3, 4}, want: 5, wantOK: true},
		{name: "dimension mismatch", a: Embedding{1}, b: Embedding{1, 2}},
		{name: "empty", a: Embedding{}, b: Embedding{}},
		{name: "nil", a: nil, b: Embedding{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Distance(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestIsMatch_Threshold(t *testing.T) {
	refs := []Embedding{{0, 0}}

	assert.True(t, IsMatch(refs, Embedding{DefaultTolerance, 0}, DefaultTolerance), "distance exactly tolerance matches")

	eps := math.Nextafter(DefaultTolerance, 1)
	assert.False(t, IsMatch(refs, Embedding{eps, 0}, DefaultTolerance), "tolerance+ε does not match")
}

func TestIsMatch_AnyReference(t *testing.T) {
	refs := []Embedding{{10, 10}, {0, 0.5}, {-3, 0}}

	assert.True(t, IsMatch(refs, Embedding{0, 0}, DefaultTolerance))
	assert.False(t, IsMatch(refs, Embedding{5, 5}, DefaultTolerance))
}

func TestIsMatch_NeverErrors(t *testing.T) {
	assert.False(t, IsMatch(nil, Embedding{0}, DefaultTolerance), "empty reference set")
	assert.False(t, IsMatch([]Embedding{{0}}, nil, DefaultTolerance), "no face")
	assert.False(t, IsMatch([]Embedding{{0, 0, 0}}, Embedding{0, 0}, DefaultTolerance), "incomparable dimension")
}

func TestEvaluate(t *testing.T) {
	refs := []Embedding{{0, 0}}

	assert.Equal(t, OutcomeNoFace, Evaluate(refs, nil, DefaultTolerance))
	assert.Equal(t, OutcomeMatch, Evaluate(refs, Embedding{0.1, 0.1}, DefaultTolerance))
	assert.Equal(t, OutcomeMismatch, Evaluate(refs, Embedding{1, 1}, DefaultTolerance))
	assert.Equal(t, OutcomeMismatch, Evaluate(nil, Embedding{0, 0}, DefaultTolerance))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "no_face", OutcomeNoFace.String())
	assert.Equal(t, "mismatch", OutcomeMismatch.String())
	assert.Equal(t, "match", OutcomeMatch.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestBestDistance(t *testing.T) {
	d, ok := BestDistance([]Embedding{{3, 4}, {0, 1}, {1}}, Embedding{0, 0})
	assert.True(t, ok)
	assert.InDelta(t, 1.0, d, 1e-12)

	_, ok = BestDistance(nil, Embedding{0})
	assert.False(t, ok)
}
