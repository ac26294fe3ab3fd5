package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTopK(t *testing.T) {
	scores := []Scored{{0, 0.1}, {1, 0.9}, {2, 0.5}, {3, 0.9}}

	top := TopK(scores, 3)
	assert.Equal(t, []Scored{{1, 0.9}, {3, 0.9}, {2, 0.5}}, top)

	all := TopK([]Scored{{0, 0.2}}, 5)
	assert.Len(t, all, 1)
}

func TestEncodeDecode(t *testing.T) {
	v := []float32{0, -1.5, float32(math.Pi), 42}
	assert.Equal(t, v, Decode(Encode(v)))
	assert.Len(t, Encode(v), 16)
}
