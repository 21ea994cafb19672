package geom

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	assert.Equal(t, Pt(4, 6), p.Add(Pt(1, 2)))
	assert.Equal(t, Pt(2, 2), p.Sub(Pt(1, 2)))
	assert.Equal(t, Pt(6, 8), p.Mul(2))
	assert.Equal(t, Pt(1.5, 2), p.Div(2))
	assert.Equal(t, p, p.Div(0))
	assert.InDelta(t, 5, p.Len(), 1e-6)
	assert.InDelta(t, 5, Pt(0, 0).Dist(p), 1e-6)
}

func TestPointImageRounds(t *testing.T) {
	assert.Equal(t, image.Pt(2, -1), Pt(1.6, -1.4).Image())
}

func TestSize(t *testing.T) {
	s := SizeOf(image.Rect(0, 0, 400, 300))
	assert.Equal(t, Sz(400, 300), s)
	assert.Equal(t, Pt(200, 150), s.Center())
	assert.False(t, s.Empty())
	assert.True(t, Sz(0, 10).Empty())
}
