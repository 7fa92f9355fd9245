package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestNearVec3(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		eps  float64
		want bool
	}{
		{"identical", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}, 0, true},
		{"rounding on a zero axis", mgl64.Vec3{-1, 2.2e-16, 0}, mgl64.Vec3{-1, 0, 0}, 1e-9, true},
		{"tiny offset at zero", mgl64.Vec3{1e-16, 0, 0}, mgl64.Vec3{}, 1e-12, true},
		{"outside tolerance", mgl64.Vec3{0, 0, 1e-6}, mgl64.Vec3{}, 1e-9, false},
		{"large values stay absolute", mgl64.Vec3{1e6, 0, 0}, mgl64.Vec3{1e6 + 1e-3, 0, 0}, 1e-6, false},
		{"nan never matches", mgl64.Vec3{math.NaN(), 0, 0}, mgl64.Vec3{}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearVec3(tt.a, tt.b, tt.eps))
		})
	}
}

func TestSafeNormalize(t *testing.T) {
	fallback := mgl64.Vec3{0, 0, -1}
	assert.Equal(t, fallback, SafeNormalize(mgl64.Vec3{}, fallback))
	assert.Equal(t, fallback, SafeNormalize(mgl64.Vec3{math.Inf(1), 0, 0}, fallback))
	assert.InDelta(t, 1, SafeNormalize(mgl64.Vec3{3, 4, 0}, fallback).Len(), 1e-12)
}
