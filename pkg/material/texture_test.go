package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-scattering/pkg/core"
)

func TestConstantTexture(t *testing.T) {
	c := NewConstantTexture(core.NewVec3(0.6, 0.3, 0))
	si := atUV(0.3, 0.7)
	if got := c.Evaluate(si); !got.Equals(core.NewVec3(0.6, 0.3, 0)) {
		t.Errorf("Expected constant color, got %v", got)
	}
	if got := c.EvaluateFloat(si); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("Expected channel average 0.3, got %f", got)
	}

	f := NewConstantFloatTexture(0.1)
	if got := f.EvaluateFloat(si); got != 0.1 {
		t.Errorf("Expected exact scalar 0.1, got %v", got)
	}
}

func TestCheckerboardTexture(t *testing.T) {
	white := NewConstantTexture(core.White)
	black := NewConstantTexture(core.Vec3{})
	checker, err := NewCheckerboardTexture(white, black, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		{"origin check", 0.1, 0.1, core.White},
		{"next in u", 0.6, 0.1, core.Vec3{}},
		{"next in v", 0.1, 0.6, core.Vec3{}},
		{"diagonal", 0.6, 0.6, core.White},
		{"negative", -0.1, 0.1, core.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Evaluate(atUV(tt.u, tt.v)); !got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	if _, err := NewCheckerboardTexture(white, nil, 1, 1); !errors.Is(err, ErrMissingTexture) {
		t.Errorf("Expected ErrMissingTexture, got %v", err)
	}
}

func TestBlendTexture(t *testing.T) {
	a := NewConstantTexture(core.NewVec3(1, 0, 0))
	b := NewConstantTexture(core.NewVec3(0, 0, 1))
	blend, err := NewBlendTexture(a, b, NewConstantFloatTexture(0.25))
	if err != nil {
		t.Fatal(err)
	}
	si := atUV(0, 0)
	if got, expected := blend.Evaluate(si), core.NewVec3(0.75, 0, 0.25); !got.ApproxEquals(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if got := blend.EvaluateFloat(si); math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("Expected 1/3, got %f", got)
	}
}

func TestUVTexture(t *testing.T) {
	if got := (UVTexture{}).Evaluate(atUV(1.25, 0.5)); !got.ApproxEquals(core.NewVec3(0.25, 0.5, 0), 1e-12) {
		t.Errorf("Expected wrapped UV color, got %v", got)
	}
}

func TestNormalMapModifier(t *testing.T) {
	si := NewSurfaceInteraction(core.Vec3{}, core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec2(0, 0), core.NewVec3(0, 1, 0))

	// A flat normal map leaves the normal alone
	flat, err := NewNormalMapModifier(NewConstantTexture(core.NewVec3(0.5, 0.5, 1)))
	if err != nil {
		t.Fatal(err)
	}
	flat.Modify(si)
	if n := si.Shading.Normal(); !n.ApproxEquals(core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected unchanged normal, got %v", n)
	}

	// Tilt towards the tangent
	tilted, err := NewNormalMapModifier(NewConstantTexture(core.NewVec3(1, 0.5, 1)))
	if err != nil {
		t.Fatal(err)
	}
	tilted.Modify(si)
	expected := core.NewVec3(1, 1, 0).Normalize()
	if n := si.Shading.Normal(); !n.ApproxEquals(expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, n)
	}
	if d := si.Shading.Tangent().Dot(si.Shading.Normal()); math.Abs(d) > 1e-9 {
		t.Errorf("Expected an orthonormal frame, tangent.normal = %f", d)
	}
}

func TestSurfaceInteractionFacesWo(t *testing.T) {
	si := NewSurfaceInteraction(core.Vec3{}, core.NewVec3(0, 0, 1), core.Vec3{}, core.NewVec2(0, 0), core.NewVec3(0, 0, -1))
	if si.FrontFace {
		t.Error("Expected a back-face hit")
	}
	if !si.Normal.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected the normal flipped towards wo, got %v", si.Normal)
	}
	if !si.Shading.Normal().ApproxEquals(si.Normal, 1e-12) {
		t.Errorf("Expected the shading frame to follow the normal, got %v", si.Shading.Normal())
	}
}
