package bxdf

import (
	"math"
	"testing"

	"github.com/df07/go-scattering/pkg/core"
)

func TestFrDielectric(t *testing.T) {
	tests := []struct {
		name     string
		cosTheta float64
		etaI     float64
		etaT     float64
		expected float64
	}{
		{"normal incidence air to glass", 1, 1, 1.5, 0.04},
		{"normal incidence glass to air", -1, 1, 1.5, 0.04},
		{"matched indices", 0.5, 1.5, 1.5, 0},
		{"grazing incidence", 0, 1, 1.5, 1},
		{"total internal reflection", -0.2, 1, 1.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrDielectric(tt.cosTheta, tt.etaI, tt.etaT)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestFrDielectricRange(t *testing.T) {
	for i := 0; i <= 100; i++ {
		cosTheta := -1 + 2*float64(i)/100
		fr := FrDielectric(cosTheta, 1, 1.33)
		if fr < 0 || fr > 1 {
			t.Fatalf("Reflectance %f out of range at cos %f", fr, cosTheta)
		}
	}
}

func TestFrConductorMatchesDielectricWithoutAbsorption(t *testing.T) {
	// A conductor with k = 0 is a dielectric
	for _, cosTheta := range []float64{1, 0.8, 0.5, 0.2} {
		got := FrConductor(cosTheta, core.White, core.NewGray(1.5), core.Vec3{})
		expected := FrDielectric(cosTheta, 1, 1.5)
		if !got.ApproxEquals(core.NewGray(expected), 1e-9) {
			t.Errorf("cos %f: expected %f, got %v", cosTheta, expected, got)
		}
	}
}

func TestConductorFresnelUsesAbsoluteCosine(t *testing.T) {
	f := NewConductorFresnel(core.White, core.NewVec3(0.2, 0.92, 1.1), core.NewVec3(3.9, 2.45, 2.14))
	if !f.Evaluate(0.6).ApproxEquals(f.Evaluate(-0.6), 1e-12) {
		t.Errorf("Expected symmetric reflectance, got %v and %v", f.Evaluate(0.6), f.Evaluate(-0.6))
	}
	r := f.Evaluate(1)
	if r.X < 0.5 || r.X > 1 {
		t.Errorf("Expected copper-like red reflectance, got %v", r)
	}
}

func TestSchlick(t *testing.T) {
	r0 := core.NewVec3(0.9, 0.6, 0.3)
	if got := FrSchlick(r0, 1); !got.ApproxEquals(r0, 1e-12) {
		t.Errorf("Expected R0 at normal incidence, got %v", got)
	}
	if got := FrSchlick(r0, 0); !got.ApproxEquals(core.White, 1e-12) {
		t.Errorf("Expected white at grazing incidence, got %v", got)
	}
	if got := SchlickR0FromEta(1.5); math.Abs(got-0.04) > 1e-12 {
		t.Errorf("Expected 0.04, got %f", got)
	}
}

func TestDisneyFresnelBlend(t *testing.T) {
	r0 := core.NewVec3(0.8, 0.5, 0.2)
	cosTheta := 0.7

	dielectric := NewDisneyFresnel(r0, 0, 1.5).Evaluate(cosTheta)
	if !dielectric.ApproxEquals(core.NewGray(FrDielectric(cosTheta, 1, 1.5)), 1e-12) {
		t.Errorf("Metallic 0 should be the dielectric term, got %v", dielectric)
	}

	metal := NewDisneyFresnel(r0, 1, 1.5).Evaluate(cosTheta)
	if !metal.ApproxEquals(FrSchlick(r0, cosTheta), 1e-12) {
		t.Errorf("Metallic 1 should be the Schlick term, got %v", metal)
	}
}

func TestNoOpFresnel(t *testing.T) {
	if got := (NoOpFresnel{}).Evaluate(0.3); got != core.White {
		t.Errorf("Expected white, got %v", got)
	}
}
