package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-scattering/pkg/core"
)

func TestRoughnessToAlpha(t *testing.T) {
	if got := RoughnessToAlpha(0); got != MinAlpha {
		t.Errorf("Expected MinAlpha at zero roughness, got %f", got)
	}

	prev := RoughnessToAlpha(0)
	for i := 1; i <= 1000; i++ {
		alpha := RoughnessToAlpha(float64(i) / 1000)
		if alpha < prev {
			t.Fatalf("Alpha decreased at roughness %f: %f < %f", float64(i)/1000, alpha, prev)
		}
		prev = alpha
	}

	// Out-of-range input is clamped
	if RoughnessToAlpha(-1) != MinAlpha || RoughnessToAlpha(2) != RoughnessToAlpha(1) {
		t.Error("Expected out-of-range roughness to be clamped")
	}
}

func TestNewTrowbridgeReitzClampsAlpha(t *testing.T) {
	d := NewTrowbridgeReitz(0, 0)
	if d.AlphaX != MinAlpha || d.AlphaY != MinAlpha {
		t.Errorf("Expected alphas clamped to %f, got %f %f", MinAlpha, d.AlphaX, d.AlphaY)
	}
}

// integrateHemisphere integrates f over the upper hemisphere with a midpoint rule
func integrateHemisphere(f func(w core.Vec3) float64, nTheta, nPhi int) float64 {
	dTheta := (math.Pi / 2) / float64(nTheta)
	dPhi := 2 * math.Pi / float64(nPhi)
	sum := 0.0
	for i := 0; i < nTheta; i++ {
		theta := (float64(i) + 0.5) * dTheta
		sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
		for j := 0; j < nPhi; j++ {
			phi := (float64(j) + 0.5) * dPhi
			w := core.SphericalDirection(sinTheta, cosTheta, phi)
			sum += f(w) * sinTheta * dTheta * dPhi
		}
	}
	return sum
}

func TestTrowbridgeReitzNormalization(t *testing.T) {
	tests := []struct {
		name   string
		alphaX float64
		alphaY float64
	}{
		{"isotropic rough", 0.5, 0.5},
		{"isotropic smooth", 0.2, 0.2},
		{"anisotropic", 0.3, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewTrowbridgeReitz(tt.alphaX, tt.alphaY)
			// Projected microfacet area equals the macro surface area
			got := integrateHemisphere(func(wh core.Vec3) float64 {
				return d.D(wh) * CosTheta(wh)
			}, 2000, 256)
			if math.Abs(got-1) > 0.01 {
				t.Errorf("Expected projected area 1, got %f", got)
			}
		})
	}
}

func TestTrowbridgeReitzVisibleNormalPDF(t *testing.T) {
	d := NewTrowbridgeReitz(0.4, 0.4)
	wo := core.SphericalDirection(math.Sin(1), math.Cos(1), 0.3)

	got := integrateHemisphere(func(wh core.Vec3) float64 {
		if wo.Dot(wh) <= 0 {
			return 0
		}
		return d.PDF(wo, wh)
	}, 2000, 512)
	if math.Abs(got-1) > 0.01 {
		t.Errorf("Expected visible normal density to integrate to 1, got %f", got)
	}
}

func TestTrowbridgeReitzMasking(t *testing.T) {
	d := NewTrowbridgeReitz(0.3, 0.3)
	normal := core.NewVec3(0, 0, 1)
	if g := d.G1(normal); math.Abs(g-1) > 1e-12 {
		t.Errorf("Expected no masking at normal incidence, got %f", g)
	}

	grazing := core.SphericalDirection(math.Sin(1.5), math.Cos(1.5), 0)
	if g := d.G1(grazing); g >= 1 || g <= 0 {
		t.Errorf("Expected partial masking at grazing incidence, got %f", g)
	}

	wo := core.SphericalDirection(math.Sin(0.8), math.Cos(0.8), 0.2)
	wi := core.SphericalDirection(math.Sin(1.1), math.Cos(1.1), 2.0)
	if d.G(wo, wi) < d.G1(wo)*d.G1(wi)-1e-12 {
		t.Error("Height-correlated masking should not be below the separable product")
	}

	separable := NewDisneyTrowbridgeReitz(0.3, 0.3)
	if math.Abs(separable.G(wo, wi)-separable.G1(wo)*separable.G1(wi)) > 1e-12 {
		t.Error("Separable variant should multiply G1 terms")
	}
}

func TestTrowbridgeReitzSampleWhHemisphere(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	for _, visible := range []bool{true, false} {
		d := NewTrowbridgeReitz(0.3, 0.5)
		d.SampleVisibleArea = visible
		for i := 0; i < 1000; i++ {
			wo := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64()))
			if math.Abs(wo.Z) < 1e-3 {
				continue
			}
			wh := d.SampleWh(wo, core.NewVec2(random.Float64(), random.Float64()))
			if math.Abs(wh.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit half vector, got length %f", wh.Length())
			}
			if !SameHemisphere(wo, wh) {
				t.Fatalf("Half vector %v not on the side of wo %v (visible=%t)", wh, wo, visible)
			}
		}
	}
}
