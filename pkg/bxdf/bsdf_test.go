package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-scattering/pkg/core"
)

func newTestBSDF(lobes ...BXDF) *BSDF {
	normal := core.NewVec3(0, 1, 0)
	return NewBSDF(core.NewFrameFromNormal(normal), normal, 1, lobes...)
}

func TestBSDFNumComponents(t *testing.T) {
	bsdf := newTestBSDF(
		NewLambertianBRDF(core.NewGray(0.5)),
		NewSpecularBRDF(core.White, NoOpFresnel{}),
		NewLambertianBTDF(core.NewGray(0.5)),
	)

	tests := []struct {
		name     string
		flags    Type
		expected int
	}{
		{"all", All, 3},
		{"reflection", Reflection | Diffuse | Glossy | Specular, 2},
		{"non-specular", All &^ Specular, 2},
		{"diffuse reflection", Reflection | Diffuse, 1},
		{"none", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bsdf.NumComponents(tt.flags); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}

	kinds := bsdf.Kinds()
	if len(kinds) != 3 || kinds[0] != KindLambertianBRDF || kinds[2] != KindLambertianBTDF {
		t.Errorf("Unexpected lobe kinds %v", kinds)
	}
}

func TestBSDFEvaluateRespectsGeometricHemisphere(t *testing.T) {
	r := core.NewGray(0.6)
	bsdf := newTestBSDF(NewLambertianBRDF(r))
	wo := core.NewVec3(0.3, 0.9, 0.1).Normalize()

	above := bsdf.Evaluate(wo, core.NewVec3(-0.2, 0.8, 0.3).Normalize(), All)
	if !above.ApproxEquals(r.Multiply(1/math.Pi), 1e-12) {
		t.Errorf("Expected %v, got %v", r.Multiply(1/math.Pi), above)
	}

	below := bsdf.Evaluate(wo, core.NewVec3(-0.2, -0.8, 0.3).Normalize(), All)
	if !below.IsBlack() {
		t.Errorf("Reflection lobe should not contribute to transmission, got %v", below)
	}
}

func TestBSDFPDFAveragesMatchingLobes(t *testing.T) {
	bsdf := newTestBSDF(
		NewLambertianBRDF(core.NewGray(0.5)),
		NewSpecularBRDF(core.White, NoOpFresnel{}),
	)
	wo := core.NewVec3(0, 1, 0)
	wi := core.NewVec3(0.6, 0.8, 0)

	if got, expected := bsdf.PDF(wo, wi, All), 0.8/math.Pi/2; math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected %f, got %f", expected, got)
	}
	if got, expected := bsdf.PDF(wo, wi, Reflection|Diffuse), 0.8/math.Pi; math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected %f, got %f", expected, got)
	}
	if got := newTestBSDF().PDF(wo, wi, All); got != 0 {
		t.Errorf("Expected 0 for an empty BSDF, got %f", got)
	}
}

func TestBSDFSampleChoosesComponent(t *testing.T) {
	bsdf := newTestBSDF(
		NewSpecularBRDF(core.White, NoOpFresnel{}),
		NewLambertianBRDF(core.NewGray(0.5)),
	)
	wo := core.NewVec3(0.6, 0.8, 0)

	mirror, ok := bsdf.Sample(wo, core.NewVec2(0.2, 0.5), All)
	if !ok {
		t.Fatal("Expected a sample")
	}
	if !mirror.Type.IsDelta() {
		t.Errorf("Expected the specular lobe for u < 0.5, got type %v", mirror.Type)
	}
	if !mirror.Wi.ApproxEquals(core.NewVec3(-0.6, 0.8, 0), 1e-9) {
		t.Errorf("Expected world-space mirror direction, got %v", mirror.Wi)
	}
	if math.Abs(mirror.PDF-0.5) > 1e-12 {
		t.Errorf("Expected delta pdf divided by component count, got %f", mirror.PDF)
	}

	diffuse, ok := bsdf.Sample(wo, core.NewVec2(0.7, 0.5), All)
	if !ok {
		t.Fatal("Expected a sample")
	}
	if diffuse.Type.IsDelta() {
		t.Error("Expected the diffuse lobe for u >= 0.5")
	}
	if expected := bsdf.PDF(wo, diffuse.Wi, All); math.Abs(diffuse.PDF-expected) > 1e-9 {
		t.Errorf("Expected pdf %f, got %f", expected, diffuse.PDF)
	}

	if _, ok := newTestBSDF().Sample(wo, core.NewVec2(0.5, 0.5), All); ok {
		t.Error("Expected no sample from an empty BSDF")
	}
}

func TestBSDFSampleMatchesEvaluate(t *testing.T) {
	bsdf := newTestBSDF(
		NewLambertianBRDF(core.NewGray(0.4)),
		NewTorranceSparrowBRDF(core.White, NewTrowbridgeReitz(0.3, 0.3), NewDielectricFresnel(1, 1.5)),
		NewLambertianBTDF(core.NewGray(0.3)),
	)

	random := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		wo := core.NewVec3(random.Float64()-0.5, 0.2+random.Float64(), random.Float64()-0.5).Normalize()
		s, ok := bsdf.Sample(wo, core.NewVec2(random.Float64(), random.Float64()), All)
		if !ok {
			continue
		}
		if f := bsdf.Evaluate(wo, s.Wi, All); !f.ApproxEquals(s.Value, 1e-9) {
			t.Fatalf("Sample value %v disagrees with Evaluate %v", s.Value, f)
		}
		if pdf := bsdf.PDF(wo, s.Wi, All); relativeDifference(pdf, s.PDF) > 1e-6 {
			t.Fatalf("Sample pdf %f disagrees with PDF %f", s.PDF, pdf)
		}
	}
}
