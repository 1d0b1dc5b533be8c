package furnace

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/material"
)

func newSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func must[T any](m T, err error) T {
	if err != nil {
		panic(err)
	}
	return m
}

func gray(v float64) material.Texture { return material.NewConstantTexture(core.NewGray(v)) }

func TestAlbedoStats(t *testing.T) {
	var s AlbedoStats
	if !s.Albedo().IsBlack() || s.StdErr() != 0 {
		t.Error("Expected empty stats to report zero")
	}

	s.AddSample(core.NewGray(1))
	s.AddSample(core.NewGray(0))
	s.AddFailure()
	s.AddSample(core.NewGray(1))

	if s.SampleCount != 4 || s.Failed != 1 {
		t.Errorf("Expected 4 samples with 1 failure, got %d and %d", s.SampleCount, s.Failed)
	}
	if got := s.Albedo(); !got.ApproxEquals(core.NewGray(0.5), 1e-12) {
		t.Errorf("Expected mean 0.5, got %v", got)
	}
	// Sample variance of {1, 0, 0, 1} is 1/3
	if got, want := s.StdErr(), math.Sqrt(1.0/3/4); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected std err %f, got %f", want, got)
	}

	var merged AlbedoStats
	merged.Merge(s)
	merged.Merge(s)
	if merged.SampleCount != 8 || merged.Failed != 2 || !merged.Albedo().ApproxEquals(s.Albedo(), 1e-12) {
		t.Errorf("Unexpected merge result %+v", merged)
	}
}

func TestEstimateExactCases(t *testing.T) {
	matteCfg := material.DefaultMatteConfig()
	matteCfg.KD = gray(0.5)
	matte := must(material.NewMatteMaterial(matteCfg))

	mirrorCfg := material.DefaultMirrorConfig()
	mirrorCfg.KR = material.NewConstantTexture(core.NewVec3(0.9, 0.8, 0.7))
	mirror := must(material.NewMirrorMaterial(mirrorCfg))

	tests := []struct {
		name     string
		mat      material.Material
		expected core.Vec3
	}{
		{"lambertian", matte, core.NewGray(0.5)},
		{"mirror", mirror, core.NewVec3(0.9, 0.8, 0.7)},
	}

	for _, tt := range tests {
		for _, theta := range []float64{0, 45, 80} {
			stats := Estimate(tt.mat, theta, 500, newSampler(42))
			if got := stats.Albedo(); !got.ApproxEquals(tt.expected, 1e-6) {
				t.Errorf("%s at %.0f degrees: expected %v, got %v", tt.name, theta, tt.expected, got)
			}
		}
	}
}

func energyTestMaterials(t *testing.T) []material.Material {
	t.Helper()

	orenNayar := material.DefaultMatteConfig()
	orenNayar.Name = "oren-nayar"
	orenNayar.KD = gray(0.9)
	orenNayar.Sigma = material.NewConstantFloatTexture(30)

	roughGlass := material.DefaultGlassConfig()
	roughGlass.Name = "rough-glass"
	roughGlass.RoughnessU = material.NewConstantFloatTexture(0.3)
	roughGlass.RoughnessV = material.NewConstantFloatTexture(0.3)

	metallic := material.DefaultPrincipledConfig()
	metallic.Name = "principled-metal"
	metallic.Metallic = material.NewConstantFloatTexture(1)
	metallic.Roughness = material.NewConstantFloatTexture(0.4)

	return []material.Material{
		must(material.NewMatteMaterial(orenNayar)),
		must(material.NewPlasticMaterial(material.DefaultPlasticConfig())),
		must(material.NewGlassMaterial(material.DefaultGlassConfig())),
		must(material.NewGlassMaterial(roughGlass)),
		must(material.NewMetalMaterial(material.DefaultMetalConfig())),
		must(material.NewGlossyMaterial(material.DefaultGlossyConfig())),
		must(material.NewTranslucentMaterial(material.DefaultTranslucentConfig())),
		must(material.NewPrincipledMaterial(material.DefaultPrincipledConfig())),
		must(material.NewPrincipledMaterial(metallic)),
	}
}

func TestRunConservesEnergy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Samples = 4000
	report := Run(energyTestMaterials(t), cfg)

	if len(report.Results) != 9*len(cfg.Angles) {
		t.Fatalf("Expected %d results, got %d", 9*len(cfg.Angles), len(report.Results))
	}
	for _, v := range report.Violations(0.05) {
		t.Errorf("%s at %.0f degrees scatters more than it receives: %v", v.Material, v.Theta, v.Stats.Albedo())
	}
	for _, result := range report.Results {
		if albedo := result.Stats.Albedo(); albedo.HasNaN() || albedo.MinComponent() < 0 {
			t.Errorf("%s at %.0f degrees: invalid albedo %v", result.Material, result.Theta, albedo)
		}
	}
}

func TestRunSharesMaterialsAcrossWorkers(t *testing.T) {
	mat := must(material.NewPrincipledMaterial(material.DefaultPrincipledConfig()))

	cfg := Config{Samples: 200, Workers: 8, Seed: 7, Angles: []float64{10, 20, 30, 40, 50, 60, 70, 80}}
	report := Run([]material.Material{mat}, cfg)

	// Each task owns its sampler, so results match a sequential run
	for i, result := range report.Results {
		if result.TaskID != i {
			t.Fatalf("Expected results ordered by task, got %d at %d", result.TaskID, i)
		}
		expected := Estimate(mat, cfg.Angles[i], cfg.Samples, newSampler(cfg.Seed+int64(i)))
		if result.Stats != expected {
			t.Errorf("Task %d: expected %+v, got %+v", i, expected, result.Stats)
		}
	}
}

func TestReportTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Samples = 100
	cfg.Angles = []float64{0}
	matte := must(material.NewMatteMaterial(material.DefaultMatteConfig()))
	report := Run([]material.Material{matte}, cfg)

	var buf bytes.Buffer
	report.Table(&buf)
	out := buf.String()
	for _, want := range []string{"matte", "0.5000"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q:\n%s", want, out)
		}
	}
}

func TestViolations(t *testing.T) {
	hot := AlbedoStats{}
	for i := 0; i < 10; i++ {
		hot.AddSample(core.NewVec3(1.2, 0.5, 0.5))
	}
	report := &Report{Results: []Result{
		{TaskID: 0, Material: "hot", Stats: hot},
		{TaskID: 1, Material: "fine", Stats: AlbedoStats{ColorAccum: core.NewGray(0.9), SampleCount: 1}},
	}}

	violations := report.Violations(0.05)
	if len(violations) != 1 || violations[0].Material != "hot" {
		t.Errorf("Expected only hot to violate, got %+v", violations)
	}
	if len(report.Violations(0.5)) != 0 {
		t.Error("Expected no violations with a loose tolerance")
	}
}
