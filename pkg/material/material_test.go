package material

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

func testInteraction() *SurfaceInteraction {
	return NewSurfaceInteraction(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec2(0.5, 0.25),
		core.NewVec3(0.3, 0.2, 0.9).Normalize(),
	)
}

func scatter(t *testing.T, m Material, allowMultipleLobes bool) ScatteringFunctions {
	t.Helper()
	sf := m.ComputeScatteringFunctions(testInteraction(), bxdf.Radiance, allowMultipleLobes)
	if sf.BSDF == nil {
		t.Fatal("Expected a BSDF")
	}
	return sf
}

func expectKinds(t *testing.T, sf ScatteringFunctions, expected ...bxdf.Kind) {
	t.Helper()
	kinds := sf.BSDF.Kinds()
	if len(kinds) != len(expected) {
		t.Fatalf("Expected lobes %v, got %v", expected, kinds)
	}
	for i := range kinds {
		if kinds[i] != expected[i] {
			t.Fatalf("Expected lobes %v, got %v", expected, kinds)
		}
	}
}

func gray(v float64) Texture { return NewConstantTexture(core.NewGray(v)) }

func scalar(v float64) Texture { return NewConstantFloatTexture(v) }

func TestMatteMaterial(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		expected bxdf.Kind
	}{
		{"lambertian", 0, bxdf.KindLambertianBRDF},
		{"oren-nayar", 20, bxdf.KindOrenNayarBRDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMatteConfig()
			cfg.Sigma = scalar(tt.angle)
			m, err := NewMatteMaterial(cfg)
			if err != nil {
				t.Fatal(err)
			}
			sf := scatter(t, m, true)
			expectKinds(t, sf, tt.expected)

			var r core.Vec3
			switch lobe := sf.BSDF.Lobes()[0].(type) {
			case *bxdf.LambertianBRDF:
				r = lobe.R
			case *bxdf.OrenNayarBRDF:
				r = lobe.R
			}
			if !r.Equals(core.NewGray(0.5)) {
				t.Errorf("Expected reflectance 0.5 gray, got %v", r)
			}
			if sf.BSSRDF != nil {
				t.Error("Expected no BSSRDF")
			}
		})
	}

	t.Run("black", func(t *testing.T) {
		cfg := DefaultMatteConfig()
		cfg.KD = gray(0)
		m, err := NewMatteMaterial(cfg)
		if err != nil {
			t.Fatal(err)
		}
		expectKinds(t, scatter(t, m, true))
	})
}

func TestGlossyMaterial(t *testing.T) {
	m, err := NewGlossyMaterial(DefaultGlossyConfig())
	if err != nil {
		t.Fatal(err)
	}
	sf := scatter(t, m, true)
	expectKinds(t, sf, bxdf.KindTorranceSparrowBRDF)

	lobe := sf.BSDF.Lobes()[0].(*bxdf.TorranceSparrowBRDF)
	fresnel, ok := lobe.Fresnel.(bxdf.ConductorFresnel)
	if !ok {
		t.Fatalf("Expected a conductor Fresnel term, got %T", lobe.Fresnel)
	}
	if !fresnel.EtaI.Equals(core.NewGray(0.5)) || !fresnel.EtaT.Equals(core.White) || !fresnel.K.Equals(core.White) {
		t.Errorf("Expected conductor (KR, white, white), got %+v", fresnel)
	}

	cfg := DefaultGlossyConfig()
	cfg.Roughness = scalar(0)
	smooth, err := NewGlossyMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, smooth, true), bxdf.KindSpecularBRDF)
}

func TestMetalMirrorPlastic(t *testing.T) {
	metal, err := NewMetalMaterial(DefaultMetalConfig())
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, metal, true), bxdf.KindTorranceSparrowBRDF)

	metalCfg := DefaultMetalConfig()
	metalCfg.RoughnessU = scalar(0)
	metalCfg.RoughnessV = scalar(0)
	polished, err := NewMetalMaterial(metalCfg)
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, polished, true), bxdf.KindSpecularBRDF)

	mirror, err := NewMirrorMaterial(DefaultMirrorConfig())
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, mirror, true), bxdf.KindSpecularBRDF)

	plastic, err := NewPlasticMaterial(DefaultPlasticConfig())
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, plastic, true), bxdf.KindLambertianBRDF, bxdf.KindTorranceSparrowBRDF)

	plasticCfg := DefaultPlasticConfig()
	plasticCfg.KD = gray(0)
	glossOnly, err := NewPlasticMaterial(plasticCfg)
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, glossOnly, true), bxdf.KindTorranceSparrowBRDF)
}

func TestGlassMaterialLobes(t *testing.T) {
	tests := []struct {
		name               string
		kr, kt             float64
		roughness          float64
		allowMultipleLobes bool
		expected           []bxdf.Kind
	}{
		{"smooth combined", 1, 1, 0, true, []bxdf.Kind{bxdf.KindFresnelSpecular}},
		{"smooth separate", 1, 1, 0, false, []bxdf.Kind{bxdf.KindSpecularBRDF, bxdf.KindSpecularBTDF}},
		{"smooth reflect only", 1, 0, 0, false, []bxdf.Kind{bxdf.KindSpecularBRDF}},
		{"rough", 1, 1, 0.3, true, []bxdf.Kind{bxdf.KindTorranceSparrowBRDF, bxdf.KindTorranceSparrowBTDF}},
		{"rough transmit only", 0, 1, 0.3, true, []bxdf.Kind{bxdf.KindTorranceSparrowBTDF}},
		{"black", 0, 0, 0, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGlassConfig()
			cfg.KR = gray(tt.kr)
			cfg.KT = gray(tt.kt)
			cfg.RoughnessU = scalar(tt.roughness)
			cfg.RoughnessV = scalar(tt.roughness)
			m, err := NewGlassMaterial(cfg)
			if err != nil {
				t.Fatal(err)
			}
			sf := scatter(t, m, tt.allowMultipleLobes)
			expectKinds(t, sf, tt.expected...)
			if sf.BSDF.Eta != 1.5 {
				t.Errorf("Expected BSDF eta 1.5, got %f", sf.BSDF.Eta)
			}
		})
	}
}

func TestTranslucentLobeCount(t *testing.T) {
	red := NewConstantTexture(core.NewVec3(1, 0, 0))
	green := NewConstantTexture(core.NewVec3(0, 1, 0))

	tests := []struct {
		name              string
		kd, ks            Texture
		reflect, transmit Texture
		expected          int
	}{
		{"all four", gray(0.25), gray(0.25), gray(0.5), gray(0.5), 4},
		{"no specular", gray(0.25), gray(0), gray(0.5), gray(0.5), 2},
		{"reflect only", gray(0.25), gray(0.25), gray(0.5), gray(0), 2},
		{"disjoint channels", red, gray(0.25), green, gray(0.5), 3},
		{"nothing scattered", gray(0.25), gray(0.25), gray(0), gray(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTranslucentConfig()
			cfg.KD, cfg.KS, cfg.Reflect, cfg.Transmit = tt.kd, tt.ks, tt.reflect, tt.transmit
			m, err := NewTranslucentMaterial(cfg)
			if err != nil {
				t.Fatal(err)
			}
			sf := scatter(t, m, true)
			if got := len(sf.BSDF.Lobes()); got != tt.expected {
				t.Errorf("Expected %d lobes, got %v", tt.expected, sf.BSDF.Kinds())
			}
		})
	}
}

func TestPrincipledDefaultLobes(t *testing.T) {
	m, err := NewPrincipledMaterial(DefaultPrincipledConfig())
	if err != nil {
		t.Fatal(err)
	}
	sf := scatter(t, m, true)
	expectKinds(t, sf, bxdf.KindDisneyDiffuse, bxdf.KindDisneyRetro, bxdf.KindTorranceSparrowBRDF)
	if sf.BSSRDF != nil {
		t.Error("Expected no BSSRDF with a black scatter distance")
	}
	if m.table != nil {
		t.Error("Expected no profile table with a black scatter distance")
	}
}

func isDiffuseFamily(k bxdf.Kind) bool {
	switch k {
	case bxdf.KindDisneyDiffuse, bxdf.KindDisneyRetro, bxdf.KindDisneySheen, bxdf.KindDisneyFakeSS:
		return true
	}
	return false
}

func TestPrincipledZeroDiffuseWeight(t *testing.T) {
	tests := []struct {
		name      string
		metallic  float64
		specTrans float64
		thin      bool
	}{
		{"metal", 1, 0, false},
		{"clear", 0, 1, false},
		{"thin clear", 0, 1, true},
		{"thin metal", 1, 0.5, true},
		{"out of range", 2, 2, false},
		{"thin out of range", 3, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPrincipledConfig()
			cfg.Metallic = scalar(tt.metallic)
			cfg.SpecularTransmission = scalar(tt.specTrans)
			cfg.Sheen = scalar(1)
			cfg.Flatness = scalar(0.5)
			cfg.Thin = tt.thin
			m, err := NewPrincipledMaterial(cfg)
			if err != nil {
				t.Fatal(err)
			}
			for _, k := range scatter(t, m, true).BSDF.Kinds() {
				if isDiffuseFamily(k) {
					t.Errorf("Unexpected %v lobe with zero diffuse weight", k)
				}
			}
		})
	}
}

// checkFinite evaluates and samples sf over random directions and fails on
// negative or non-finite values
func checkFinite(t *testing.T, sf ScatteringFunctions) {
	t.Helper()
	finite := func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
	validColor := func(c core.Vec3) bool {
		return finite(c.X) && finite(c.Y) && finite(c.Z) && c.MinComponent() >= 0
	}

	wo := testInteraction().Wo
	random := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		u := core.NewVec2(random.Float64(), random.Float64())
		wi := core.SampleOnUnitSphere(u)
		if f := sf.BSDF.Evaluate(wo, wi, bxdf.All); !validColor(f) {
			t.Fatalf("Evaluate(%v) = %v", wi, f)
		}
		if pdf := sf.BSDF.PDF(wo, wi, bxdf.All); !finite(pdf) || pdf < 0 {
			t.Fatalf("PDF(%v) = %f", wi, pdf)
		}
		if s, ok := sf.BSDF.Sample(wo, u, bxdf.All); ok {
			if !validColor(s.Value) || !finite(s.PDF) || s.PDF < 0 {
				t.Fatalf("Sample(%v) = %v, pdf %f", u, s.Value, s.PDF)
			}
		}
	}
}

func TestOutOfRangeInputsAreClamped(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Material, error)
	}{
		{"principled thin", func() (Material, error) {
			cfg := DefaultPrincipledConfig()
			cfg.Thin = true
			cfg.Flatness = scalar(1.5)
			cfg.DiffuseTransmission = scalar(3)
			cfg.Sheen = scalar(2)
			cfg.SheenTint = scalar(-1)
			cfg.SpecularTint = scalar(-2)
			cfg.Anisotropic = scalar(5)
			cfg.Roughness = scalar(-0.5)
			return NewPrincipledMaterial(cfg)
		}},
		{"principled clearcoat", func() (Material, error) {
			cfg := DefaultPrincipledConfig()
			cfg.Clearcoat = scalar(4)
			cfg.ClearcoatGloss = scalar(-1 / 0.11)
			cfg.Metallic = scalar(-1)
			cfg.SpecularTransmission = scalar(1.5)
			return NewPrincipledMaterial(cfg)
		}},
		{"hair smooth", func() (Material, error) {
			cfg := DefaultHairConfig()
			cfg.BetaM = scalar(0)
			cfg.BetaN = scalar(0)
			return NewHairMaterial(cfg)
		}},
		{"hair rough", func() (Material, error) {
			cfg := DefaultHairConfig()
			cfg.BetaM = scalar(-3)
			cfg.BetaN = scalar(7)
			return NewHairMaterial(cfg)
		}},
		{"glass negative roughness", func() (Material, error) {
			cfg := DefaultGlassConfig()
			cfg.RoughnessU = scalar(-0.3)
			cfg.RoughnessV = scalar(-0.2)
			cfg.RemapRoughness = false
			return NewGlassMaterial(cfg)
		}},
		{"translucent negative roughness", func() (Material, error) {
			cfg := DefaultTranslucentConfig()
			cfg.Roughness = scalar(-1)
			return NewTranslucentMaterial(cfg)
		}},
		{"matte steep sigma", func() (Material, error) {
			cfg := DefaultMatteConfig()
			cfg.Sigma = scalar(400)
			return NewMatteMaterial(cfg)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build()
			if err != nil {
				t.Fatal(err)
			}
			sf := scatter(t, m, false)
			if sf.BSDF.NumComponents(bxdf.All) == 0 {
				t.Fatal("Expected lobes")
			}
			checkFinite(t, sf)
		})
	}
}

func TestPrincipledThinFlatnessClamped(t *testing.T) {
	cfg := DefaultPrincipledConfig()
	cfg.Thin = true
	cfg.Flatness = scalar(1.5)
	m, err := NewPrincipledMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, lobe := range scatter(t, m, true).BSDF.Lobes() {
		if d, ok := lobe.(*bxdf.DisneyDiffuse); ok && d.R.MinComponent() < 0 {
			t.Errorf("Expected non-negative diffuse reflectance, got %v", d.R)
		}
	}
}

func TestHairRoughnessClamped(t *testing.T) {
	cfg := DefaultHairConfig()
	cfg.BetaM = scalar(0)
	cfg.BetaN = scalar(2)
	m, err := NewHairMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	hair := scatter(t, m, true).BSDF.Lobes()[0].(*bxdf.HairBXDF)
	if hair.BetaM <= 0 || hair.BetaN != 1 {
		t.Errorf("Expected roughness clamped into (0, 1], got betaM %f, betaN %f", hair.BetaM, hair.BetaN)
	}
}

func TestPrincipledOptionalLobes(t *testing.T) {
	cfg := DefaultPrincipledConfig()
	cfg.Sheen = scalar(0.5)
	cfg.Clearcoat = scalar(1)
	cfg.SpecularTransmission = scalar(0.5)
	m, err := NewPrincipledMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, m, true),
		bxdf.KindDisneyDiffuse, bxdf.KindDisneyRetro, bxdf.KindDisneySheen,
		bxdf.KindTorranceSparrowBRDF, bxdf.KindDisneyClearCoat, bxdf.KindTorranceSparrowBTDF)

	cfg = DefaultPrincipledConfig()
	cfg.Thin = true
	cfg.Flatness = scalar(0.5)
	thin, err := NewPrincipledMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, thin, true),
		bxdf.KindDisneyDiffuse, bxdf.KindDisneyFakeSS, bxdf.KindDisneyRetro,
		bxdf.KindTorranceSparrowBRDF, bxdf.KindLambertianBTDF)
}

func TestPrincipledScatterDistance(t *testing.T) {
	cfg := DefaultPrincipledConfig()
	cfg.ScatterDistance = NewConstantTexture(core.NewVec3(0.5, 0.25, 0.1))
	m, err := NewPrincipledMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sf := scatter(t, m, true)
	expectKinds(t, sf, bxdf.KindSpecularBTDF, bxdf.KindDisneyRetro, bxdf.KindTorranceSparrowBRDF)
	if sf.BSSRDF == nil {
		t.Fatal("Expected a BSSRDF")
	}
	if sf.BSSRDF.Eta() != 1.5 {
		t.Errorf("Expected BSSRDF eta 1.5, got %f", sf.BSSRDF.Eta())
	}
	// Extinction is the reciprocal scatter distance
	if got, expected := sf.BSSRDF.SigmaT(), core.NewVec3(2, 4, 10); !got.ApproxEquals(expected, 1e-9) {
		t.Errorf("Expected extinction %v, got %v", expected, got)
	}
}

func TestSubsurfaceMaterials(t *testing.T) {
	sub, err := NewSubsurfaceMaterial(DefaultSubsurfaceConfig())
	if err != nil {
		t.Fatal(err)
	}
	sf := scatter(t, sub, true)
	expectKinds(t, sf, bxdf.KindFresnelSpecular)
	if sf.BSSRDF == nil {
		t.Fatal("Expected a BSSRDF")
	}
	if got, expected := sf.BSSRDF.SigmaT(), core.NewVec3(2.5511, 3.2124, 3.784); !got.ApproxEquals(expected, 1e-9) {
		t.Errorf("Expected extinction %v, got %v", expected, got)
	}

	kd, err := NewKDSubsurfaceMaterial(DefaultKDSubsurfaceConfig())
	if err != nil {
		t.Fatal(err)
	}
	sf = scatter(t, kd, false)
	expectKinds(t, sf, bxdf.KindSpecularBRDF, bxdf.KindSpecularBTDF)
	if sf.BSSRDF == nil {
		t.Fatal("Expected a BSSRDF")
	}
	if got := sf.BSSRDF.SigmaT(); !got.ApproxEquals(core.White, 1e-9) {
		t.Errorf("Expected unit extinction for a unit mean free path, got %v", got)
	}

	cfg := DefaultKDSubsurfaceConfig()
	cfg.KR = gray(0)
	cfg.KT = gray(0)
	opaque, err := NewKDSubsurfaceMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sf := scatter(t, opaque, true); sf.BSSRDF != nil || len(sf.BSDF.Lobes()) != 0 {
		t.Error("Expected no scattering through a black boundary")
	}
}

func TestHairMaterial(t *testing.T) {
	m, err := NewHairMaterial(DefaultHairConfig())
	if err != nil {
		t.Fatal(err)
	}
	sf := scatter(t, m, true)
	expectKinds(t, sf, bxdf.KindHair)

	hair := sf.BSDF.Lobes()[0].(*bxdf.HairBXDF)
	// v = 0.25 maps to an offset of -0.5 across the fiber
	if hair.H != -0.5 {
		t.Errorf("Expected h = -0.5, got %f", hair.H)
	}
	if !hair.SigmaA.ApproxEquals(bxdf.SigmaAFromConcentration(1.3, 0), 1e-12) {
		t.Errorf("Expected melanin absorption, got %v", hair.SigmaA)
	}

	cfg := DefaultHairConfig()
	cfg.SigmaA = NewConstantTexture(core.NewVec3(0.1, 0.2, 0.3))
	cfg.Eumelanin = nil
	direct, err := NewHairMaterial(cfg)
	if err != nil {
		t.Fatalf("Melanin is optional when sigma_a is given: %v", err)
	}
	hair = scatter(t, direct, true).BSDF.Lobes()[0].(*bxdf.HairBXDF)
	if !hair.SigmaA.Equals(core.NewVec3(0.1, 0.2, 0.3)) {
		t.Errorf("Expected explicit absorption, got %v", hair.SigmaA)
	}
}

func TestFourierMaterial(t *testing.T) {
	cfg := DefaultFourierConfig()
	cfg.Table = bxdf.NewUniformFourierTable(0.2, 8)
	m, err := NewFourierMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, m, true), bxdf.KindFourier)

	if _, err := NewFourierMaterial(DefaultFourierConfig()); !errors.Is(err, ErrMissingTable) {
		t.Errorf("Expected ErrMissingTable, got %v", err)
	}

	cfg = DefaultFourierConfig()
	cfg.Filename = "does-not-exist.bsdf"
	if _, err := NewFourierMaterial(cfg); err == nil {
		t.Error("Expected an error for a missing table file")
	}
}

type countingModifier struct {
	calls int
}

func (c *countingModifier) Modify(si *SurfaceInteraction) { c.calls++ }

func (c *countingModifier) Children() []Node { return nil }

func TestModifierAppliedOnce(t *testing.T) {
	mod := &countingModifier{}
	cfg := DefaultPrincipledConfig()
	cfg.Modifier = mod
	m, err := NewPrincipledMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	m.ComputeScatteringFunctions(testInteraction(), bxdf.Radiance, true)
	if mod.calls != 1 {
		t.Errorf("Expected one modifier call, got %d", mod.calls)
	}
}

func TestConstructionFailsFast(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (Material, error)
		expected error
	}{
		{"matte without Kd", func() (Material, error) {
			cfg := DefaultMatteConfig()
			cfg.KD = nil
			return NewMatteMaterial(cfg)
		}, ErrMissingTexture},
		{"glass without modifier", func() (Material, error) {
			cfg := DefaultGlassConfig()
			cfg.Modifier = nil
			return NewGlassMaterial(cfg)
		}, ErrMissingModifier},
		{"principled without roughness", func() (Material, error) {
			cfg := DefaultPrincipledConfig()
			cfg.Roughness = nil
			return NewPrincipledMaterial(cfg)
		}, ErrMissingTexture},
		{"subsurface without sigma_s", func() (Material, error) {
			cfg := DefaultSubsurfaceConfig()
			cfg.SigmaS = nil
			return NewSubsurfaceMaterial(cfg)
		}, ErrMissingTexture},
		{"mirror without emission", func() (Material, error) {
			cfg := DefaultMirrorConfig()
			cfg.Emission = nil
			return NewMirrorMaterial(cfg)
		}, ErrMissingTexture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestEmittance(t *testing.T) {
	cfg := DefaultMatteConfig()
	cfg.Emission = NewConstantTexture(core.NewVec3(4, -1, 2))
	m, err := NewMatteMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Emittance(testInteraction()); !got.Equals(core.NewVec3(4, 0, 2)) {
		t.Errorf("Expected saturated emission, got %v", got)
	}
}

func TestWalk(t *testing.T) {
	checker, err := NewCheckerboardTexture(gray(1), gray(0), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultMatteConfig()
	cfg.KD = checker
	m, err := NewMatteMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var visited []Node
	if err := Walk(m, func(n Node) error {
		visited = append(visited, n)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	// material, modifier, emission, checker, even, odd, sigma
	if len(visited) != 7 {
		t.Fatalf("Expected 7 nodes, got %d", len(visited))
	}
	if visited[0] != Node(m) || visited[3] != Node(checker) {
		t.Error("Expected parents to be visited before their children")
	}

	stop := errors.New("stop")
	count := 0
	err = Walk(m, func(n Node) error {
		count++
		if n == Node(checker) {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || count != 4 {
		t.Errorf("Expected the walk to stop at the checkerboard, got err=%v after %d nodes", err, count)
	}
}

func TestTypeNames(t *testing.T) {
	for typ := TypeMatte; typ <= TypeKDSubsurface; typ++ {
		parsed, ok := ParseType(typ.String())
		if !ok || parsed != typ {
			t.Errorf("Type %d: name %q does not parse back", typ, typ.String())
		}
	}
	if Type(99).String() != "invalid" {
		t.Error("Expected unknown types to be invalid")
	}
	if _, ok := ParseType("velvet"); ok {
		t.Error("Expected unknown names to fail")
	}
}

func TestNegativeRoughnessIsSmooth(t *testing.T) {
	cfg := DefaultGlassConfig()
	cfg.RoughnessU = scalar(-0.1)
	cfg.RoughnessV = scalar(-0.1)
	m, err := NewGlassMaterial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	expectKinds(t, scatter(t, m, false), bxdf.KindSpecularBRDF, bxdf.KindSpecularBTDF)
}
