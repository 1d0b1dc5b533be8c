package bssrdf

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewBeamDiffusionTable(0, 1.33, DefaultRhoSamples, DefaultRadiusSamples)
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}
	return table
}

func TestNewTableRejectsDegenerateSizes(t *testing.T) {
	tests := []struct {
		name    string
		nRho    int
		nRadius int
	}{
		{"no albedo samples", 0, 64},
		{"single albedo sample", 1, 64},
		{"single radius sample", 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.nRho, tt.nRadius)
			if !errors.Is(err, ErrInvalidTableSize) {
				t.Errorf("Expected ErrInvalidTableSize, got %v", err)
			}
		})
	}
}

func TestComputeBeamDiffusionIsDeterministic(t *testing.T) {
	a, err := NewBeamDiffusionTable(0.3, 1.4, 24, 32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBeamDiffusionTable(0.3, 1.4, 24, 32)
	if err != nil {
		t.Fatal(err)
	}

	compare := func(name string, x, y []float64) {
		if len(x) != len(y) {
			t.Fatalf("%s: length mismatch %d vs %d", name, len(x), len(y))
		}
		for i := range x {
			if math.Float64bits(x[i]) != math.Float64bits(y[i]) {
				t.Fatalf("%s[%d]: %v != %v", name, i, x[i], y[i])
			}
		}
	}
	compare("Rho", a.Rho, b.Rho)
	compare("Radius", a.Radius, b.Radius)
	compare("Profile", a.Profile, b.Profile)
	compare("RhoEff", a.RhoEff, b.RhoEff)
	compare("ProfileCDF", a.ProfileCDF, b.ProfileCDF)
}

func TestTableLayout(t *testing.T) {
	table := newTestTable(t)

	if table.Rho[0] != 0 || math.Abs(table.Rho[len(table.Rho)-1]-1) > 1e-12 {
		t.Errorf("Expected albedo samples to span [0, 1], got %f..%f", table.Rho[0], table.Rho[len(table.Rho)-1])
	}
	for i := 1; i < len(table.Radius); i++ {
		if table.Radius[i] <= table.Radius[i-1] {
			t.Fatalf("Radius samples not increasing at %d", i)
		}
	}

	if table.RhoEff[0] != 0 {
		t.Errorf("Expected zero effective albedo without scattering, got %f", table.RhoEff[0])
	}
	for i := 1; i < len(table.RhoEff); i++ {
		if table.RhoEff[i] < table.RhoEff[i-1] {
			t.Fatalf("Effective albedo decreased at %d: %f < %f", i, table.RhoEff[i], table.RhoEff[i-1])
		}
		// Photon beam diffusion overshoots slightly as the albedo approaches 1
		if table.RhoEff[i] > 1.01 {
			t.Fatalf("Effective albedo %f exceeds 1.01 at %d", table.RhoEff[i], i)
		}
		if table.Rho[i] < 0.99 && table.RhoEff[i] > 1 {
			t.Fatalf("Effective albedo %f exceeds 1 at rho %f", table.RhoEff[i], table.Rho[i])
		}
	}
}

func TestFresnelMoments(t *testing.T) {
	// A matched boundary reflects nothing
	if m := FresnelMoment1(1); math.Abs(m) > 0.01 {
		t.Errorf("Expected first moment near 0 at eta 1, got %f", m)
	}
	if m := FresnelMoment2(1); math.Abs(m) > 0.01 {
		t.Errorf("Expected second moment near 0 at eta 1, got %f", m)
	}
	if FresnelMoment1(1.5) <= FresnelMoment1(1.2) {
		t.Error("Expected the first moment to grow with eta")
	}
}

func TestPhaseHGNormalization(t *testing.T) {
	for _, g := range []float64{-0.5, 0, 0.3, 0.8} {
		const n = 200000
		sum := 0.0
		for i := 0; i < n; i++ {
			mu := -1 + 2*(float64(i)+0.5)/n
			sum += PhaseHG(mu, g) * 2 / n
		}
		if got := 2 * math.Pi * sum; math.Abs(got-1) > 1e-3 {
			t.Errorf("g=%f: expected phase function to integrate to 1, got %f", g, got)
		}
	}
}

func TestSubsurfaceFromDiffuse(t *testing.T) {
	table := newTestTable(t)
	mfp := core.NewVec3(1, 2, 0.5)
	sigmaA, sigmaS := SubsurfaceFromDiffuse(table, core.NewVec3(0.2, 0.5, 0.8), mfp)

	// Extinction is the reciprocal mean free path
	sigmaT := sigmaA.Add(sigmaS)
	expected := core.NewVec3(1, 0.5, 2)
	if !sigmaT.ApproxEquals(expected, 1e-9) {
		t.Errorf("Expected extinction %v, got %v", expected, sigmaT)
	}

	// Brighter diffuse color needs a higher single-scattering albedo
	rho := sigmaS.DivideVec(sigmaT)
	if !(rho.X < rho.Y && rho.Y < rho.Z) {
		t.Errorf("Expected albedo to increase with reflectance, got %v", rho)
	}
}

func newTestTabulated(t *testing.T) *Tabulated {
	t.Helper()
	return NewTabulated(TabulatedConfig{
		Point:  core.NewVec3(0, 0, 0),
		Frame:  core.NewFrameFromNormal(core.NewVec3(0, 1, 0)),
		Wo:     core.NewVec3(0, 1, 0),
		Eta:    1.33,
		Mode:   bxdf.Radiance,
		SigmaA: core.NewVec3(0.1, 0.2, 0.4),
		SigmaS: core.NewVec3(1, 1, 1),
		Table:  newTestTable(t),
	})
}

func TestTabulatedRadialPDFIntegratesToOne(t *testing.T) {
	b := newTestTabulated(t)
	radius := b.table.Radius

	for ch := 0; ch < 3; ch++ {
		sigmaT := b.SigmaT().Index(ch)
		sum := 0.0
		for j := 0; j+1 < len(radius); j++ {
			r0, r1 := radius[j]/sigmaT, radius[j+1]/sigmaT
			const steps = 20
			dr := (r1 - r0) / steps
			for k := 0; k < steps; k++ {
				r := r0 + (float64(k)+0.5)*dr
				sum += b.PDFSr(ch, r) * 2 * math.Pi * r * dr
			}
		}
		if math.Abs(sum-1) > 0.02 {
			t.Errorf("Channel %d: expected radial pdf to integrate to 1, got %f", ch, sum)
		}
	}
}

func TestTabulatedProfile(t *testing.T) {
	b := newTestTabulated(t)

	near := b.Sr(0.01)
	far := b.Sr(2)
	if near.IsBlack() {
		t.Fatal("Expected a non-zero profile near the exit point")
	}
	for c := 0; c < 3; c++ {
		if far.Index(c) >= near.Index(c) {
			t.Errorf("Channel %d: expected profile to fall off, near=%v far=%v", c, near, far)
		}
	}

	// Far outside the tabulated radius range
	if got := b.Sr(1e6); !got.IsBlack() {
		t.Errorf("Expected zero profile outside the table, got %v", got)
	}

	s := b.S(core.NewVec3(0.1, 0, 0), core.NewVec3(0, 1, 0))
	if s.IsBlack() || s.HasNaN() || s.X < 0 {
		t.Errorf("Expected a positive BSSRDF value, got %v", s)
	}
}

func TestTabulatedSampling(t *testing.T) {
	b := newTestTabulated(t)
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		ch := random.Intn(3)
		r := b.SampleSr(ch, random.Float64())
		if r < 0 || math.IsNaN(r) {
			t.Fatalf("Invalid sampled radius %f", r)
		}
		if r > 0 && b.PDFSr(ch, r) <= 0 {
			t.Fatalf("Sampled radius %f has zero density", r)
		}
	}

	found := 0
	for i := 0; i < 200; i++ {
		probe, ok := b.SampleProbe(random.Float64(), core.NewVec2(random.Float64(), random.Float64()))
		if !ok {
			continue
		}
		found++
		if probe.Channel < 0 || probe.Channel > 2 {
			t.Fatalf("Invalid channel %d", probe.Channel)
		}
		if probe.Start.Subtract(probe.End).Length() <= 0 {
			t.Fatal("Expected a probe segment of positive length")
		}

		// The probe passes at the sampled radius from the exit point
		mid := probe.Start.Add(probe.End).Multiply(0.5)
		if math.Abs(mid.Length()-probe.Radius) > 1e-6 {
			t.Fatalf("Expected probe center at radius %f, got %f", probe.Radius, mid.Length())
		}
	}
	if found == 0 {
		t.Error("Expected at least one probe")
	}

	// A point on the tangent plane is reachable by the normal-axis probe
	if pdf := b.PDFSp(core.NewVec3(0.2, 0, 0.1), core.NewVec3(0, 1, 0)); pdf <= 0 {
		t.Errorf("Expected positive density, got %f", pdf)
	}
}
