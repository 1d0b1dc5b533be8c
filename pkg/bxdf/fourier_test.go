package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-scattering/pkg/core"
)

func TestFourierTableFinalize(t *testing.T) {
	table := NewUniformFourierTable(0.5, 6)
	nMu := table.NMu()
	for row := 0; row < nMu; row++ {
		if got := table.CDF[row*nMu+nMu-1]; math.Abs(got-1) > 1e-12 {
			t.Errorf("Row %d: expected marginal mass 1, got %f", row, got)
		}
	}
	if len(table.Recip) != table.MMax {
		t.Errorf("Expected %d reciprocals, got %d", table.MMax, len(table.Recip))
	}
}

func TestFourierBXDFConstantTable(t *testing.T) {
	c := 0.3
	lobe := NewFourierBXDF(NewUniformFourierTable(c, 6), Radiance)
	wo := core.NewVec3(0.6, 0, 0.8)

	t.Run("evaluate", func(t *testing.T) {
		wi := core.NewVec3(0, 0.6, 0.8)
		got := lobe.Evaluate(wo, wi)
		expected := c / 0.8
		if !got.ApproxEquals(core.NewGray(expected), 1e-9) {
			t.Errorf("Expected %f, got %v", expected, got)
		}
	})

	t.Run("pdf is uniform over the sphere", func(t *testing.T) {
		random := rand.New(rand.NewSource(42))
		for i := 0; i < 100; i++ {
			wi := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64()))
			if got := lobe.PDF(wo, wi); math.Abs(got-1/(4*math.Pi)) > 1e-9 {
				t.Fatalf("Expected %f, got %f", 1/(4*math.Pi), got)
			}
		}
	})

	t.Run("sample", func(t *testing.T) {
		random := rand.New(rand.NewSource(42))
		for i := 0; i < 100; i++ {
			s, ok := lobe.Sample(wo, core.NewVec2(random.Float64(), random.Float64()))
			if !ok {
				t.Fatal("Expected a sample")
			}
			if math.Abs(s.PDF-1/(4*math.Pi)) > 1e-6 {
				t.Fatalf("Expected uniform pdf, got %f", s.PDF)
			}
			if math.Abs(s.Wi.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got %v", s.Wi)
			}
		}
	})
}

func TestFourierBXDFOutOfRangeElevation(t *testing.T) {
	table := NewUniformFourierTable(0.3, 6)
	// Restrict the table to positive cosines
	table.Mu = []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	table.CDF = nil
	table.Finalize()
	lobe := NewFourierBXDF(table, Importance)

	// -wi has a negative cosine here, which the table does not cover
	if got := lobe.Evaluate(core.NewVec3(0, 0, 1), core.NewVec3(0, 0.6, 0.8)); !got.IsBlack() {
		t.Errorf("Expected black outside the table, got %v", got)
	}
}
