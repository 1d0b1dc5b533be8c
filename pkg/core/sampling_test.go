package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSamplerRange(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		u := sampler.Get1D()
		v := sampler.Get2D()
		w := sampler.Get3D()
		for _, x := range []float64{u, v.X, v.Y, w.X, w.Y, w.Z} {
			if x < 0 || x >= 1 {
				t.Fatalf("Sample %f outside [0, 1)", x)
			}
		}
	}
}

func TestRandomSamplerDeterministic(t *testing.T) {
	a := NewRandomSampler(rand.New(rand.NewSource(7)))
	b := NewRandomSampler(rand.New(rand.NewSource(7)))
	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Expected equal seeds to produce equal sequences")
		}
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 1, -1).Normalize(),
	}

	for _, normal := range normals {
		random := rand.New(rand.NewSource(1))
		const n = 20000
		sumCos := 0.0
		for i := 0; i < n; i++ {
			dir := SampleCosineHemisphere(normal, NewVec2(random.Float64(), random.Float64()))
			if math.Abs(dir.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %f", dir.Length())
			}
			cos := dir.Dot(normal)
			if cos < -1e-9 {
				t.Fatalf("Direction %v below the hemisphere of %v", dir, normal)
			}
			sumCos += cos
		}
		// E[cos] under a cosine-weighted density is 2/3
		if mean := sumCos / n; math.Abs(mean-2.0/3.0) > 0.01 {
			t.Errorf("Normal %v: expected mean cosine 2/3, got %f", normal, mean)
		}
	}
}

func TestSamplePointInUnitDisk(t *testing.T) {
	tests := []struct {
		name   string
		sample func(Vec2) Vec3
	}{
		{"concentric", SamplePointInUnitDisk},
		{"polar", SamplePointInUnitDiskPolar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			random := rand.New(rand.NewSource(3))
			const n = 20000
			inner := 0
			for i := 0; i < n; i++ {
				p := tt.sample(NewVec2(random.Float64(), random.Float64()))
				if p.Z != 0 || p.Length() > 1+1e-12 {
					t.Fatalf("Point %v outside the unit disk", p)
				}
				if p.Length() < 0.5 {
					inner++
				}
			}
			// A uniform density puts a quarter of the area inside radius 0.5
			if frac := float64(inner) / n; math.Abs(frac-0.25) > 0.015 {
				t.Errorf("Expected 25%% of points inside r = 0.5, got %.1f%%", frac*100)
			}
		})
	}

	if p := SamplePointInUnitDisk(NewVec2(0.5, 0.5)); !p.IsZero() {
		t.Errorf("Expected the center sample to map to the origin, got %v", p)
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	random := rand.New(rand.NewSource(5))
	const n = 20000
	var sum Vec3
	for i := 0; i < n; i++ {
		dir := SampleOnUnitSphere(NewVec2(random.Float64(), random.Float64()))
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %f", dir.Length())
		}
		sum = sum.Add(dir)
	}
	if mean := sum.Multiply(1.0 / n); mean.Length() > 0.02 {
		t.Errorf("Expected directions to average near zero, got %v", mean)
	}
}

func TestSphericalDirection(t *testing.T) {
	dir := SphericalDirection(1, 0, math.Pi/2)
	if !dir.ApproxEquals(NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected +Y, got %v", dir)
	}
}
