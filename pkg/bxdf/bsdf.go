package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// BSDF is the ordered set of lobes at a shading point. Queries take world-space
// directions; lobes see them in the shading frame.
type BSDF struct {
	Frame core.Frame // Shading frame
	Ng    core.Vec3  // Geometric normal, used to classify reflection vs transmission
	Eta   float64    // Relative index of refraction across the boundary (1 if none)

	lobes []BXDF
}

// NewBSDF creates a BSDF from the given lobes
func NewBSDF(frame core.Frame, ng core.Vec3, eta float64, lobes ...BXDF) *BSDF {
	return &BSDF{Frame: frame, Ng: ng, Eta: eta, lobes: lobes}
}

// Lobes returns the lobes in the order they were added
func (b *BSDF) Lobes() []BXDF {
	return b.lobes
}

// Kinds returns the kind of each lobe in order
func (b *BSDF) Kinds() []Kind {
	kinds := make([]Kind, len(b.lobes))
	for i, lobe := range b.lobes {
		kinds[i] = lobe.Kind()
	}
	return kinds
}

// NumComponents counts the lobes whose type is contained in flags
func (b *BSDF) NumComponents(flags Type) int {
	n := 0
	for _, lobe := range b.lobes {
		if lobe.Type().MatchesFlags(flags) {
			n++
		}
	}
	return n
}

// isReflection classifies a world-space direction pair by the geometric normal,
// which keeps shading-normal perturbation from leaking light through surfaces
func (b *BSDF) isReflection(woW, wiW core.Vec3) bool {
	return wiW.Dot(b.Ng)*woW.Dot(b.Ng) > 0
}

func (b *BSDF) contributes(lobe BXDF, flags Type, reflect bool) bool {
	t := lobe.Type()
	if !t.MatchesFlags(flags) {
		return false
	}
	return (reflect && t&Reflection != 0) || (!reflect && t&Transmission != 0)
}

// Evaluate sums the matching lobes for the world-space direction pair
func (b *BSDF) Evaluate(woW, wiW core.Vec3, flags Type) core.Vec3 {
	wo := b.Frame.ToLocal(woW)
	wi := b.Frame.ToLocal(wiW)
	if wo.Z == 0 {
		return core.Vec3{}
	}

	reflect := b.isReflection(woW, wiW)
	var f core.Vec3
	for _, lobe := range b.lobes {
		if b.contributes(lobe, flags, reflect) {
			f = f.Add(lobe.Evaluate(wo, wi))
		}
	}
	return f
}

// Sample picks one matching lobe uniformly with u.X, samples it, and returns the
// world-space direction. For non-delta lobes the value and pdf account for all
// matching lobes.
func (b *BSDF) Sample(woW core.Vec3, u core.Vec2, flags Type) (Sample, bool) {
	matching := b.NumComponents(flags)
	if matching == 0 {
		return Sample{}, false
	}

	comp := int(math.Min(math.Floor(u.X*float64(matching)), float64(matching-1)))
	var chosen BXDF
	count := comp
	for _, lobe := range b.lobes {
		if lobe.Type().MatchesFlags(flags) {
			if count == 0 {
				chosen = lobe
				break
			}
			count--
		}
	}

	// Remap u.X to [0, 1) for the chosen lobe
	uRemapped := core.NewVec2(math.Min(u.X*float64(matching)-float64(comp), core.OneMinusEpsilon), u.Y)

	wo := b.Frame.ToLocal(woW)
	if wo.Z == 0 {
		return Sample{}, false
	}
	s, ok := chosen.Sample(wo, uRemapped)
	if !ok || s.PDF == 0 {
		return Sample{}, false
	}
	wiW := b.Frame.ToWorld(s.Wi)

	if !s.Type.IsDelta() && matching > 1 {
		for _, lobe := range b.lobes {
			if lobe != chosen && lobe.Type().MatchesFlags(flags) {
				s.PDF += lobe.PDF(wo, s.Wi)
			}
		}
	}
	if matching > 1 {
		s.PDF /= float64(matching)
	}

	if !s.Type.IsDelta() {
		reflect := b.isReflection(woW, wiW)
		var f core.Vec3
		for _, lobe := range b.lobes {
			if b.contributes(lobe, flags, reflect) {
				f = f.Add(lobe.Evaluate(wo, s.Wi))
			}
		}
		s.Value = f
	}

	s.Wi = wiW
	return s, true
}

// PDF averages the densities of the matching lobes
func (b *BSDF) PDF(woW, wiW core.Vec3, flags Type) float64 {
	if len(b.lobes) == 0 {
		return 0
	}
	wo := b.Frame.ToLocal(woW)
	wi := b.Frame.ToLocal(wiW)
	if wo.Z == 0 {
		return 0
	}

	pdf := 0.0
	matching := 0
	for _, lobe := range b.lobes {
		if lobe.Type().MatchesFlags(flags) {
			matching++
			pdf += lobe.PDF(wo, wi)
		}
	}
	if matching == 0 {
		return 0
	}
	return pdf / float64(matching)
}
