// Package furnace estimates the directional albedo of materials, the fraction
// of light a surface scatters in a white furnace, with a pool of workers.
package furnace

import (
	"math"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/material"
)

// Interaction returns a surface point at the origin with normal +Z, viewed
// from thetaDeg degrees off the normal in the XZ plane
func Interaction(thetaDeg float64) *material.SurfaceInteraction {
	theta := core.Radians(thetaDeg)
	wo := core.NewVec3(math.Sin(theta), 0, math.Cos(theta))
	return material.NewSurfaceInteraction(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec2(0.5, 0.5),
		wo,
	)
}

// Estimate samples the material's BSDF and accumulates f*|cos|/pdf, whose
// mean is the directional albedo for the outgoing direction at thetaDeg.
// Subsurface transport is not included.
func Estimate(mat material.Material, thetaDeg float64, samples int, sampler core.Sampler) AlbedoStats {
	si := Interaction(thetaDeg)
	sf := mat.ComputeScatteringFunctions(si, bxdf.Radiance, true)
	n := si.Shading.Normal()

	var stats AlbedoStats
	for i := 0; i < samples; i++ {
		s, ok := sf.BSDF.Sample(si.Wo, sampler.Get2D(), bxdf.All)
		if !ok || s.PDF <= 0 {
			stats.AddFailure()
			continue
		}
		stats.AddSample(s.Value.Multiply(math.Abs(s.Wi.Dot(n)) / s.PDF))
	}
	return stats
}
