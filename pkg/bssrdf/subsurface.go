package bssrdf

import (
	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/interpolation"
)

// SubsurfaceFromDiffuse finds absorption and scattering coefficients that give
// the requested effective diffuse reflectance with the given mean free path
func SubsurfaceFromDiffuse(t *Table, rhoEff, mfp core.Vec3) (sigmaA, sigmaS core.Vec3) {
	for c := 0; c < 3; c++ {
		rho := interpolation.InvertCatmullRom(t.Rho, t.RhoEff, rhoEff.Index(c))
		m := mfp.Index(c)
		if m <= 0 {
			continue
		}
		sigmaS = sigmaS.With(c, rho/m)
		sigmaA = sigmaA.With(c, (1-rho)/m)
	}
	return sigmaA, sigmaS
}
