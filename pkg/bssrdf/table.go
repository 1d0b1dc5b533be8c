// Package bssrdf implements tabulated subsurface scattering: the beam-diffusion
// profile table, the inverse mapping from diffuse appearance to scattering
// coefficients, and the per-intersection separable BSSRDF built on the table.
package bssrdf

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/interpolation"
)

// Default table resolution
const (
	DefaultRhoSamples    = 100
	DefaultRadiusSamples = 64
)

// ErrInvalidTableSize is returned for tables too small to interpolate
var ErrInvalidTableSize = errors.New("bssrdf table needs at least two samples per axis")

// Table holds the radial scattering profile Sr for unit extinction, tabulated
// over single-scattering albedo (rows) and optical radius (columns)
type Table struct {
	Rho        []float64 // Albedo samples
	Radius     []float64 // Optical radius samples
	Profile    []float64 // 2*pi*r*Sr(r), row-major by albedo
	RhoEff     []float64 // Effective albedo per albedo sample
	ProfileCDF []float64 // Running integral of each profile row
}

// NewTable allocates an empty table
func NewTable(nRho, nRadius int) (*Table, error) {
	if nRho < 2 || nRadius < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidTableSize, nRho, nRadius)
	}
	return &Table{
		Rho:        make([]float64, nRho),
		Radius:     make([]float64, nRadius),
		Profile:    make([]float64, nRho*nRadius),
		RhoEff:     make([]float64, nRho),
		ProfileCDF: make([]float64, nRho*nRadius),
	}, nil
}

// NewBeamDiffusionTable allocates and fills a table for the given medium
func NewBeamDiffusionTable(g, eta float64, nRho, nRadius int) (*Table, error) {
	t, err := NewTable(nRho, nRadius)
	if err != nil {
		return nil, err
	}
	ComputeBeamDiffusion(g, eta, t)
	return t, nil
}

// ComputeBeamDiffusion fills t with photon beam diffusion profiles for phase
// function asymmetry g and relative index eta. Rows are computed concurrently;
// each row is written by exactly one goroutine, so the result is deterministic.
func ComputeBeamDiffusion(g, eta float64, t *Table) {
	nRho, nRadius := len(t.Rho), len(t.Radius)

	// Radii grow exponentially from a small first step
	t.Radius[0] = 0
	t.Radius[1] = 2.5e-3
	for i := 2; i < nRadius; i++ {
		t.Radius[i] = t.Radius[i-1] * 1.2
	}

	// Albedos concentrate near 1, where the profile changes fastest
	for i := 0; i < nRho; i++ {
		t.Rho[i] = (1 - math.Exp(-8*float64(i)/float64(nRho-1))) / (1 - math.Exp(-8))
	}

	rows := make(chan int, nRho)
	for i := 0; i < nRho; i++ {
		rows <- i
	}
	close(rows)

	numWorkers := runtime.NumCPU()
	if numWorkers > nRho {
		numWorkers = nRho
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				t.computeRow(i, g, eta)
			}
		}()
	}
	wg.Wait()
}

func (t *Table) computeRow(i int, g, eta float64) {
	nRadius := len(t.Radius)
	row := t.Profile[i*nRadius : (i+1)*nRadius]
	rho := t.Rho[i]
	for j, r := range t.Radius {
		row[j] = 2 * math.Pi * r * (BeamDiffusionSS(rho, 1-rho, g, eta, r) + BeamDiffusionMS(rho, 1-rho, g, eta, r))
	}
	t.RhoEff[i] = interpolation.IntegrateCatmullRom(t.Radius, row, t.ProfileCDF[i*nRadius:(i+1)*nRadius])
}

// profileAt interpolates the profile at albedo rho and optical radius r. It
// reports false when either lies outside the table.
func (t *Table) profileAt(rho, rOptical float64) (float64, [4]float64, int, bool) {
	rhoOffset, rhoWeights, ok := interpolation.CatmullRomWeights(t.Rho, rho)
	if !ok {
		return 0, rhoWeights, 0, false
	}
	radiusOffset, radiusWeights, ok := interpolation.CatmullRomWeights(t.Radius, rOptical)
	if !ok {
		return 0, rhoWeights, 0, false
	}

	nRadius := len(t.Radius)
	sr := 0.0
	for i := 0; i < 4; i++ {
		if rhoWeights[i] == 0 {
			continue
		}
		for j := 0; j < 4; j++ {
			if radiusWeights[j] == 0 {
				continue
			}
			sr += rhoWeights[i] * radiusWeights[j] * t.Profile[(rhoOffset+i)*nRadius+radiusOffset+j]
		}
	}

	// Undo the 2*pi*r factor baked into the profile
	if rOptical != 0 {
		sr /= 2 * math.Pi * rOptical
	}
	return sr, rhoWeights, rhoOffset, true
}

// FresnelMoment1 is the first moment of the dielectric Fresnel reflectance
func FresnelMoment1(eta float64) float64 {
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta
	eta5 := eta4 * eta
	if eta < 1 {
		return 0.45966 - 1.73965*eta + 3.37668*eta2 - 3.904945*eta3 + 2.49277*eta4 - 0.68441*eta5
	}
	return -4.61686 + 11.1136*eta - 10.4646*eta2 + 5.11455*eta3 - 1.27198*eta4 + 0.12746*eta5
}

// FresnelMoment2 is the second moment of the dielectric Fresnel reflectance
func FresnelMoment2(eta float64) float64 {
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta
	eta5 := eta4 * eta
	if eta < 1 {
		return 0.27614 - 0.87350*eta + 1.12077*eta2 - 0.65095*eta3 + 0.07883*eta4 + 0.04860*eta5
	}
	rEta := 1 / eta
	rEta2 := rEta * rEta
	rEta3 := rEta2 * rEta
	return -547.033 + 45.3087*rEta3 - 218.725*rEta2 + 458.843*rEta + 404.557*eta - 189.519*eta2 +
		54.9327*eta3 - 9.00603*eta4 + 0.63942*eta5
}

// PhaseHG is the Henyey-Greenstein phase function
func PhaseHG(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(denom))
}

const beamDiffusionSamples = 100

// BeamDiffusionMS is the multiple-scattering radial profile from photon beam
// diffusion with the given scattering and absorption coefficients
func BeamDiffusionMS(sigmaS, sigmaA, g, eta, r float64) float64 {
	// Reduced coefficients for the similarity principle
	sigmapS := sigmaS * (1 - g)
	sigmapT := sigmaA + sigmapS
	rhop := sigmapS / sigmapT

	// Non-classical diffusion coefficient (Grosjean)
	dG := (2*sigmaA + sigmapS) / (3 * sigmapT * sigmapT)
	sigmaTr := core.SafeSqrt(sigmaA / dG)

	// Linear extrapolation distance from the Fresnel moments
	fm1, fm2 := FresnelMoment1(eta), FresnelMoment2(eta)
	ze := -2 * dG * (1 + 3*fm2) / (1 - 2*fm1)

	// Exitance scale factors for fluence and flux
	cPhi := .25 * (1 - 2*fm1)
	cE := .5 * (1 - 3*fm2)

	ed := 0.0
	for i := 0; i < beamDiffusionSamples; i++ {
		// Real and virtual source depths
		zr := -math.Log(1-(float64(i)+.5)/beamDiffusionSamples) / sigmapT
		zv := -zr + 2*ze
		dr := math.Sqrt(r*r + zr*zr)
		dv := math.Sqrt(r*r + zv*zv)

		phiD := (math.Exp(-sigmaTr*dr)/dr - math.Exp(-sigmaTr*dv)/dv) / (4 * math.Pi * dG)
		edn := (zr*(1+sigmaTr*dr)*math.Exp(-sigmaTr*dr)/(dr*dr*dr) -
			zv*(1+sigmaTr*dv)*math.Exp(-sigmaTr*dv)/(dv*dv*dv)) / (4 * math.Pi)

		e := phiD*cPhi + edn*cE
		kappa := 1 - math.Exp(-2*sigmapT*(dr+zr))
		ed += kappa * rhop * rhop * e
	}
	return ed / beamDiffusionSamples
}

// BeamDiffusionSS is the single-scattering radial profile
func BeamDiffusionSS(sigmaS, sigmaA, g, eta, r float64) float64 {
	sigmaT := sigmaA + sigmaS
	rho := sigmaS / sigmaT

	// Minimum distance along the refracted beam that can reach r
	tCrit := r * core.SafeSqrt(eta*eta-1)

	ess := 0.0
	for i := 0; i < beamDiffusionSamples; i++ {
		ti := tCrit - math.Log(1-(float64(i)+.5)/beamDiffusionSamples)/sigmaT
		d := math.Sqrt(r*r + ti*ti)
		cosThetaO := ti / d
		ess += rho * math.Exp(-sigmaT*(d+tCrit)) / (d * d) * PhaseHG(cosThetaO, g) *
			(1 - bxdf.FrDielectric(-cosThetaO, 1, eta)) * math.Abs(cosThetaO)
	}
	return ess / beamDiffusionSamples
}
