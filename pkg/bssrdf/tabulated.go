package bssrdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/interpolation"
)

// TabulatedConfig describes the exit point and medium of a Tabulated BSSRDF
type TabulatedConfig struct {
	Point  core.Vec3  // Point where light leaves the surface
	Frame  core.Frame // Shading frame at Point
	Wo     core.Vec3  // Outgoing direction (world space)
	Eta    float64    // Relative index of refraction of the medium
	Mode   bxdf.TransportMode
	SigmaA core.Vec3
	SigmaS core.Vec3
	Table  *Table // Shared, read-only
}

// Tabulated is a separable BSSRDF whose radial profile is looked up in a Table.
// It is built per intersection and holds no mutable shared state.
type Tabulated struct {
	point  core.Vec3
	frame  core.Frame
	wo     core.Vec3
	eta    float64
	mode   bxdf.TransportMode
	table  *Table
	sigmaT core.Vec3
	rho    core.Vec3
}

// NewTabulated creates a BSSRDF for one exit point
func NewTabulated(cfg TabulatedConfig) *Tabulated {
	sigmaT := cfg.SigmaA.Add(cfg.SigmaS)
	return &Tabulated{
		point:  cfg.Point,
		frame:  cfg.Frame,
		wo:     cfg.Wo,
		eta:    cfg.Eta,
		mode:   cfg.Mode,
		table:  cfg.Table,
		sigmaT: sigmaT,
		rho:    cfg.SigmaS.DivideVec(sigmaT),
	}
}

// Eta returns the relative index of refraction
func (b *Tabulated) Eta() float64 { return b.eta }

// Mode returns the transport mode the BSSRDF was built for
func (b *Tabulated) Mode() bxdf.TransportMode { return b.mode }

// SigmaT returns the extinction coefficient
func (b *Tabulated) SigmaT() core.Vec3 { return b.sigmaT }

// Rho returns the single-scattering albedo
func (b *Tabulated) Rho() core.Vec3 { return b.rho }

// S evaluates the BSSRDF for light entering at pi from direction wi (world space)
func (b *Tabulated) S(pi, wi core.Vec3) core.Vec3 {
	ft := bxdf.FrDielectric(bxdf.CosTheta(b.frame.ToLocal(b.wo)), 1, b.eta)
	return b.Sp(pi).MultiplyVec(b.Sw(b.frame.ToLocal(wi))).Multiply(1 - ft)
}

// Sw is the directional term for a local-frame direction
func (b *Tabulated) Sw(w core.Vec3) core.Vec3 {
	c := 1 - 2*FresnelMoment1(1/b.eta)
	return core.NewGray((1 - bxdf.FrDielectric(bxdf.CosTheta(w), 1, b.eta)) / (c * math.Pi))
}

// Sp is the spatial term for an entry point
func (b *Tabulated) Sp(pi core.Vec3) core.Vec3 {
	return b.Sr(pi.Subtract(b.point).Length())
}

// Sr evaluates the radial profile at distance r
func (b *Tabulated) Sr(r float64) core.Vec3 {
	var sr core.Vec3
	for c := 0; c < 3; c++ {
		// Convert to unitless optical radius
		sigmaT := b.sigmaT.Index(c)
		value, _, _, ok := b.table.profileAt(b.rho.Index(c), r*sigmaT)
		if !ok {
			continue
		}
		sr = sr.With(c, value*sigmaT*sigmaT)
	}
	return sr.Saturate()
}

// SampleSr samples a radius for channel ch proportionally to Sr. It returns a
// negative value when the channel does not scatter.
func (b *Tabulated) SampleSr(ch int, u float64) float64 {
	sigmaT := b.sigmaT.Index(ch)
	if sigmaT == 0 {
		return -1
	}
	x, _, _ := interpolation.SampleCatmullRom2D(b.table.Rho, b.table.Radius, b.table.Profile, b.table.ProfileCDF, b.rho.Index(ch), u)
	return x / sigmaT
}

// PDFSr returns the density of SampleSr producing radius r
func (b *Tabulated) PDFSr(ch int, r float64) float64 {
	sigmaT := b.sigmaT.Index(ch)
	sr, rhoWeights, rhoOffset, ok := b.table.profileAt(b.rho.Index(ch), r*sigmaT)
	if !ok {
		return 0
	}

	rhoEff := 0.0
	for i := 0; i < 4; i++ {
		if rhoWeights[i] == 0 {
			continue
		}
		rhoEff += b.table.RhoEff[rhoOffset+i] * rhoWeights[i]
	}
	if rhoEff <= 0 {
		return 0
	}
	return math.Max(0, sr*sigmaT*sigmaT/rhoEff)
}

// Probe axis and channel selection probabilities
var axisProbabilities = [3]float64{.25, .25, .5}

const channelProbability = 1.0 / 3

// PDFSp returns the density of sampling entry point pi with surface normal ni
// through SampleProbe, summed over every projection axis and channel
func (b *Tabulated) PDFSp(pi, ni core.Vec3) float64 {
	d := b.frame.ToLocal(pi.Subtract(b.point))
	n := b.frame.ToLocal(ni)

	// Radius of pi projected along each local axis
	rProj := [3]float64{
		math.Sqrt(d.Y*d.Y + d.Z*d.Z),
		math.Sqrt(d.Z*d.Z + d.X*d.X),
		math.Sqrt(d.X*d.X + d.Y*d.Y),
	}

	pdf := 0.0
	for axis := 0; axis < 3; axis++ {
		for ch := 0; ch < 3; ch++ {
			pdf += b.PDFSr(ch, rProj[axis]) * math.Abs(n.Index(axis)) * channelProbability * axisProbabilities[axis]
		}
	}
	return pdf
}

// Probe is a segment the integrator intersects with the surface to find
// candidate entry points
type Probe struct {
	Start   core.Vec3
	End     core.Vec3
	Channel int
	Radius  float64
}

// SampleProbe chooses a projection axis, channel and radius and returns the
// probe segment through the sampled disk point. It reports false when the
// radius falls outside the profile's support.
func (b *Tabulated) SampleProbe(u1 float64, u2 core.Vec2) (Probe, bool) {
	ss, ts, ns := b.frame.Tangent(), b.frame.Bitangent(), b.frame.Normal()

	// Project mostly along the normal, sometimes along the tangents
	var vx, vy, vz core.Vec3
	switch {
	case u1 < .5:
		vx, vy, vz = ss, ts, ns
		u1 *= 2
	case u1 < .75:
		vx, vy, vz = ts, ns, ss
		u1 = (u1 - .5) * 4
	default:
		vx, vy, vz = ns, ss, ts
		u1 = (u1 - .75) * 4
	}

	ch := int(core.Clamp(math.Floor(u1*3), 0, 2))

	r := b.SampleSr(ch, u2.X)
	if r < 0 {
		return Probe{}, false
	}
	phi := 2 * math.Pi * u2.Y

	rMax := b.SampleSr(ch, 0.999)
	if r >= rMax {
		return Probe{}, false
	}
	l := 2 * math.Sqrt(rMax*rMax-r*r)

	offset := vx.Multiply(math.Cos(phi)).Add(vy.Multiply(math.Sin(phi))).Multiply(r)
	start := b.point.Add(offset).Subtract(vz.Multiply(l / 2))
	return Probe{
		Start:   start,
		End:     start.Add(vz.Multiply(l)),
		Channel: ch,
		Radius:  r,
	}, true
}
