// Package material turns a surface intersection into scattering functions: a
// BSDF built from bxdf lobes and, for translucent media, a tabulated BSSRDF.
package material

import (
	"errors"

	"github.com/df07/go-scattering/pkg/bssrdf"
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

var (
	// ErrMissingTexture is returned when a required texture input is nil
	ErrMissingTexture = errors.New("missing texture")
	// ErrMissingModifier is returned when a material has no modifier
	ErrMissingModifier = errors.New("missing modifier")
	// ErrMissingTable is returned when a Fourier material has no table source
	ErrMissingTable = errors.New("missing fourier table")
)

// Material produces the scattering functions for a surface point.
// Materials are immutable after construction and safe for concurrent use.
type Material interface {
	Node

	// Type returns the material kind
	Type() Type

	// Name returns the display name
	Name() string

	// Emittance returns the self-illumination at si
	Emittance(si *SurfaceInteraction) core.Vec3

	// ComputeScatteringFunctions applies the modifier to si and builds fresh
	// lobes for this intersection. allowMultipleLobes permits a single
	// combined specular lobe where the integrator can sample it.
	ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions
}

// ScatteringFunctions is the result of ComputeScatteringFunctions. BSDF is never
// nil; a BSDF without lobes means no surface interaction. BSSRDF is nil for
// materials without subsurface transport.
type ScatteringFunctions struct {
	BSDF   *bxdf.BSDF
	BSSRDF *bssrdf.Tabulated
}

// Type identifies a material kind
type Type int

const (
	TypeMatte Type = iota
	TypeGlossy
	TypeMetal
	TypeMirror
	TypePlastic
	TypeGlass
	TypeTranslucent
	TypePrincipled
	TypeHair
	TypeFourier
	TypeSubsurface
	TypeKDSubsurface
)

var typeNames = [...]string{
	TypeMatte:        "matte",
	TypeGlossy:       "glossy",
	TypeMetal:        "metal",
	TypeMirror:       "mirror",
	TypePlastic:      "plastic",
	TypeGlass:        "glass",
	TypeTranslucent:  "translucent",
	TypePrincipled:   "principled",
	TypeHair:         "hair",
	TypeFourier:      "fourier",
	TypeSubsurface:   "subsurface",
	TypeKDSubsurface: "kdsubsurface",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "invalid"
	}
	return typeNames[t]
}

// ParseType returns the material kind with the given name
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), true
		}
	}
	return 0, false
}

// SurfaceInteraction contains information about a ray-surface intersection
type SurfaceInteraction struct {
	Point       core.Vec3  // World-space point of intersection
	ObjectPoint core.Vec3  // Object-space point of intersection
	UV          core.Vec2  // Surface parameterization
	Wo          core.Vec3  // Direction towards the ray origin (world space)
	Normal      core.Vec3  // Geometric normal, on the side of Wo
	Shading     core.Frame // Shading frame; modifiers may perturb it
	FrontFace   bool       // Whether the ray hit the front face
}

// NewSurfaceInteraction creates an interaction whose shading frame follows the
// geometric normal, with its tangent aligned to dpdu when one is given.
// The normal is flipped to face wo.
func NewSurfaceInteraction(point, outwardNormal, dpdu core.Vec3, uv core.Vec2, wo core.Vec3) *SurfaceInteraction {
	si := &SurfaceInteraction{
		Point:       point,
		ObjectPoint: point,
		UV:          uv,
		Wo:          wo,
	}
	si.SetFaceNormal(outwardNormal)
	si.Shading = core.NewFrame(si.Normal, dpdu)
	return si
}

// SetFaceNormal sets the normal vector and determines front/back face
func (si *SurfaceInteraction) SetFaceNormal(outwardNormal core.Vec3) {
	si.FrontFace = si.Wo.Dot(outwardNormal) >= 0
	if si.FrontFace {
		si.Normal = outwardNormal
	} else {
		si.Normal = outwardNormal.Negate()
	}
}

// Node is an element of a material graph: materials, textures and modifiers
type Node interface {
	Children() []Node
}

// Walk visits root and its descendants depth-first, parents before children.
// It stops at the first error returned by visit.
func Walk(root Node, visit func(Node) error) error {
	if root == nil {
		return nil
	}
	if err := visit(root); err != nil {
		return err
	}
	for _, child := range root.Children() {
		if err := Walk(child, visit); err != nil {
			return err
		}
	}
	return nil
}
