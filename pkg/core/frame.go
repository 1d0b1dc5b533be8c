package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is an orthonormal shading basis. In local coordinates the tangent is +X,
// the bitangent +Y and the normal +Z.
type Frame struct {
	toWorld mgl64.Mat3 // columns: tangent, bitangent, normal
}

// NewFrame builds a frame from a normal and a tangent hint (typically dp/du).
// The tangent is Gram-Schmidt orthogonalized against the normal; a degenerate
// hint falls back to NewFrameFromNormal.
func NewFrame(normal, tangentHint Vec3) Frame {
	n := normal.Normalize()
	t := tangentHint.Subtract(n.Multiply(n.Dot(tangentHint)))
	if t.LengthSquared() < 1e-12 {
		return NewFrameFromNormal(n)
	}
	t = t.Normalize()
	b := n.Cross(t)
	return Frame{toWorld: mgl64.Mat3FromCols(toMgl(t), toMgl(b), toMgl(n))}
}

// NewFrameFromNormal builds an arbitrary frame around a normal
func NewFrameFromNormal(normal Vec3) Frame {
	n := normal.Normalize()

	// Find a vector perpendicular to normal
	var nt Vec3
	if math.Abs(n.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	t := nt.Cross(n).Normalize()
	b := n.Cross(t)
	return Frame{toWorld: mgl64.Mat3FromCols(toMgl(t), toMgl(b), toMgl(n))}
}

// Normal returns the world-space normal (local +Z)
func (f Frame) Normal() Vec3 {
	return fromMgl(f.toWorld.Col(2))
}

// Tangent returns the world-space tangent (local +X)
func (f Frame) Tangent() Vec3 {
	return fromMgl(f.toWorld.Col(0))
}

// Bitangent returns the world-space bitangent (local +Y)
func (f Frame) Bitangent() Vec3 {
	return fromMgl(f.toWorld.Col(1))
}

// ToLocal transforms a world-space direction into the frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return fromMgl(f.toWorld.Transpose().Mul3x1(toMgl(v)))
}

// ToWorld transforms a local direction back to world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return fromMgl(f.toWorld.Mul3x1(toMgl(v)))
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}
