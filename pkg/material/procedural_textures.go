package material

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// CheckerboardTexture alternates between two textures on a UV grid
type CheckerboardTexture struct {
	Even   Texture
	Odd    Texture
	ScaleU float64 // Checks per unit U
	ScaleV float64 // Checks per unit V
}

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(even, odd Texture, scaleU, scaleV float64) (*CheckerboardTexture, error) {
	if err := checkTextures(namedTexture{"even", even}, namedTexture{"odd", odd}); err != nil {
		return nil, err
	}
	return &CheckerboardTexture{Even: even, Odd: odd, ScaleU: scaleU, ScaleV: scaleV}, nil
}

func (c *CheckerboardTexture) pick(si *SurfaceInteraction) Texture {
	checkX := int(math.Floor(si.UV.X * c.ScaleU))
	checkY := int(math.Floor(si.UV.Y * c.ScaleV))
	if (checkX+checkY)%2 == 0 {
		return c.Even
	}
	return c.Odd
}

func (c *CheckerboardTexture) Evaluate(si *SurfaceInteraction) core.Vec3 {
	return c.pick(si).Evaluate(si)
}

func (c *CheckerboardTexture) EvaluateFloat(si *SurfaceInteraction) float64 {
	return c.pick(si).EvaluateFloat(si)
}

func (c *CheckerboardTexture) Children() []Node { return []Node{c.Even, c.Odd} }

// BlendTexture interpolates between two textures by a scalar amount texture
type BlendTexture struct {
	A      Texture
	B      Texture
	Amount Texture // 0 gives A, 1 gives B
}

// NewBlendTexture creates a texture mixing a and b
func NewBlendTexture(a, b, amount Texture) (*BlendTexture, error) {
	if err := checkTextures(namedTexture{"tex1", a}, namedTexture{"tex2", b}, namedTexture{"amount", amount}); err != nil {
		return nil, err
	}
	return &BlendTexture{A: a, B: b, Amount: amount}, nil
}

func (b *BlendTexture) Evaluate(si *SurfaceInteraction) core.Vec3 {
	t := b.Amount.EvaluateFloat(si)
	var c1, c2 core.Vec3
	if t != 1 {
		c1 = b.A.Evaluate(si)
	}
	if t != 0 {
		c2 = b.B.Evaluate(si)
	}
	return c1.Multiply(1 - t).Add(c2.Multiply(t))
}

func (b *BlendTexture) EvaluateFloat(si *SurfaceInteraction) float64 {
	t := b.Amount.EvaluateFloat(si)
	var f1, f2 float64
	if t != 1 {
		f1 = b.A.EvaluateFloat(si)
	}
	if t != 0 {
		f2 = b.B.EvaluateFloat(si)
	}
	return (1-t)*f1 + t*f2
}

func (b *BlendTexture) Children() []Node { return []Node{b.A, b.B, b.Amount} }

// UVTexture shows texture coordinates as colors.
// U maps to red channel, V maps to green channel.
type UVTexture struct{}

func (UVTexture) Evaluate(si *SurfaceInteraction) core.Vec3 {
	u := si.UV.X - math.Floor(si.UV.X)
	v := si.UV.Y - math.Floor(si.UV.Y)
	return core.NewVec3(u, v, 0)
}

func (t UVTexture) EvaluateFloat(si *SurfaceInteraction) float64 {
	return t.Evaluate(si).Average()
}

func (UVTexture) Children() []Node { return nil }
