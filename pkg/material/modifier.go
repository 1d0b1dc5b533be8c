package material

import (
	"github.com/df07/go-scattering/pkg/core"
)

// Modifier perturbs the shading frame of an interaction before lobes are built
type Modifier interface {
	Node
	Modify(si *SurfaceInteraction)
}

// NoOpModifier leaves the interaction unchanged
type NoOpModifier struct{}

func (NoOpModifier) Modify(si *SurfaceInteraction) {}

func (NoOpModifier) Children() []Node { return nil }

// NormalMapModifier replaces the shading normal with a tangent-space normal
// read from a color texture, where each channel maps [0, 1] to [-1, 1]
type NormalMapModifier struct {
	Map Texture
}

// NewNormalMapModifier creates a modifier driven by a normal map
func NewNormalMapModifier(normalMap Texture) (*NormalMapModifier, error) {
	if err := checkTextures(namedTexture{"normalmap", normalMap}); err != nil {
		return nil, err
	}
	return &NormalMapModifier{Map: normalMap}, nil
}

func (m *NormalMapModifier) Modify(si *SurfaceInteraction) {
	c := m.Map.Evaluate(si)
	local := c.Multiply(2).Subtract(core.NewVec3(1, 1, 1))
	if local.LengthSquared() == 0 {
		return
	}
	n := si.Shading.ToWorld(local.Normalize())

	// Keep the shading normal on the geometric side
	if n.Dot(si.Normal) < 0 {
		n = n.Negate()
	}
	si.Shading = core.NewFrame(n, si.Shading.Tangent())
}

func (m *NormalMapModifier) Children() []Node { return []Node{m.Map} }
