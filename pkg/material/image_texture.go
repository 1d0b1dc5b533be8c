package material

import (
	"fmt"
	"math"

	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/loaders"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) (*ImageTexture, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("invalid image texture: %dx%d with %d pixels", width, height, len(pixels))
	}
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// LoadImageTexture loads an image file as a texture. With gamma set the
// pixels are decoded from sRGB to linear values.
func LoadImageTexture(filename string, gamma bool) (*ImageTexture, error) {
	img, err := loaders.LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image texture: %w", err)
	}
	if gamma {
		img.Linearize()
	}
	return NewImageTexture(img.Width, img.Height, img.Pixels)
}

// Evaluate samples the texture at si.UV using nearest-neighbor filtering
func (t *ImageTexture) Evaluate(si *SurfaceInteraction) core.Vec3 {
	// Wrap UV coordinates to [0, 1)
	u := si.UV.X - math.Floor(si.UV.X)
	v := si.UV.Y - math.Floor(si.UV.Y)

	// V=0 is bottom, V=1 is top; image rows start at the top
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	// Clamp to image bounds
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)

	return t.Pixels[y*t.Width+x]
}

// EvaluateFloat returns the luminance of the sampled pixel
func (t *ImageTexture) EvaluateFloat(si *SurfaceInteraction) float64 {
	return t.Evaluate(si).Luminance()
}

func (t *ImageTexture) Children() []Node { return nil }
