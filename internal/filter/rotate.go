package filter

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
)

// Rotate turns the raster by an arbitrary angle in degrees, clockwise for
// positive angles, growing the canvas to fit the rotated extent. Multiples of
// 90 degrees take the exact lossless path.
type Rotate struct {
	Degrees float64
}

func (r Rotate) Apply(img image.Image) image.Image {
	degrees := math.Mod(r.Degrees, 360)
	if degrees < 0 {
		degrees += 360
	}

	switch degrees {
	case 0:
		return img
	case 90:
		return RotateRight90.Apply(img)
	case 180:
		return Rotate180.Apply(img)
	case 270:
		return RotateLeft90.Apply(img)
	}

	return transform.Rotate(img, degrees, &transform.RotationOptions{ResizeBounds: true})
}
