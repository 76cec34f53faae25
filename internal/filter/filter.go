// Package filter provides the geometric filters a thumbnail task runs between
// decoding and resizing, including the flip/rotate operations that correct
// camera orientation metadata.
package filter

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/forgepix/thumbline/internal/exif"
)

// Filter transforms a raster into a new raster. Implementations must not
// mutate the input image.
type Filter interface {
	Apply(img image.Image) image.Image
}

// Func adapts a plain function to the Filter interface.
type Func func(image.Image) image.Image

func (f Func) Apply(img image.Image) image.Image {
	return f(img)
}

// Apply runs filters over img in order and returns the final raster.
func Apply(img image.Image, filters []Filter) image.Image {
	for _, f := range filters {
		img = f.Apply(img)
	}
	return img
}

// Op is one of the five primitive geometric operations. The value identifies
// the operation; Apply executes it.
type Op int

const (
	FlipHorizontal Op = iota
	FlipVertical
	RotateLeft90
	RotateRight90
	Rotate180
)

func (op Op) String() string {
	switch op {
	case FlipHorizontal:
		return "flip-horizontal"
	case FlipVertical:
		return "flip-vertical"
	case RotateLeft90:
		return "rotate-left-90"
	case RotateRight90:
		return "rotate-right-90"
	case Rotate180:
		return "rotate-180"
	default:
		return "unknown"
	}
}

// Apply executes the operation. Rotations are expressed in screen
// coordinates: RotateRight90 turns the visible image clockwise.
func (op Op) Apply(img image.Image) image.Image {
	switch op {
	case FlipHorizontal:
		return imaging.FlipH(img)
	case FlipVertical:
		return imaging.FlipV(img)
	case RotateLeft90:
		return imaging.Rotate90(img)
	case RotateRight90:
		return imaging.Rotate270(img)
	case Rotate180:
		return imaging.Rotate180(img)
	default:
		return img
	}
}

// ForOrientation returns the ordered operations that normalize a raster
// stored with the given orientation back to top-left. The order is
// significant: for the mirrored diagonal orientations the rotation must run
// before the flip.
func ForOrientation(o exif.Orientation) []Op {
	switch o {
	case exif.TopRight:
		return []Op{FlipHorizontal}
	case exif.BottomRight:
		return []Op{Rotate180}
	case exif.BottomLeft:
		return []Op{Rotate180, FlipHorizontal}
	case exif.LeftTop:
		return []Op{RotateRight90, FlipHorizontal}
	case exif.RightTop:
		return []Op{RotateRight90}
	case exif.RightBottom:
		return []Op{RotateLeft90, FlipHorizontal}
	case exif.LeftBottom:
		return []Op{RotateLeft90}
	default:
		return nil
	}
}

// OrientationFilters wraps ForOrientation's operations as Filters, ready to
// prepend to a task's filter list.
func OrientationFilters(o exif.Orientation) []Filter {
	ops := ForOrientation(o)
	if len(ops) == 0 {
		return nil
	}
	filters := make([]Filter, len(ops))
	for i, op := range ops {
		filters[i] = op
	}
	return filters
}
