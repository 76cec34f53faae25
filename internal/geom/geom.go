// Package geom holds the dimension bookkeeping shared by the resampler and
// the thumbnail pipeline: a width/height pair that is never allowed to reach
// zero, plus the target-size policies (fixed size, scale factor, fit within
// bounds).
package geom

import (
	"fmt"
	"math"
)

// Dimension is a width/height pair in pixels. Both axes are always >= 1;
// use Clamp (or the policy constructors) to enforce that after arithmetic.
type Dimension struct {
	Width  int
	Height int
}

// Clamp promotes any axis that dropped to zero or below back to 1.
func (d Dimension) Clamp() Dimension {
	if d.Width < 1 {
		d.Width = 1
	}
	if d.Height < 1 {
		d.Height = 1
	}
	return d
}

// Validate reports an error naming the offending axis when either dimension
// is not positive.
func (d Dimension) Validate() error {
	if d.Width < 1 {
		return fmt.Errorf("width must be positive, got %d", d.Width)
	}
	if d.Height < 1 {
		return fmt.Errorf("height must be positive, got %d", d.Height)
	}
	return nil
}

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Sizer computes the destination size of a thumbnail from the source size.
type Sizer interface {
	Size(source Dimension) Dimension
}

// FixedSize always produces the same dimensions regardless of the source.
type FixedSize Dimension

func (f FixedSize) Size(Dimension) Dimension {
	return Dimension(f).Clamp()
}

// ScaleFactor multiplies both source axes by a factor, rounding to nearest.
type ScaleFactor float64

func (s ScaleFactor) Size(source Dimension) Dimension {
	return Dimension{
		Width:  int(math.Round(float64(source.Width) * float64(s))),
		Height: int(math.Round(float64(source.Height) * float64(s))),
	}.Clamp()
}

// FitWithin shrinks (or grows) the source to the largest size that fits
// inside the bound while keeping the source aspect ratio.
type FitWithin Dimension

func (f FitWithin) Size(source Dimension) Dimension {
	bound := Dimension(f).Clamp()
	source = source.Clamp()

	scale := math.Min(
		float64(bound.Width)/float64(source.Width),
		float64(bound.Height)/float64(source.Height),
	)
	return ScaleFactor(scale).Size(source)
}
