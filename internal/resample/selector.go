package resample

import "github.com/forgepix/thumbline/internal/geom"

// Selector maps a source/target size pair to the strategy to resize with.
// Selectors are pure functions of the two dimensions.
type Selector func(source, target geom.Dimension) Strategy

// Auto picks the strategy expected to give the best quality for the scale
// factor:
//
//   - same size on both axes: Identity
//   - growth on both axes: Bicubic
//   - reduction on both axes to less than half: ProgressiveBilinear
//   - reduction on both axes by less than 2x: Bilinear
//
// Mixed growth/shrink combinations, or one axis unchanged while the other
// moves, fall back to ProgressiveBilinear.
func Auto(source, target geom.Dimension) Strategy {
	switch {
	case target.Width == source.Width && target.Height == source.Height:
		return Identity
	case target.Width > source.Width && target.Height > source.Height:
		return Bicubic
	case target.Width < source.Width && target.Height < source.Height:
		if target.Width < source.Width/2 && target.Height < source.Height/2 {
			return ProgressiveBilinear
		}
		return Bilinear
	default:
		return ProgressiveBilinear
	}
}

// Fixed ignores both dimensions and always selects the given strategy.
func Fixed(s Strategy) Selector {
	return func(geom.Dimension, geom.Dimension) Strategy {
		return s
	}
}
