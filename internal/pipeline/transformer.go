package pipeline

import (
	"context"
	"strings"

	"github.com/forgepix/thumbline/internal/domain"
	"github.com/forgepix/thumbline/internal/filter"
	"github.com/forgepix/thumbline/internal/geom"
	"github.com/forgepix/thumbline/internal/imageio"
	"github.com/forgepix/thumbline/internal/resample"
)

// Transformer renders one thumbnail variant from the encoded source bytes.
type Transformer interface {
	Transform(ctx context.Context, input []byte, spec domain.ThumbnailSpec) (data []byte, format string, width, height int, err error)
}

// targetSize applies the spec's sizing policy to the source dimensions.
func targetSize(spec domain.ThumbnailSpec, source geom.Dimension) geom.Dimension {
	switch {
	case spec.Scale > 0:
		return geom.ScaleFactor(spec.Scale).Size(source)
	case spec.Width > 0 && spec.Height > 0 && spec.KeepAspect:
		return geom.FitWithin{Width: spec.Width, Height: spec.Height}.Size(source)
	case spec.Width > 0 && spec.Height > 0:
		return geom.FixedSize{Width: spec.Width, Height: spec.Height}.Size(source)
	case spec.Width > 0:
		return geom.ScaleFactor(float64(spec.Width) / float64(source.Clamp().Width)).Size(source)
	case spec.Height > 0:
		return geom.ScaleFactor(float64(spec.Height) / float64(source.Clamp().Height)).Size(source)
	default:
		return source.Clamp()
	}
}

// selectorFor maps a spec's strategy name to a resampling selector; empty or
// "auto" picks per scale factor.
func selectorFor(name string) resample.Selector {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case domain.StrategyIdentity:
		return resample.Fixed(resample.Identity)
	case domain.StrategyBilinear:
		return resample.Fixed(resample.Bilinear)
	case domain.StrategyBicubic:
		return resample.Fixed(resample.Bicubic)
	case domain.StrategyProgressive:
		return resample.Fixed(resample.ProgressiveBilinear)
	default:
		return resample.Auto
	}
}

// filtersFor builds the caller-supplied filter chain for a spec. Orientation
// correction is not part of it; the task prepends that on its own.
func filtersFor(spec domain.ThumbnailSpec) []filter.Filter {
	var filters []filter.Filter
	if spec.RotateDegrees != 0 {
		filters = append(filters, filter.Rotate{Degrees: spec.RotateDegrees})
	}
	if spec.FlipHorizontal {
		filters = append(filters, filter.FlipHorizontal)
	}
	if spec.FlipVertical {
		filters = append(filters, filter.FlipVertical)
	}
	if wm := spec.Watermark; wm != nil {
		filters = append(filters, filter.Watermark{
			Text:    wm.Text,
			Opacity: wm.Opacity,
			Gravity: wm.Gravity,
		})
	}
	return filters
}

// outputFormat translates the spec's format field for the task; an empty
// field keeps the source format.
func outputFormat(name string) string {
	if strings.TrimSpace(name) == "" {
		return imageio.FormatOriginal
	}
	return name
}
