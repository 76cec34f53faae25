//go:build govips && cgo

package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/davidbyttow/govips/v2/vips"

	"github.com/forgepix/thumbline/internal/domain"
	"github.com/forgepix/thumbline/internal/geom"
	"github.com/forgepix/thumbline/internal/imageio"
)

// govipsTransformer renders thumbnails through libvips. It approximates the
// pure-Go resampling strategies with vips kernels: identity skips the resize,
// bilinear maps to the linear kernel, and everything else uses lanczos3.
type govipsTransformer struct{}

func (t govipsTransformer) Transform(ctx context.Context, input []byte, spec domain.ThumbnailSpec) ([]byte, string, int, int, error) {
	select {
	case <-ctx.Done():
		return nil, "", 0, 0, ctx.Err()
	default:
	}

	img, err := vips.NewImageFromBuffer(input)
	if err != nil {
		return nil, "", 0, 0, fmt.Errorf("decode source image: %w", err)
	}
	defer img.Close()

	if !spec.DisableAutoOrient {
		if err := img.AutoRotate(); err != nil {
			return nil, "", 0, 0, fmt.Errorf("auto-orient image: %w", err)
		}
	}

	if err := applyGovipsGeometry(img, spec); err != nil {
		return nil, "", 0, 0, err
	}
	if spec.Watermark != nil {
		if err := applyGovipsWatermark(img, spec.Watermark); err != nil {
			return nil, "", 0, 0, err
		}
	}

	source := geom.Dimension{Width: img.Width(), Height: img.Height()}
	target := targetSize(spec, source)
	if target != source {
		if err := applyGovipsResize(img, source, target, spec.Strategy); err != nil {
			return nil, "", 0, 0, err
		}
	}

	format := govipsOutputFormat(spec.Format, input)
	data, err := exportGovipsImage(img, format, spec.Quality)
	if err != nil {
		return nil, "", 0, 0, err
	}

	return data, format, img.Width(), img.Height(), nil
}

func applyGovipsGeometry(img *vips.ImageRef, spec domain.ThumbnailSpec) error {
	if deg := math.Mod(spec.RotateDegrees, 360); deg != 0 {
		if math.Mod(deg, 90) != 0 {
			return fmt.Errorf("rotation by %v degrees requires the pure-Go transformer", spec.RotateDegrees)
		}
		angle := vips.Angle90
		switch math.Mod(deg+360, 360) {
		case 180:
			angle = vips.Angle180
		case 270:
			angle = vips.Angle270
		}
		if err := img.Rotate(angle); err != nil {
			return fmt.Errorf("rotate image: %w", err)
		}
	}
	if spec.FlipHorizontal {
		if err := img.Flip(vips.DirectionHorizontal); err != nil {
			return fmt.Errorf("flip image: %w", err)
		}
	}
	if spec.FlipVertical {
		if err := img.Flip(vips.DirectionVertical); err != nil {
			return fmt.Errorf("flip image: %w", err)
		}
	}
	return nil
}

func applyGovipsResize(img *vips.ImageRef, source, target geom.Dimension, strategy string) error {
	kernel := vips.KernelLanczos3
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case domain.StrategyIdentity:
		return nil
	case domain.StrategyBilinear:
		kernel = vips.KernelLinear
	case domain.StrategyBicubic:
		kernel = vips.KernelCubic
	}

	hscale := float64(target.Width) / float64(source.Width)
	vscale := float64(target.Height) / float64(source.Height)
	if err := img.ResizeWithVScale(hscale, vscale, kernel); err != nil {
		return fmt.Errorf("resize image: %w", err)
	}
	return nil
}

func applyGovipsWatermark(img *vips.ImageRef, wm *domain.Watermark) error {
	text := strings.TrimSpace(wm.Text)
	if text == "" {
		return fmt.Errorf("watermark requires text")
	}

	opacity := wm.Opacity
	if opacity <= 0 {
		opacity = 0.65
	}
	if opacity > 1 {
		opacity = 1
	}

	label := &vips.LabelParams{
		Text:      text,
		Font:      "sans 24",
		Opacity:   float32(opacity),
		Color:     vips.Color{R: 255, G: 255, B: 255},
		Alignment: alignmentFromGravity(wm.Gravity),
	}
	label.Width.SetInt(max(1, img.Width()-24))
	label.Height.SetInt(max(1, img.Height()-24))
	label.OffsetX.SetInt(12)
	label.OffsetY.SetInt(12)

	if err := img.Label(label); err != nil {
		return fmt.Errorf("apply watermark: %w", err)
	}
	return nil
}

func alignmentFromGravity(gravity string) vips.Align {
	gravity = strings.ToLower(strings.TrimSpace(gravity))
	switch {
	case strings.Contains(gravity, "west"):
		return vips.AlignLow
	case strings.Contains(gravity, "center"), strings.HasSuffix(gravity, "north"), strings.HasSuffix(gravity, "south"):
		return vips.AlignCenter
	default:
		return vips.AlignHigh
	}
}

func govipsOutputFormat(specFormat string, input []byte) string {
	name := imageio.NormalizeFormat(specFormat)
	if name != "" && name != imageio.FormatOriginal && name != imageio.FormatDetermine {
		return name
	}

	switch vips.DetermineImageType(input) {
	case vips.ImageTypeJPEG:
		return "jpeg"
	case vips.ImageTypeWEBP:
		return "webp"
	case vips.ImageTypeTIFF:
		return "tiff"
	default:
		return "png"
	}
}

func exportGovipsImage(img *vips.ImageRef, format string, quality int) ([]byte, error) {
	switch format {
	case "jpeg":
		params := vips.NewJpegExportParams()
		if quality > 0 && quality <= 100 {
			params.Quality = quality
		}
		data, _, err := img.ExportJpeg(params)
		if err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		return data, nil
	case "png":
		params := vips.NewPngExportParams()
		if quality > 0 && quality <= 100 {
			params.Quality = quality
		}
		data, _, err := img.ExportPng(params)
		if err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return data, nil
	case "webp":
		params := vips.NewWebpExportParams()
		if quality > 0 && quality <= 100 {
			params.Quality = quality
		}
		data, _, err := img.ExportWebp(params)
		if err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
		return data, nil
	case "tiff":
		params := vips.NewTiffExportParams()
		data, _, err := img.ExportTiff(params)
		if err != nil {
			return nil, fmt.Errorf("encode tiff: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
