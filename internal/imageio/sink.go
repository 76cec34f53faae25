package imageio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Sink accepts exactly one raster plus the resolved output format per write,
// and reports the format it would pick when the caller leaves the choice to
// it.
type Sink interface {
	Write(ctx context.Context, img image.Image, format string) error
	PreferredFormat() string
}

const defaultFormat = "png"

// encodeImage writes img in the named format. Formats without a registered
// encoder surface ErrUnsupportedFormat.
func encodeImage(w io.Writer, img image.Image, format string, quality int) error {
	f, err := imaging.FormatFromExtension(NormalizeFormat(format))
	if err != nil {
		return fmt.Errorf("%w: no encoder for %q", ErrUnsupportedFormat, format)
	}

	var opts []imaging.EncodeOption
	if f == imaging.JPEG {
		if quality <= 0 || quality > 100 {
			quality = 80
		}
		opts = append(opts, imaging.JPEGQuality(quality))
	}

	if err := imaging.Encode(w, img, f, opts...); err != nil {
		return fmt.Errorf("encode %s: %w", NormalizeFormat(format), err)
	}
	return nil
}

// FileSink encodes the raster into a file. Its preferred format is taken
// from the target path's extension when that names a known encoder.
type FileSink struct {
	Path    string
	Quality int
}

func (s *FileSink) Write(ctx context.Context, img image.Image, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encodeImage(&buf, img, format, s.Quality); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output file %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileSink) PreferredFormat() string {
	ext := strings.TrimPrefix(filepath.Ext(s.Path), ".")
	if ext == "" {
		return defaultFormat
	}
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		return defaultFormat
	}
	return NormalizeFormat(ext)
}

// WriterSink encodes the raster into a byte stream.
type WriterSink struct {
	W       io.Writer
	Quality int
	// Preferred overrides the format picked when the caller defers the
	// choice; empty means png.
	Preferred string
}

func (s *WriterSink) Write(ctx context.Context, img image.Image, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return encodeImage(s.W, img, format, s.Quality)
}

func (s *WriterSink) PreferredFormat() string {
	if s.Preferred == "" {
		return defaultFormat
	}
	return NormalizeFormat(s.Preferred)
}

// BufferSink encodes the raster into memory and keeps the resolved format,
// ready to hand to an emitter.
type BufferSink struct {
	Quality   int
	Preferred string

	buf    bytes.Buffer
	format string
}

func (s *BufferSink) Write(ctx context.Context, img image.Image, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := encodeImage(&s.buf, img, format, s.Quality); err != nil {
		return err
	}
	s.format = NormalizeFormat(format)
	return nil
}

func (s *BufferSink) PreferredFormat() string {
	if s.Preferred == "" {
		return defaultFormat
	}
	return NormalizeFormat(s.Preferred)
}

// Bytes returns the encoded output. Valid only after Write.
func (s *BufferSink) Bytes() []byte {
	return s.buf.Bytes()
}

// Format returns the resolved format the raster was encoded with. Valid only
// after Write.
func (s *BufferSink) Format() string {
	return s.format
}

// ImageSink keeps the raster itself, skipping the encode step entirely.
type ImageSink struct {
	img    image.Image
	format string
}

func (s *ImageSink) Write(ctx context.Context, img image.Image, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.img = img
	s.format = NormalizeFormat(format)
	return nil
}

func (s *ImageSink) PreferredFormat() string {
	return defaultFormat
}

// Image returns the written raster. Valid only after Write.
func (s *ImageSink) Image() image.Image {
	return s.img
}

// Format returns the resolved format name. Valid only after Write.
func (s *ImageSink) Format() string {
	return s.format
}
