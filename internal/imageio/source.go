package imageio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/forgepix/thumbline/internal/exif"
)

// Source yields exactly one raster per read and reports the encoding it was
// stored in. InputFormat is valid only after Read has returned.
type Source interface {
	Read(ctx context.Context) (image.Image, error)
	InputFormat() string
}

// OrientationReader is an optional Source capability: sources that retain the
// encoded bytes can report the camera orientation found in them.
type OrientationReader interface {
	Orientation() (exif.Orientation, bool)
}

// decodeImage decodes the first frame of an encoded image. Encodings without
// a registered decoder surface ErrUnsupportedFormat rather than a generic
// decode failure.
func decodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: no decoder for source", ErrUnsupportedFormat)
		}
		return nil, "", fmt.Errorf("decode source image: %w", err)
	}
	return img, NormalizeFormat(format), nil
}

// FileSource reads and decodes one image file.
type FileSource struct {
	Path string

	format      string
	orientation exif.Orientation
	oriented    bool
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read source file %s: %w", s.Path, err)
	}
	img, format, err := decodeImage(data)
	if err != nil {
		return nil, err
	}

	s.format = format
	s.orientation, s.oriented = exif.ScanOrientation(data)
	return img, nil
}

func (s *FileSource) InputFormat() string {
	return s.format
}

func (s *FileSource) Orientation() (exif.Orientation, bool) {
	return s.orientation, s.oriented
}

// ReaderSource decodes one image from a byte stream. Streams are not
// rewindable, so the source is only good for a single read.
type ReaderSource struct {
	r io.Reader

	format      string
	orientation exif.Orientation
	oriented    bool
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("read source stream: %w", err)
	}
	img, format, err := decodeImage(data)
	if err != nil {
		return nil, err
	}

	s.format = format
	s.orientation, s.oriented = exif.ScanOrientation(data)
	return img, nil
}

func (s *ReaderSource) InputFormat() string {
	return s.format
}

func (s *ReaderSource) Orientation() (exif.Orientation, bool) {
	return s.orientation, s.oriented
}

// ImageSource hands an already-decoded raster to the pipeline. The reported
// format is whatever the caller says the raster came from; there are no
// encoded bytes so no orientation metadata either.
type ImageSource struct {
	Image  image.Image
	Format string
}

func (s *ImageSource) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Image == nil {
		return nil, errors.New("image source requires a raster")
	}
	return s.Image, nil
}

func (s *ImageSource) InputFormat() string {
	return NormalizeFormat(s.Format)
}
