package imageio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgepix/thumbline/internal/geom"
	"github.com/forgepix/thumbline/internal/resample"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 120,
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestReaderSourceDetectsFormat(t *testing.T) {
	src := NewReaderSource(bytes.NewReader(encodePNG(t, testImage(20, 20))))

	img, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Fatalf("expected 20px width, got %d", img.Bounds().Dx())
	}
	if src.InputFormat() != "png" {
		t.Fatalf("expected png, got %q", src.InputFormat())
	}
}

func TestReaderSourceUnsupportedFormat(t *testing.T) {
	src := NewReaderSource(bytes.NewReader([]byte("definitely not an image")))

	_, err := src.Read(context.Background())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFileSourceAndSinkRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "input.png")
	outputPath := filepath.Join(tmp, "output.jpg")
	if err := os.WriteFile(inputPath, encodePNG(t, testImage(64, 48)), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	task, err := NewTask(Config{
		Source: NewFileSource(inputPath),
		Sink:   &FileSink{Path: outputPath, Quality: 85},
		Format: FormatDetermine,
		Sizer:  geom.FixedSize{Width: 32, Height: 24},
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg output (sink extension), got %s", format)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Fatalf("expected 32x24, got %v", img.Bounds())
	}
}

func TestFileSinkPreferredFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out.jpg", "jpeg"},
		{"out.TIF", "tiff"},
		{"out.png", "png"},
		{"out", "png"},
		{"out.xyz", "png"},
	}
	for _, tc := range tests {
		sink := &FileSink{Path: tc.path}
		if got := sink.PreferredFormat(); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.path, tc.want, got)
		}
	}
}

func TestResolveFormatOriginal(t *testing.T) {
	sink := &BufferSink{Preferred: "jpg"}
	task, err := NewTask(Config{
		Source: NewReaderSource(bytes.NewReader(encodePNG(t, testImage(10, 10)))),
		Sink:   sink,
		Format: FormatOriginal,
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sink.Format() != "png" {
		t.Fatalf("expected png (the original format), got %s", sink.Format())
	}
}

func TestResolveFormatDetermine(t *testing.T) {
	sink := &BufferSink{Preferred: "jpg"}
	task, err := NewTask(Config{
		Source: NewReaderSource(bytes.NewReader(encodePNG(t, testImage(10, 10)))),
		Sink:   sink,
		Format: FormatDetermine,
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sink.Format() != "jpeg" {
		t.Fatalf("expected jpeg (the sink's preference), got %s", sink.Format())
	}
}

func TestWriteUnsupportedEncoder(t *testing.T) {
	task, err := NewTask(Config{
		Source: NewReaderSource(bytes.NewReader(encodePNG(t, testImage(10, 10)))),
		Sink:   &BufferSink{},
		Format: "webp",
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.Run(context.Background()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTaskIsOneShot(t *testing.T) {
	task, err := NewTask(Config{
		Source: NewReaderSource(bytes.NewReader(encodePNG(t, testImage(10, 10)))),
		Sink:   &ImageSink{},
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	ctx := context.Background()
	if err := task.Write(ctx, testImage(1, 1)); !errors.Is(err, ErrNotRead) {
		t.Fatalf("expected ErrNotRead, got %v", err)
	}

	img, err := task.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := task.Read(ctx); !errors.Is(err, ErrAlreadyRead) {
		t.Fatalf("expected ErrAlreadyRead, got %v", err)
	}

	if err := task.Write(ctx, img); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := task.Write(ctx, img); !errors.Is(err, ErrAlreadyWritten) {
		t.Fatalf("expected ErrAlreadyWritten, got %v", err)
	}
}

func TestRunProgressiveEndToEnd(t *testing.T) {
	sink := &ImageSink{}
	task, err := NewTask(Config{
		Source: &ImageSource{Image: testImage(200, 200), Format: "png"},
		Sink:   sink,
		Sizer:  geom.FixedSize{Width: 50, Height: 50},
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := sink.Image()
	if got.Bounds().Dx() != 50 || got.Bounds().Dy() != 50 {
		t.Fatalf("expected 50x50, got %v", got.Bounds())
	}
}

func TestRunIdentityPreservesPixels(t *testing.T) {
	src := testImage(100, 100)
	sink := &ImageSink{}
	task, err := NewTask(Config{
		Source: &ImageSource{Image: src, Format: "png"},
		Sink:   sink,
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := sink.Image().(*image.NRGBA)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Fatalf("expected size preserved, got %v", out.Bounds())
	}
	if out.NRGBAAt(10, 10) != src.NRGBAAt(10, 10) {
		t.Fatalf("expected pixel (10,10) preserved, got %v want %v", out.NRGBAAt(10, 10), src.NRGBAAt(10, 10))
	}
}

// buildOrientedJPEG encodes img as JPEG and splices in an APP1 segment
// declaring the given Exif orientation.
func buildOrientedJPEG(t *testing.T, img image.Image, orientation uint16) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	encoded := buf.Bytes()

	tiff := []byte{
		'I', 'I', 42, 0, // little-endian header
		8, 0, 0, 0, // first directory offset
		1, 0, // entry count
		0x12, 0x01, // orientation tag
		3, 0, // short
		1, 0, 0, 0, // count
		byte(orientation), 0, 0, 0,
	}
	segment := append([]byte("Exif\x00\x00"), tiff...)

	var out bytes.Buffer
	out.Write(encoded[:2]) // SOI
	out.Write([]byte{0xFF, 0xE1})
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(segment)+2))
	out.Write(length[:])
	out.Write(segment)
	out.Write(encoded[2:])
	return out.Bytes()
}

func TestRunAutoOrient(t *testing.T) {
	// Stored 30x40, orientation 6: correcting rotates clockwise into 40x30.
	data := buildOrientedJPEG(t, testImage(30, 40), 6)

	sink := &ImageSink{}
	task, err := NewTask(Config{
		Source:     NewReaderSource(bytes.NewReader(data)),
		Sink:       sink,
		AutoOrient: true,
		Selector:   resample.Fixed(resample.Bilinear),
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(task.Filters()) != 1 {
		t.Fatalf("expected one corrective filter, got %d", len(task.Filters()))
	}
	got := sink.Image()
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 30 {
		t.Fatalf("expected 40x30 after orientation fix, got %v", got.Bounds())
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := map[string]string{
		"JPG":        "jpeg",
		" png ":      "png",
		"tif":        "tiff",
		"determine":  "determine",
		"ORIGINAL":   "original",
		"":           "",
		"jpeg":       "jpeg",
		"image/jpeg": "image/jpeg",
	}
	for in, want := range tests {
		if got := NormalizeFormat(in); got != want {
			t.Fatalf("NormalizeFormat(%q): expected %q, got %q", in, want, got)
		}
	}
}
