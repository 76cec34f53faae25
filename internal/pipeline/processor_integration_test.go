package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgepix/thumbline/internal/domain"
)

func TestLocalProcessor_FileInTransformFileOut(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "input.png")
	outputDir := filepath.Join(tmp, "out")

	srcBytes := buildTestPNG(t, 240, 120)
	if err := os.WriteFile(inputPath, srcBytes, 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	processor, err := NewLocalProcessor(outputDir)
	if err != nil {
		t.Fatalf("new local processor: %v", err)
	}

	req := Request{
		JobID:      "job-local-1",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  inputPath,
		Thumbnails: []domain.ThumbnailSpec{
			{
				ID:         "thumb_small",
				Width:      80,
				Height:     80,
				KeepAspect: true,
				Format:     "jpeg",
				Quality:    75,
			},
			{
				ID:    "watermarked",
				Scale: 1,
				Watermark: &domain.Watermark{
					Text:    "Thumbline",
					Opacity: 0.75,
					Gravity: "south",
				},
			},
		},
	}

	result, err := processor.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("process request: %v", err)
	}

	if result.SourceBytes != len(srcBytes) {
		t.Fatalf("expected SourceBytes %d, got %d", len(srcBytes), result.SourceBytes)
	}
	if len(result.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(result.Outputs))
	}

	resized := result.Outputs[0]
	if resized.Format != "jpeg" {
		t.Fatalf("expected jpeg output format, got %s", resized.Format)
	}
	if resized.Width != 80 || resized.Height != 40 {
		t.Fatalf("expected 80x40 output, got %dx%d", resized.Width, resized.Height)
	}
	verifyImageSize(t, resized.Path, 80, 40)

	watermarked := result.Outputs[1]
	if watermarked.Format != "png" {
		t.Fatalf("expected png output format, got %s", watermarked.Format)
	}
	if watermarked.Width != 240 || watermarked.Height != 120 {
		t.Fatalf("expected 240x120 output, got %dx%d", watermarked.Width, watermarked.Height)
	}

	watermarkedBytes, err := os.ReadFile(watermarked.Path)
	if err != nil {
		t.Fatalf("read watermarked image: %v", err)
	}
	if bytes.Equal(srcBytes, watermarkedBytes) {
		t.Fatal("expected watermark output to differ from source image bytes")
	}
}

func TestLocalProcessor_KeepsSourceFormat(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "input.png")

	if err := os.WriteFile(inputPath, buildTestPNG(t, 64, 64), 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	processor, err := NewLocalProcessor(filepath.Join(tmp, "out"))
	if err != nil {
		t.Fatalf("new local processor: %v", err)
	}

	result, err := processor.Process(context.Background(), Request{
		JobID:      "job-keep-format",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  inputPath,
		Thumbnails: []domain.ThumbnailSpec{
			{ID: "half", Scale: 0.5},
		},
	})
	if err != nil {
		t.Fatalf("process request: %v", err)
	}

	out := result.Outputs[0]
	if out.Format != "png" {
		t.Fatalf("expected source format png to carry through, got %s", out.Format)
	}
	verifyImageSize(t, out.Path, 32, 32)
}

func TestLocalProcessor_UnsupportedSourceType(t *testing.T) {
	processor, err := NewLocalProcessor(t.TempDir())
	if err != nil {
		t.Fatalf("new local processor: %v", err)
	}

	_, err = processor.Process(context.Background(), Request{
		JobID:      "job-unsupported",
		SourceType: "s3_presigned",
		ObjectKey:  "uploads/job/source",
		Thumbnails: []domain.ThumbnailSpec{
			{ID: "thumb_small", Width: 120, Height: 120},
		},
	})
	if err == nil {
		t.Fatal("expected unsupported source_type error")
	}
}

func buildTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 140,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode source png: %v", err)
	}
	return buf.Bytes()
}

func verifyImageSize(t *testing.T, path string, wantW, wantH int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open image %s: %v", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode image %s: %v", path, err)
	}

	if got := img.Bounds().Dx(); got != wantW {
		t.Fatalf("expected width %d, got %d", wantW, got)
	}
	if got := img.Bounds().Dy(); got != wantH {
		t.Fatalf("expected height %d, got %d", wantH, got)
	}
}
