package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgepix/thumbline/internal/domain"
	"github.com/forgepix/thumbline/internal/imageio"
)

const SourceTypeLocalFile = "local_file"

var ErrUnsupportedSourceType = errors.New("unsupported source_type")

// Request carries everything the processor needs to render one job's
// thumbnails.
type Request struct {
	JobID      string
	SourceType string
	ObjectKey  string
	Thumbnails []domain.ThumbnailSpec
}

// Output describes one emitted thumbnail.
type Output struct {
	ThumbnailID string
	Format      string
	Path        string
	Bytes       int
	Width       int
	Height      int
	Success     bool
}

type Result struct {
	SourceBytes int
	Outputs     []Output
}

// Fetcher retrieves the encoded source image for a request.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// Emitter persists one rendered thumbnail and describes where it went.
type Emitter interface {
	Emit(ctx context.Context, req Request, spec domain.ThumbnailSpec, data []byte, format string, width, height int) (Output, error)
}

// Processor fetches a source once and renders every requested thumbnail from
// the same bytes.
type Processor struct {
	fetcher     Fetcher
	transformer Transformer
	emitter     Emitter
}

func NewProcessor(fetcher Fetcher, emitter Emitter) (*Processor, error) {
	transformer, err := newTransformer()
	if err != nil {
		return nil, fmt.Errorf("build transformer: %w", err)
	}
	return &Processor{fetcher: fetcher, transformer: transformer, emitter: emitter}, nil
}

func NewLocalProcessor(outputDir string) (*Processor, error) {
	return NewProcessor(LocalFileFetcher{}, LocalFileEmitter{OutputDir: outputDir})
}

func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.JobID) == "" {
		return Result{}, errors.New("job_id is required")
	}
	if len(req.Thumbnails) == 0 {
		return Result{}, errors.New("job must request at least one thumbnail")
	}

	sourceBytes, err := p.fetcher.Fetch(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch stage: %w", err)
	}

	out := Result{
		SourceBytes: len(sourceBytes),
		Outputs:     make([]Output, 0, len(req.Thumbnails)),
	}
	for _, spec := range req.Thumbnails {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		data, format, width, height, err := p.transformer.Transform(ctx, sourceBytes, spec)
		if err != nil {
			return Result{}, fmt.Errorf("transform stage thumbnail=%s: %w", spec.ID, err)
		}

		written, err := p.emitter.Emit(ctx, req, spec, data, format, width, height)
		if err != nil {
			return Result{}, fmt.Errorf("emit stage thumbnail=%s: %w", spec.ID, err)
		}
		out.Outputs = append(out.Outputs, written)
	}

	return out, nil
}

type LocalFileFetcher struct{}

func (LocalFileFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if !strings.EqualFold(req.SourceType, SourceTypeLocalFile) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, req.SourceType)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(req.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", req.ObjectKey, err)
	}
	return data, nil
}

type LocalFileEmitter struct {
	OutputDir string
}

func (e LocalFileEmitter) Emit(_ context.Context, req Request, spec domain.ThumbnailSpec, data []byte, format string, width, height int) (Output, error) {
	if strings.TrimSpace(e.OutputDir) == "" {
		return Output{}, errors.New("output directory is required")
	}
	if strings.TrimSpace(spec.ID) == "" {
		return Output{}, errors.New("thumbnail id is required")
	}

	jobDir := filepath.Join(e.OutputDir, sanitizePathToken(req.JobID))
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", sanitizePathToken(spec.ID), imageio.NormalizeFormat(format))
	fullPath := filepath.Join(jobDir, filename)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return Output{}, fmt.Errorf("write output file: %w", err)
	}

	return Output{
		ThumbnailID: spec.ID,
		Format:      imageio.NormalizeFormat(format),
		Path:        fullPath,
		Bytes:       len(data),
		Width:       width,
		Height:      height,
		Success:     true,
	}, nil
}

func sanitizePathToken(in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return "unknown"
	}

	var b strings.Builder
	b.Grow(len(in))
	for _, r := range in {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
