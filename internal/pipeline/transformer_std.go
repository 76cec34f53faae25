package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/forgepix/thumbline/internal/domain"
	"github.com/forgepix/thumbline/internal/filter"
	"github.com/forgepix/thumbline/internal/geom"
	"github.com/forgepix/thumbline/internal/imageio"
	"github.com/forgepix/thumbline/internal/resample"
)

// stdTransformer renders thumbnails with the pure-Go image stack. It drives
// the imageio task step by step instead of Task.Run so it can report the
// output dimensions alongside the encoded bytes.
type stdTransformer struct{}

func (stdTransformer) Transform(ctx context.Context, input []byte, spec domain.ThumbnailSpec) ([]byte, string, int, int, error) {
	sink := &imageio.BufferSink{Quality: spec.Quality}
	task, err := imageio.NewTask(imageio.Config{
		Source:     imageio.NewReaderSource(bytes.NewReader(input)),
		Sink:       sink,
		Filters:    filtersFor(spec),
		Format:     outputFormat(spec.Format),
		AutoOrient: !spec.DisableAutoOrient,
	})
	if err != nil {
		return nil, "", 0, 0, fmt.Errorf("build thumbnail task: %w", err)
	}

	img, err := task.Read(ctx)
	if err != nil {
		return nil, "", 0, 0, err
	}
	img = filter.Apply(img, task.Filters())

	b := img.Bounds()
	source := geom.Dimension{Width: b.Dx(), Height: b.Dy()}
	target := targetSize(spec, source)
	if err := target.Validate(); err != nil {
		return nil, "", 0, 0, fmt.Errorf("invalid target size: %w", err)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height))
	strategy := selectorFor(spec.Strategy)(source, target)
	if err := resample.Resize(dst, img, strategy); err != nil {
		return nil, "", 0, 0, err
	}

	if err := task.Write(ctx, dst); err != nil {
		return nil, "", 0, 0, err
	}
	return sink.Bytes(), sink.Format(), target.Width, target.Height, nil
}
