package imageio

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/forgepix/thumbline/internal/exif"
	"github.com/forgepix/thumbline/internal/filter"
	"github.com/forgepix/thumbline/internal/geom"
	"github.com/forgepix/thumbline/internal/resample"
)

var (
	// ErrAlreadyRead reports a second Read on a one-shot task; sources backed
	// by streams are not rewindable.
	ErrAlreadyRead = errors.New("task source already consumed")
	// ErrNotRead reports a Write before the source was read.
	ErrNotRead = errors.New("task has not read its source yet")
	// ErrAlreadyWritten reports a second Write on a one-shot task.
	ErrAlreadyWritten = errors.New("task sink already written")
)

type taskState int

const (
	stateUnread taskState = iota
	stateRead
	stateWritten
)

// Config describes one thumbnail task. It is assembled once, validated by
// New, and never mutated afterwards.
type Config struct {
	Source Source
	Sink   Sink

	// Filters run in order after orientation correction and before the
	// resize.
	Filters []filter.Filter

	// Format is the output format: a literal name, FormatOriginal, or
	// FormatDetermine. Empty behaves like FormatOriginal.
	Format string

	// Sizer computes the target size from the filtered raster's size. Nil
	// keeps the source size.
	Sizer geom.Sizer

	// Selector picks the resampling strategy. Nil means resample.Auto.
	Selector resample.Selector

	// AutoOrient corrects camera orientation metadata before other filters.
	AutoOrient bool
}

// Task runs one source through reading, orientation correction, filtering,
// resizing, and writing. Read and Write are each one-shot; a Task is not safe
// for concurrent use, but independent Tasks share nothing and may run in
// parallel.
type Task struct {
	cfg      Config
	selector resample.Selector

	state       taskState
	inputFormat string
	filters     []filter.Filter
}

// NewTask validates the configuration and returns a task in the unread state.
func NewTask(cfg Config) (*Task, error) {
	if cfg.Source == nil {
		return nil, errors.New("task requires a source")
	}
	if cfg.Sink == nil {
		return nil, errors.New("task requires a sink")
	}

	selector := cfg.Selector
	if selector == nil {
		selector = resample.Auto
	}
	return &Task{cfg: cfg, selector: selector}, nil
}

// Read invokes the source exactly once, captures the detected input format,
// and, when auto-orientation is on, prepends the corrective operations to the
// configured filter list so orientation is fixed before any other filter
// runs.
func (t *Task) Read(ctx context.Context) (image.Image, error) {
	if t.state != stateUnread {
		return nil, ErrAlreadyRead
	}

	img, err := t.cfg.Source.Read(ctx)
	if err != nil {
		return nil, err
	}
	t.inputFormat = t.cfg.Source.InputFormat()

	t.filters = t.cfg.Filters
	if t.cfg.AutoOrient {
		if or, ok := sourceOrientation(t.cfg.Source); ok && or != exif.TopLeft {
			t.filters = append(filter.OrientationFilters(or), t.cfg.Filters...)
		}
	}

	t.state = stateRead
	return img, nil
}

// InputFormat reports the format detected during Read.
func (t *Task) InputFormat() string {
	return t.inputFormat
}

// Filters returns the effective filter list, orientation correction
// included. Valid only after Read.
func (t *Task) Filters() []filter.Filter {
	return t.filters
}

// Write resolves the output format and invokes the sink exactly once.
func (t *Task) Write(ctx context.Context, img image.Image) error {
	switch t.state {
	case stateUnread:
		return ErrNotRead
	case stateWritten:
		return ErrAlreadyWritten
	}

	format, err := t.resolveFormat()
	if err != nil {
		return err
	}
	if err := t.cfg.Sink.Write(ctx, img, format); err != nil {
		return err
	}

	t.state = stateWritten
	return nil
}

// resolveFormat applies the sentinel rules exactly once per task: determine
// asks the sink, original substitutes the format captured during Read, and
// anything else is used verbatim.
func (t *Task) resolveFormat() (string, error) {
	switch NormalizeFormat(t.cfg.Format) {
	case FormatDetermine:
		return t.cfg.Sink.PreferredFormat(), nil
	case FormatOriginal, "":
		if t.inputFormat == "" {
			return "", fmt.Errorf("source did not report a format, cannot keep %q", FormatOriginal)
		}
		return t.inputFormat, nil
	default:
		return NormalizeFormat(t.cfg.Format), nil
	}
}

// Run drives the whole task: read, filter, size, resample, write.
func (t *Task) Run(ctx context.Context) error {
	img, err := t.Read(ctx)
	if err != nil {
		return err
	}

	img = filter.Apply(img, t.filters)

	b := img.Bounds()
	source := geom.Dimension{Width: b.Dx(), Height: b.Dy()}
	target := source
	if t.cfg.Sizer != nil {
		target = t.cfg.Sizer.Size(source)
	}
	if err := target.Validate(); err != nil {
		return fmt.Errorf("invalid target size: %w", err)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height))
	if err := resample.Resize(dst, img, t.selector(source, target)); err != nil {
		return err
	}

	return t.Write(ctx, dst)
}

func sourceOrientation(source Source) (exif.Orientation, bool) {
	if or, ok := source.(OrientationReader); ok {
		return or.Orientation()
	}
	return 0, false
}
