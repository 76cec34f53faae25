package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	JobStatusCreated    = "created"
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusSucceeded  = "succeeded"
	JobStatusFailed     = "failed"

	SourceTypeLocalFile   = "local_file"
	SourceTypeS3Presigned = "s3_presigned"
)

// Resampling strategy names accepted in ThumbnailSpec.Strategy. "auto" (or
// empty) lets the worker pick per scale factor.
const (
	StrategyAuto        = "auto"
	StrategyIdentity    = "identity"
	StrategyBilinear    = "bilinear"
	StrategyBicubic     = "bicubic"
	StrategyProgressive = "progressive"
)

type CreateJobRequest struct {
	SourceType string          `json:"source_type"`
	WebhookURL string          `json:"webhook_url,omitempty"`
	ObjectKey  string          `json:"object_key,omitempty"`
	Thumbnails []ThumbnailSpec `json:"thumbnails"`
}

// ThumbnailSpec describes one output variant of a job's source image. Sizing
// uses either a fixed width/height (optionally fitting within them while
// keeping the aspect ratio) or a scale factor, never both.
type ThumbnailSpec struct {
	ID         string  `json:"id"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	KeepAspect bool    `json:"keep_aspect,omitempty"`
	Format     string  `json:"format,omitempty"`
	Quality    int     `json:"quality,omitempty"`
	Strategy   string  `json:"strategy,omitempty"`

	// DisableAutoOrient skips camera orientation correction; it is applied
	// by default.
	DisableAutoOrient bool `json:"disable_auto_orient,omitempty"`

	RotateDegrees  float64    `json:"rotate_degrees,omitempty"`
	FlipHorizontal bool       `json:"flip_horizontal,omitempty"`
	FlipVertical   bool       `json:"flip_vertical,omitempty"`
	Watermark      *Watermark `json:"watermark,omitempty"`
}

type Watermark struct {
	Text    string  `json:"text"`
	Opacity float64 `json:"opacity"`
	Gravity string  `json:"gravity"`
}

type Job struct {
	ID         string
	UserID     string
	Status     string
	SourceType string
	WebhookURL string
	Thumbnails []ThumbnailSpec
	ObjectKey  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r CreateJobRequest) Validate() error {
	sourceType := strings.ToLower(strings.TrimSpace(r.SourceType))
	if sourceType == "" {
		return errors.New("source_type is required")
	}
	if sourceType != SourceTypeLocalFile && sourceType != SourceTypeS3Presigned {
		return fmt.Errorf("unsupported source_type: %s", r.SourceType)
	}
	if sourceType == SourceTypeLocalFile && strings.TrimSpace(r.ObjectKey) == "" {
		return errors.New("object_key is required for source_type=local_file")
	}
	if len(r.Thumbnails) == 0 {
		return errors.New("thumbnails must contain at least one spec")
	}
	for i, spec := range r.Thumbnails {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("thumbnails[%d]: %w", i, err)
		}
	}
	return nil
}

func (s ThumbnailSpec) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("id is required")
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("width and height must not be negative, got %dx%d", s.Width, s.Height)
	}
	if s.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %g", s.Scale)
	}
	if s.Scale > 0 && (s.Width > 0 || s.Height > 0) {
		return errors.New("scale and width/height are mutually exclusive")
	}
	if s.Scale == 0 && s.Width == 0 && s.Height == 0 {
		return errors.New("either scale or width/height is required")
	}
	if s.Quality < 0 || s.Quality > 100 {
		return fmt.Errorf("quality must be in [0,100], got %d", s.Quality)
	}

	switch strings.ToLower(strings.TrimSpace(s.Strategy)) {
	case "", StrategyAuto, StrategyIdentity, StrategyBilinear, StrategyBicubic, StrategyProgressive:
	default:
		return fmt.Errorf("unknown strategy: %s", s.Strategy)
	}
	return nil
}
