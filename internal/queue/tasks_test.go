package queue

import (
	"testing"
	"time"

	"github.com/forgepix/thumbline/internal/domain"
)

func TestGenerateThumbnailsTaskRoundTrip(t *testing.T) {
	payload := GenerateThumbnailsPayload{
		JobID:      "job-123",
		SourceType: "s3_presigned",
		ObjectKey:  "uploads/job-123/source",
		Thumbnails: []domain.ThumbnailSpec{
			{
				ID:         "thumb_small",
				Width:      160,
				Height:     160,
				KeepAspect: true,
				Strategy:   domain.StrategyProgressive,
			},
		},
		RequestedAt: time.Now().UTC(),
	}

	task, err := NewGenerateThumbnailsTask(payload)
	if err != nil {
		t.Fatalf("NewGenerateThumbnailsTask returned error: %v", err)
	}

	parsed, err := ParseGenerateThumbnailsPayload(task)
	if err != nil {
		t.Fatalf("ParseGenerateThumbnailsPayload returned error: %v", err)
	}

	if parsed.JobID != payload.JobID {
		t.Fatalf("expected job_id %q, got %q", payload.JobID, parsed.JobID)
	}
	if len(parsed.Thumbnails) != 1 {
		t.Fatalf("expected one thumbnail spec, got %d", len(parsed.Thumbnails))
	}
	if parsed.Thumbnails[0].Strategy != domain.StrategyProgressive {
		t.Fatalf("expected strategy %q, got %q", domain.StrategyProgressive, parsed.Thumbnails[0].Strategy)
	}
}
