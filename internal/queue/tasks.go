package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/forgepix/thumbline/internal/domain"
	"github.com/hibiken/asynq"
)

const TypeGenerateThumbnails = "thumbnail:generate"

type GenerateThumbnailsPayload struct {
	JobID       string                 `json:"job_id"`
	SourceType  string                 `json:"source_type"`
	WebhookURL  string                 `json:"webhook_url,omitempty"`
	ObjectKey   string                 `json:"object_key"`
	Thumbnails  []domain.ThumbnailSpec `json:"thumbnails"`
	RequestedAt time.Time              `json:"requested_at"`
}

func NewGenerateThumbnailsTask(payload GenerateThumbnailsPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal thumbnail payload: %w", err)
	}
	return asynq.NewTask(TypeGenerateThumbnails, body), nil
}

func ParseGenerateThumbnailsPayload(task *asynq.Task) (GenerateThumbnailsPayload, error) {
	var payload GenerateThumbnailsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return GenerateThumbnailsPayload{}, fmt.Errorf("unmarshal thumbnail payload: %w", err)
	}
	return payload, nil
}
