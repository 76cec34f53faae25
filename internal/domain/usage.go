package domain

import "time"

// UsageLog records the work one finished job consumed, for per-user
// accounting.
type UsageLog struct {
	UserID            string
	JobID             string
	ThumbnailsEmitted int64
	PixelsProcessed   int64
	BytesSaved        int64
	ComputeTimeMS     int64
	CreatedAt         time.Time
}
