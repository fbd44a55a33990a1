package speech

import "time"

// TTSResponse carries synthesized audio.
type TTSResponse struct {
	AudioData []byte    `json:"-"`
	AudioURL  string    `json:"audioUrl"`
	Duration  int64     `json:"duration,omitempty"` // milliseconds
	Format    string    `json:"format"`
	RequestID string    `json:"requestId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
