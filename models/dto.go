package models

// VideoMetaResponse is the API response for the video metadata endpoint.
// Duration fields are nil when the metadata tool could not determine them.
type VideoMetaResponse struct {
	DurationSeconds *int     `json:"duration_seconds"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Title           string   `json:"title,omitempty"`
}
