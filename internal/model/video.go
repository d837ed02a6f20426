package model

// VideoMetadata is the subset of yt-dlp's metadata the pipeline uses.
type VideoMetadata struct {
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	Duration    float64 `json:"duration"`
}
