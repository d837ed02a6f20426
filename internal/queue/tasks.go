// Package queue runs recipe extractions in the background over asynq.
package queue

import "time"

// Task types
const (
	TypeRecipeExtract = "recipe:extract"
)

// StatusTTL is how long a finished job's status stays readable.
const StatusTTL = 24 * time.Hour

// RecipeExtractPayload is the payload of a recipe:extract task.
type RecipeExtractPayload struct {
	JobID    string `json:"job_id"`
	URL      string `json:"url"`
	Location string `json:"location"`
}
