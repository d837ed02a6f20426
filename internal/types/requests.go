package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

// ExtractRequest is the body of /extract, /extract-stream and /jobs. The
// location is sent as zipcode by the web client; location is accepted too.
type ExtractRequest struct {
	URL      string `json:"url"`
	Zipcode  string `json:"zipcode"`
	Location string `json:"location"`
}

// ResolvedLocation returns zipcode, or location when zipcode is empty.
func (r ExtractRequest) ResolvedLocation() string {
	if r.Zipcode != "" {
		return r.Zipcode
	}
	return r.Location
}

// CredentialsRequest is the body of /register and /login.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// LoginResponse is returned by /login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// FavoriteRequest is the body of POST and DELETE /favorites.
type FavoriteRequest struct {
	RecipeURL string `json:"recipe_url" binding:"required"`
}

// FavoritesResponse lists a user's favorites.
type FavoritesResponse struct {
	Favorites []model.Favorite `json:"favorites"`
}

// Job states.
const (
	JobPending = "pending"
	JobDone    = "done"
	JobFailed  = "failed"
)

// JobStatus is the stored state of a background extraction.
type JobStatus struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	URL       string        `json:"url"`
	Location  string        `json:"location"`
	Recipe    *model.Recipe `json:"recipe,omitempty"`
	Error     string        `json:"error,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// JobResponse is returned when a job is accepted.
type JobResponse struct {
	JobID string `json:"job_id"`
}
