package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// BeforeCreate assigns an id when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Favorite links a user to a saved recipe URL. A user can favorite a URL once.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_url" json:"-"`
	RecipeURL string    `gorm:"size:2048;not null;uniqueIndex:idx_favorites_user_url" json:"recipe_url"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// BeforeCreate assigns an id when the caller did not
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// RecipeCacheEntry is a persisted extraction keyed by source URL.
type RecipeCacheEntry struct {
	URL        string    `gorm:"size:2048;primarykey" json:"url"`
	Transcript string    `gorm:"type:text" json:"transcript"`
	RecipeJSON Recipe    `gorm:"column:recipe_json;type:text;not null" json:"recipe"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (RecipeCacheEntry) TableName() string {
	return "recipe_cache"
}

// RevokedToken marks a logged-out session token until it would have expired.
type RevokedToken struct {
	TokenID   string    `gorm:"size:36;primarykey"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
