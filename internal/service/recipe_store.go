package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

// ErrNotFound is returned when a stored row does not exist.
var ErrNotFound = errors.New("not found")

// RecipeStore persists the latest extraction for each video URL.
type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Save upserts the extraction for url.
func (s *RecipeStore) Save(ctx context.Context, url, transcript string, recipe *model.Recipe) error {
	entry := model.RecipeCacheEntry{
		URL:        url,
		Transcript: transcript,
		RecipeJSON: *recipe,
		UpdatedAt:  time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"transcript", "recipe_json", "updated_at"}),
	}).Create(&entry).Error
}

// Get returns the stored extraction for url.
func (s *RecipeStore) Get(ctx context.Context, url string) (*model.RecipeCacheEntry, error) {
	var entry model.RecipeCacheEntry
	err := s.db.WithContext(ctx).Where("url = ?", url).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
