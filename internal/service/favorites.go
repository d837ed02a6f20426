package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

// FavoriteService stores the recipe URLs a user has saved.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Add saves recipeURL for the user. Saving the same URL twice keeps one row.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, recipeURL string) error {
	fav := model.Favorite{UserID: userID, RecipeURL: recipeURL}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_url"}},
			DoNothing: true,
		}).
		Create(&fav).Error
}

// Remove deletes recipeURL from the user's favorites. Removing an absent URL is not an error.
func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, recipeURL string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_url = ?", userID, recipeURL).
		Delete(&model.Favorite{}).Error
}

// List returns the user's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	favorites := []model.Favorite{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}
