package recipe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/http/gateway"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"go.uber.org/zap"
)

type favoriteRequest struct {
	RecipeID string `json:"recipeId"`
}

type favoriteCheck struct {
	IsFavorite bool `json:"isFavorite"`
}

// Favorites lists the logged-in user's favorite recipes
func (s *RecipeService) Favorites(ctx context.Context) ([]recipe.Recipe, error) {
	header, err := s.auth.AuthHeader(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := gateway.Do[json.RawMessage](ctx, s.gateway, "/favorites", gateway.Options{Header: header})
	if err != nil {
		return nil, err
	}
	return decodeRecipes(raw, "favorites")
}

// AddFavorite marks a recipe as favorite
func (s *RecipeService) AddFavorite(ctx context.Context, id string) error {
	header, err := s.favoriteHeader(ctx, id)
	if err != nil {
		return err
	}

	err = s.gateway.Request(ctx, "/favorites", gateway.Options{
		Method: http.MethodPost,
		Header: header,
		JSON:   favoriteRequest{RecipeID: id},
	}, nil)
	if err != nil {
		return err
	}
	s.logger.Debug("Favorite added", zap.String("recipe_id", id))
	return nil
}

// RemoveFavorite unmarks a recipe
func (s *RecipeService) RemoveFavorite(ctx context.Context, id string) error {
	header, err := s.favoriteHeader(ctx, id)
	if err != nil {
		return err
	}

	err = s.gateway.Request(ctx, "/favorites/"+url.PathEscape(id), gateway.Options{
		Method: http.MethodDelete,
		Header: header,
	}, nil)
	if err != nil {
		return err
	}
	s.logger.Debug("Favorite removed", zap.String("recipe_id", id))
	return nil
}

// IsFavorite asks the backend whether the recipe is a favorite
func (s *RecipeService) IsFavorite(ctx context.Context, id string) (bool, error) {
	header, err := s.favoriteHeader(ctx, id)
	if err != nil {
		return false, err
	}

	check, err := gateway.Do[favoriteCheck](ctx, s.gateway, "/favorites/check/"+url.PathEscape(id), gateway.Options{
		Header: header,
	})
	if err != nil {
		return false, err
	}
	return check.IsFavorite, nil
}

// ToggleFavorite flips the favorite state and returns the new one
func (s *RecipeService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	favorite, err := s.IsFavorite(ctx, id)
	if err != nil {
		return false, err
	}

	if favorite {
		err = s.RemoveFavorite(ctx, id)
	} else {
		err = s.AddFavorite(ctx, id)
	}
	if err != nil {
		return favorite, err
	}
	return !favorite, nil
}

func (s *RecipeService) favoriteHeader(ctx context.Context, id string) (http.Header, error) {
	if id == "" {
		return nil, apperrors.NewValidationError(recipe.ErrMissingID.Error())
	}
	return s.auth.AuthHeader(ctx)
}
