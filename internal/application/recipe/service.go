// Package recipe provides the recipe browsing, editing and favorites use cases
package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/http/gateway"
	"github.com/alchemorsel/recipeweb/internal/ports/inbound"
	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"go.uber.org/zap"
)

// RecipeService implements the recipe use cases against the backend
type RecipeService struct {
	gateway *gateway.Client
	auth    outbound.Authorizer
	logger  *zap.Logger
}

var _ inbound.RecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new recipe service
func NewRecipeService(gw *gateway.Client, auth outbound.Authorizer, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		gateway: gw,
		auth:    auth,
		logger:  logger.Named("recipe-service"),
	}
}

// List returns every recipe. The token is sent when present but not required.
func (s *RecipeService) List(ctx context.Context) ([]recipe.Recipe, error) {
	header, err := s.auth.AuthHeader(ctx)
	if err != nil && !apperrors.Is(err, apperrors.CodeUnauthorized) {
		return nil, err
	}

	raw, err := gateway.Do[json.RawMessage](ctx, s.gateway, "/recipes", gateway.Options{Header: header})
	if err != nil {
		return nil, err
	}
	return decodeRecipes(raw, "recipes")
}

// Create uploads a new recipe with an optional image
func (s *RecipeService) Create(ctx context.Context, draft recipe.Draft, image *recipe.Image) (*recipe.Recipe, error) {
	s.logger.Info("Creating recipe", zap.String("title", draft.Title))
	return s.save(ctx, http.MethodPost, "/recipes", draft, image)
}

// Update replaces an existing recipe; a nil image keeps the current one
func (s *RecipeService) Update(ctx context.Context, id string, draft recipe.Draft, image *recipe.Image) (*recipe.Recipe, error) {
	if id == "" {
		return nil, apperrors.NewValidationError(recipe.ErrMissingID.Error())
	}
	s.logger.Info("Updating recipe", zap.String("recipe_id", id), zap.String("title", draft.Title))
	return s.save(ctx, http.MethodPut, "/recipes/"+url.PathEscape(id), draft, image)
}

func (s *RecipeService) save(ctx context.Context, method, endpoint string, draft recipe.Draft, image *recipe.Image) (*recipe.Recipe, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if image != nil {
		if err := image.Validate(); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	header, err := s.auth.AuthHeader(ctx)
	if err != nil {
		return nil, err
	}

	body, err := recipeForm(draft, image)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build recipe form")
	}

	raw, err := gateway.Do[json.RawMessage](ctx, s.gateway, endpoint, gateway.Options{
		Method:    method,
		Header:    header,
		Multipart: body,
	})
	if err != nil {
		return nil, err
	}

	saved, err := decodeRecipe(raw)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Recipe saved", zap.String("recipe_id", saved.ID))
	return saved, nil
}

// recipeForm lays the draft out the way the backend's upload handler expects:
// list fields as JSON arrays and numbers as decimal strings.
func recipeForm(draft recipe.Draft, image *recipe.Image) (*gateway.MultipartBody, error) {
	ingredients, err := json.Marshal(nonNil(draft.Ingredients))
	if err != nil {
		return nil, err
	}
	instructions, err := json.Marshal(nonNil(draft.Instructions))
	if err != nil {
		return nil, err
	}

	body := &gateway.MultipartBody{}
	body.AddField("title", draft.Title).
		AddField("description", draft.Description).
		AddField("ingredients", string(ingredients)).
		AddField("instructions", string(instructions)).
		AddField("prepTime", strconv.Itoa(draft.PrepTime)).
		AddField("cookTime", strconv.Itoa(draft.CookTime)).
		AddField("servings", strconv.Itoa(draft.Servings)).
		AddField("difficulty", string(draft.Difficulty)).
		AddField("category", string(draft.Category)).
		AddField("rating", strconv.FormatFloat(draft.Rating, 'f', -1, 64))

	if image != nil {
		body.AddFile(gateway.FilePart{
			Field:       "image",
			FileName:    image.FileName,
			ContentType: image.ContentType,
			Data:        image.Data,
		})
	}
	return body, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// decodeRecipes accepts a bare array or an object wrapping it under key
func decodeRecipes(raw json.RawMessage, key string) ([]recipe.Recipe, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []recipe.Recipe{}, nil
	}

	var list []recipe.Recipe
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, apperrors.NewMalformedResponseError(http.StatusOK, err)
		}
		return list, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, apperrors.NewMalformedResponseError(http.StatusOK, err)
	}
	inner, ok := wrapped[key]
	if !ok {
		return []recipe.Recipe{}, nil
	}
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil, apperrors.NewMalformedResponseError(http.StatusOK, err)
	}
	if list == nil {
		list = []recipe.Recipe{}
	}
	return list, nil
}

// decodeRecipe accepts the recipe itself or {"recipe": {...}}
func decodeRecipe(raw json.RawMessage) (*recipe.Recipe, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &recipe.Recipe{}, nil
	}

	var wrapped struct {
		Recipe *recipe.Recipe `json:"recipe"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, apperrors.NewMalformedResponseError(http.StatusOK, err)
	}
	if wrapped.Recipe != nil {
		return wrapped.Recipe, nil
	}

	var r recipe.Recipe
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, apperrors.NewMalformedResponseError(http.StatusOK, err)
	}
	return &r, nil
}
