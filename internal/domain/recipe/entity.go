// Package recipe contains the recipe model shared by the browse, create and
// edit pages and the AI assistant.
package recipe

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/alchemorsel/recipeweb/internal/domain/shared"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
)

// MaxImageSize is the largest image the backend accepts
const MaxImageSize = 5 << 20

// Recipe is a recipe as served by the backend. Times are in minutes.
type Recipe struct {
	ID           string     `json:"_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	PrepTime     int        `json:"prepTime"`
	CookTime     int        `json:"cookTime"`
	Servings     int        `json:"servings"`
	Difficulty   Difficulty `json:"difficulty"`
	Category     Category   `json:"category"`
	Rating       float64    `json:"rating"`
	Image        string     `json:"image,omitempty"`
	Author       string     `json:"author,omitempty"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id" as the identifier
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type plain Recipe
	aux := struct {
		*plain
		AltID string `json:"id"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.AltID
	}
	return nil
}

// TotalTime is preparation plus cooking time in minutes
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// Draft carries the fields a user fills in when creating or editing a recipe
type Draft struct {
	Title        string     `json:"title" validate:"required,min=3,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	Ingredients  []string   `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions []string   `json:"instructions" validate:"required,min=1,dive,required"`
	PrepTime     int        `json:"prepTime" validate:"gte=0"`
	CookTime     int        `json:"cookTime" validate:"gte=0"`
	Servings     int        `json:"servings" validate:"gte=1"`
	Difficulty   Difficulty `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Category     Category   `json:"category" validate:"required,oneof=Breakfast Lunch Dinner Dessert Snack Appetizer Beverage"`
	Rating       float64    `json:"rating" validate:"gte=0,lte=5"`
}

// DraftFrom pre-fills an edit form from an existing recipe
func DraftFrom(r Recipe) Draft {
	return Draft{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  append([]string(nil), r.Ingredients...),
		Instructions: append([]string(nil), r.Instructions...),
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		Category:     r.Category,
		Rating:       r.Rating,
	}
}

// Validate checks the draft before it is sent
func (d Draft) Validate() error {
	if err := shared.Validator().Struct(d); err != nil {
		return apperrors.FromValidator(err)
	}
	return nil
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Validate checks size and sniffs the content type, filling it in if empty
func (img *Image) Validate() error {
	if len(img.Data) > MaxImageSize {
		return ErrImageTooLarge
	}

	detected := http.DetectContentType(img.Data)
	if !allowedImageTypes[detected] {
		return ErrImageType
	}
	if img.ContentType == "" {
		img.ContentType = detected
	}
	return nil
}
