// Package inbound defines the use cases the client exposes to its front-ends
package inbound

import (
	"context"
	"net/http"

	"github.com/alchemorsel/recipeweb/internal/domain/ai"
	"github.com/alchemorsel/recipeweb/internal/domain/diet"
	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	"github.com/alchemorsel/recipeweb/internal/domain/user"
)

// AuthService defines login, registration and session access
type AuthService interface {
	Login(ctx context.Context, email, password string) (*user.Session, error)
	Register(ctx context.Context, reg user.Registration) (*user.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (user.Session, bool, error)
	AuthHeader(ctx context.Context) (http.Header, error)
}

// RecipeService defines browsing, editing and favoriting recipes
type RecipeService interface {
	List(ctx context.Context) ([]recipe.Recipe, error)
	Create(ctx context.Context, draft recipe.Draft, image *recipe.Image) (*recipe.Recipe, error)
	Update(ctx context.Context, id string, draft recipe.Draft, image *recipe.Image) (*recipe.Recipe, error)

	Favorites(ctx context.Context) ([]recipe.Recipe, error)
	AddFavorite(ctx context.Context, id string) error
	RemoveFavorite(ctx context.Context, id string) error
	IsFavorite(ctx context.Context, id string) (bool, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
}

// AssistantService defines the AI recipe chat and the diet planner
type AssistantService interface {
	Chat(ctx context.Context, message string) ([]recipe.Recipe, error)
	History() []ai.ChatMessage
	Diet(ctx context.Context, message string) (*diet.Result, error)
}
