// Package user defines the account data exchanged with the auth endpoints
package user

import (
	"github.com/alchemorsel/recipeweb/internal/domain/shared"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
)

// Icon identifies the avatar a user picked at registration
type Icon string

// Selectable avatar icons
const (
	IconFire   Icon = "fire"
	IconLeaf   Icon = "leaf"
	IconChef   Icon = "chef"
	IconPepper Icon = "pepper"
	IconCake   Icon = "cake"
	IconFish   Icon = "fish"
	IconCoffee Icon = "coffee"
	IconApple  Icon = "apple"
)

// DefaultIcon is used when a registration does not choose one
const DefaultIcon = IconChef

// Icons lists the selectable icons in display order
var Icons = []Icon{
	IconFire,
	IconLeaf,
	IconChef,
	IconPepper,
	IconCake,
	IconFish,
	IconCoffee,
	IconApple,
}

// Valid reports whether the icon is one of Icons
func (i Icon) Valid() bool {
	for _, known := range Icons {
		if i == known {
			return true
		}
	}
	return false
}

// Credentials is the login form
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the login form
func (c Credentials) Validate() error {
	if err := shared.Validator().Struct(c); err != nil {
		return apperrors.FromValidator(err)
	}
	return nil
}

// Registration is the sign-up form
type Registration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Icon     Icon   `json:"icon"`
}

// Validate checks the sign-up form. An empty icon falls back to DefaultIcon.
func (r *Registration) Validate() error {
	if r.Icon == "" {
		r.Icon = DefaultIcon
	}
	if !r.Icon.Valid() {
		return apperrors.NewValidationError("Icon is not one of the selectable icons")
	}
	if err := shared.Validator().Struct(r); err != nil {
		return apperrors.FromValidator(err)
	}
	return nil
}

// Session is what the client keeps about a logged-in user
type Session struct {
	Token string
	Icon  Icon
}
