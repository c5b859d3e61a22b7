package testutils

import (
	"time"

	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	"github.com/alchemorsel/recipeweb/internal/domain/user"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Factory creates realistic test data from a seeded faker
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory; the same seed yields the same data
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Recipe returns a recipe as the backend would serve it
func (f *Factory) Recipe() recipe.Recipe {
	return recipe.Recipe{
		ID:           uuid.NewString(),
		Title:        f.faker.Sentence(3),
		Description:  f.faker.Sentence(12),
		Ingredients:  f.lines(4),
		Instructions: f.lines(3),
		PrepTime:     f.faker.Number(5, 30),
		CookTime:     f.faker.Number(10, 90),
		Servings:     f.faker.Number(1, 8),
		Difficulty:   recipe.Difficulties[f.faker.Number(0, len(recipe.Difficulties)-1)],
		Category:     recipe.Categories[f.faker.Number(0, len(recipe.Categories)-1)],
		Rating:       float64(f.faker.Number(0, 5)),
		Author:       f.faker.Name(),
	}
}

// Draft returns a draft that passes validation
func (f *Factory) Draft() recipe.Draft {
	return recipe.DraftFrom(f.Recipe())
}

// Registration returns a valid sign-up form
func (f *Factory) Registration() user.Registration {
	return user.Registration{
		Name:     f.faker.Name(),
		Email:    f.faker.Email(),
		Password: "Aa1!" + f.faker.LetterN(8),
		Icon:     user.Icons[f.faker.Number(0, len(user.Icons)-1)],
	}
}

// Token returns an HS256 credential expiring at exp
func Token(exp time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return signed
}

func (f *Factory) lines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = f.faker.Sentence(4)
	}
	return out
}
