package main

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	"github.com/alchemorsel/recipeweb/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`app:
  log_level: error
api:
  base_url: %s
session:
  driver: sqlite
  sqlite_path: %s
`, baseURL, filepath.Join(dir, "session.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "recipe-create")

	code, _, stderr = runCLI(t, "", "bake")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "bake"`)
}

func TestRun_Status(t *testing.T) {
	backend := testutils.NewBackend(t)
	cfg := writeConfig(t, backend.URL())

	code, stdout, stderr := runCLI(t, "", "-config", cfg, "status")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "backend")
	assert.Contains(t, stdout, "healthy")
	assert.NotContains(t, stdout, "unhealthy")
	assert.Contains(t, stdout, "logged out")
}

func TestRun_LoginThenCreateRecipe(t *testing.T) {
	backend := testutils.NewBackend(t)
	token := testutils.Token(time.Now().Add(time.Hour))
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]string{"token": token, "icon": "fire"})

	var fields map[string]string
	backend.Handle(http.MethodPost, "/recipes", func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form, err := multipart.NewReader(r.Body, params["boundary"]).ReadForm(1 << 20)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fields = map[string]string{}
		for k, v := range form.Value {
			fields[k] = v[0]
		}
		testutils.WriteJSON(w, http.StatusCreated, map[string]string{"_id": "r-9"})
	})

	cfg := writeConfig(t, backend.URL())

	code, stdout, stderr := runCLI(t, "Aa1!aaaaaaaa\n", "-config", cfg, "login", "-email", "user@x.com")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Logged in")

	code, stdout, stderr = runCLI(t, "", "-config", cfg, "status")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "logged in")

	code, stdout, stderr = runCLI(t, "", "-config", cfg, "recipe-create",
		"-title", "Miso Soup",
		"-ingredient", "miso", "-ingredient", "tofu",
		"-step", "Heat dashi", "-step", "Whisk in miso",
		"-prep", "5", "-cook", "10", "-servings", "2",
		"-difficulty", "Easy", "-category", "Lunch",
	)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "r-9")

	assert.Equal(t, "Miso Soup", fields["title"])
	assert.Equal(t, `["miso","tofu"]`, fields["ingredients"])
	assert.Equal(t, `["Heat dashi","Whisk in miso"]`, fields["instructions"])
	assert.Equal(t, "Bearer "+token, backend.LastRequest().Header.Get("Authorization"))
}

func TestRun_RecipesListing(t *testing.T) {
	backend := testutils.NewBackend(t)
	factory := testutils.NewFactory(21)
	first, second := factory.Recipe(), factory.Recipe()
	first.Category, second.Category = recipe.CategoryDessert, recipe.CategoryBreakfast
	backend.JSON(http.MethodGet, "/recipes", http.StatusOK, []recipe.Recipe{first, second})

	cfg := writeConfig(t, backend.URL())

	code, stdout, stderr := runCLI(t, "", "-config", cfg, "recipes", "-category", "dessert")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, first.ID)
	assert.NotContains(t, stdout, second.ID)
}

func TestRun_ProfileRequiresLogin(t *testing.T) {
	backend := testutils.NewBackend(t)
	cfg := writeConfig(t, backend.URL())

	code, _, stderr := runCLI(t, "", "-config", cfg, "profile")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Please log in")
}

func TestRun_ExpiredSessionRedirectsFromProfile(t *testing.T) {
	backend := testutils.NewBackend(t)
	expired := testutils.Token(time.Now().Add(-time.Minute))
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]string{"token": expired, "icon": "cake"})
	cfg := writeConfig(t, backend.URL())

	code, _, stderr := runCLI(t, "", "-config", cfg, "login", "-email", "user@x.com", "-password", "x")
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCLI(t, "", "-config", cfg, "profile")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "session has expired")
	assert.Contains(t, stderr, "session expired")

	code, stdout, _ = runCLI(t, "", "-config", cfg, "status")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "logged out")
}
