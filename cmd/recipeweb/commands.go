package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alchemorsel/recipeweb/internal/domain/diet"
	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	"github.com/alchemorsel/recipeweb/internal/domain/user"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/session"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
)

type command struct {
	path    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"login":         {path: "/login", summary: "sign in with email and password", run: runLogin},
	"register":      {path: "/register", summary: "create an account", run: runRegister},
	"logout":        {path: "/logout", summary: "forget the stored session", run: runLogout},
	"recipes":       {path: "/recipes", summary: "browse all recipes", run: runRecipes},
	"recipe-create": {path: "/recipes/new", summary: "publish a new recipe", run: runRecipeCreate},
	"recipe-edit":   {path: "/recipes/edit", summary: "change one of your recipes", run: runRecipeEdit},
	"favorites":     {path: "/favorites", summary: "list your favorite recipes", run: runFavorites},
	"favorite":      {path: "/favorites", summary: "toggle a recipe as favorite", run: runFavorite},
	"chat":          {path: "/assistant", summary: "ask the AI assistant for recipes", run: runChat},
	"diet":          {path: "/diet", summary: "generate a weekly diet plan", run: runDiet},
	"profile":       {path: "/profile", summary: "show your profile", run: runProfile},
	"status":        {path: "/status", summary: "check the backend and session", run: runStatus},
}

var errSessionExpired = errors.New("session expired")

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.out)
	return fs
}

// prompt reads one line from stdin when value is empty
func (e *env) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(e.out, "%s: ", label)
	line, err := e.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("login", e)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email, err = e.prompt("Email", *email); err != nil {
		return err
	}
	if *password, err = e.prompt("Password", *password); err != nil {
		return err
	}

	s, err := e.Auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Logged in %s %s\n", iconGlyph(s.Icon), *email)
	return nil
}

func runRegister(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("register", e)
	var reg user.Registration
	fs.StringVar(&reg.Name, "name", "", "display name")
	fs.StringVar(&reg.Email, "email", "", "account email")
	fs.StringVar(&reg.Password, "password", "", "password: 8+ characters with upper, lower, digit and symbol")
	icon := fs.String("icon", string(user.DefaultIcon), "avatar icon: "+iconList())
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg.Icon = user.Icon(*icon)

	var err error
	if reg.Name, err = e.prompt("Name", reg.Name); err != nil {
		return err
	}
	if reg.Email, err = e.prompt("Email", reg.Email); err != nil {
		return err
	}
	if reg.Password, err = e.prompt("Password", reg.Password); err != nil {
		return err
	}

	s, err := e.Auth.Register(ctx, reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Welcome %s %s\n", iconGlyph(s.Icon), reg.Name)
	return nil
}

func runLogout(ctx context.Context, e *env, args []string) error {
	if err := e.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "Logged out")
	return nil
}

func runRecipes(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("recipes", e)
	category := fs.String("category", "", "only show this category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := e.Recipes.List(ctx)
	if err != nil {
		return err
	}

	shown := list[:0:0]
	for _, r := range list {
		if *category == "" || strings.EqualFold(string(r.Category), *category) {
			shown = append(shown, r)
		}
	}
	printRecipes(e.out, shown)
	return nil
}

func printRecipes(out io.Writer, list []recipe.Recipe) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No recipes found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDIFFICULTY\tTIME\tSERVES\tRATING")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d min\t%d\t%.1f\n",
			r.ID, r.Title, r.Category, r.Difficulty, r.TotalTime(), r.Servings, r.Rating)
	}
	_ = tw.Flush()
}

// stringList collects a repeated flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, "; ")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type draftFlags struct {
	fs           *flag.FlagSet
	title        string
	description  string
	ingredients  stringList
	instructions stringList
	prepTime     int
	cookTime     int
	servings     int
	difficulty   string
	category     string
	rating       float64
	image        string
}

func newDraftFlags(name string, e *env) *draftFlags {
	f := &draftFlags{fs: newFlagSet(name, e)}
	f.fs.StringVar(&f.title, "title", "", "recipe title")
	f.fs.StringVar(&f.description, "description", "", "short description")
	f.fs.Var(&f.ingredients, "ingredient", "an ingredient (repeatable)")
	f.fs.Var(&f.instructions, "step", "an instruction step (repeatable)")
	f.fs.IntVar(&f.prepTime, "prep", 0, "preparation time in minutes")
	f.fs.IntVar(&f.cookTime, "cook", 0, "cooking time in minutes")
	f.fs.IntVar(&f.servings, "servings", 1, "number of servings")
	f.fs.StringVar(&f.difficulty, "difficulty", string(recipe.DifficultyEasy), "Easy, Medium or Hard")
	f.fs.StringVar(&f.category, "category", string(recipe.CategoryDinner), "recipe category")
	f.fs.Float64Var(&f.rating, "rating", 0, "rating from 0 to 5")
	f.fs.StringVar(&f.image, "image", "", "path to a JPEG, PNG, GIF or WebP image")
	return f
}

// apply copies flags onto d; with onlySet, untouched flags keep d's values
func (f *draftFlags) apply(d *recipe.Draft, onlySet bool) {
	visit := f.fs.VisitAll
	if onlySet {
		visit = f.fs.Visit
	}

	visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			d.Title = f.title
		case "description":
			d.Description = f.description
		case "ingredient":
			d.Ingredients = append([]string(nil), f.ingredients...)
		case "step":
			d.Instructions = append([]string(nil), f.instructions...)
		case "prep":
			d.PrepTime = f.prepTime
		case "cook":
			d.CookTime = f.cookTime
		case "servings":
			d.Servings = f.servings
		case "difficulty":
			d.Difficulty = recipe.Difficulty(f.difficulty)
		case "category":
			d.Category = recipe.Category(f.category)
		case "rating":
			d.Rating = f.rating
		}
	})
}

func (f *draftFlags) loadImage() (*recipe.Image, error) {
	if f.image == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.image)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &recipe.Image{FileName: filepath.Base(f.image), Data: data}, nil
}

func runRecipeCreate(ctx context.Context, e *env, args []string) error {
	f := newDraftFlags("recipe-create", e)
	if err := f.fs.Parse(args); err != nil {
		return err
	}

	var draft recipe.Draft
	f.apply(&draft, false)

	image, err := f.loadImage()
	if err != nil {
		return err
	}

	saved, err := e.Recipes.Create(ctx, draft, image)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Recipe %q created (%s)\n", draft.Title, saved.ID)
	return nil
}

func runRecipeEdit(ctx context.Context, e *env, args []string) error {
	f := newDraftFlags("recipe-edit", e)
	id := f.fs.String("id", "", "id of the recipe to edit")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return apperrors.NewValidationError(recipe.ErrMissingID.Error())
	}
	e.nav.Enter("/recipes/" + *id + "/edit")

	list, err := e.Recipes.List(ctx)
	if err != nil {
		return err
	}

	var current *recipe.Recipe
	for i := range list {
		if list[i].ID == *id {
			current = &list[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("recipe %s not found", *id)
	}

	draft := recipe.DraftFrom(*current)
	f.apply(&draft, true)

	image, err := f.loadImage()
	if err != nil {
		return err
	}

	if _, err := e.Recipes.Update(ctx, *id, draft, image); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Recipe %q updated\n", draft.Title)
	return nil
}

func runFavorites(ctx context.Context, e *env, args []string) error {
	list, err := e.Recipes.Favorites(ctx)
	if err != nil {
		return err
	}
	printRecipes(e.out, list)
	return nil
}

func runFavorite(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("favorite", e)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return apperrors.NewValidationError("usage: recipeweb favorite <recipe-id>")
	}
	id := fs.Arg(0)

	now, err := e.Recipes.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}
	if now {
		fmt.Fprintf(e.out, "Added %s to favorites\n", id)
	} else {
		fmt.Fprintf(e.out, "Removed %s from favorites\n", id)
	}
	return nil
}

func runChat(ctx context.Context, e *env, args []string) error {
	if len(args) > 0 {
		return chatOnce(ctx, e, strings.Join(args, " "))
	}

	fmt.Fprintln(e.out, "Ask for a recipe. An empty line or Ctrl-D ends the chat.")
	for {
		fmt.Fprint(e.out, "> ")
		line, err := e.in.ReadString('\n')
		message := strings.TrimSpace(line)
		if message == "" {
			return nil
		}
		if chatErr := chatOnce(ctx, e, message); chatErr != nil {
			fmt.Fprintf(e.out, "Sorry, %s\n", describe(chatErr))
		}
		if err != nil || ctx.Err() != nil {
			return nil
		}
	}
}

func chatOnce(ctx context.Context, e *env, message string) error {
	recipes, err := e.Assistant.Chat(ctx, message)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Fprintln(e.out, "No matching recipes this time.")
		return nil
	}
	for _, r := range recipes {
		fmt.Fprintf(e.out, "* %s (%d min, %s)\n", r.Title, r.TotalTime(), r.Difficulty)
		if r.Description != "" {
			fmt.Fprintf(e.out, "  %s\n", r.Description)
		}
	}
	return nil
}

func runDiet(ctx context.Context, e *env, args []string) error {
	message, err := e.prompt("Describe your goals", strings.Join(args, " "))
	if err != nil {
		return err
	}

	result, err := e.Assistant.Diet(ctx, message)
	if err != nil {
		return err
	}
	printPlan(e.out, result)
	return nil
}

func printPlan(out io.Writer, result *diet.Result) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tBREAKFAST\tLUNCH\tDINNER\tSNACKS")
	for _, day := range result.Plan.Days() {
		m := day.Meals
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", day.Name, dash(m.Breakfast), dash(m.Lunch), dash(m.Dinner), dash(m.Snacks))
	}
	_ = tw.Flush()

	if result.Notes != "" {
		fmt.Fprintf(out, "\nNotes: %s\n", result.Notes)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runProfile(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("profile", e)
	watch := fs.Bool("watch", false, "keep the page open until the session ends or Ctrl-C")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// the monitor checked the session on startup and may already have redirected
	if e.nav.wasRedirected() {
		return errSessionExpired
	}

	s, ok, err := e.Auth.Session(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewUnauthorizedError("Please log in to see your profile")
	}

	fmt.Fprintf(e.out, "Icon:     %s %s\n", iconGlyph(s.Icon), s.Icon)
	if cred, err := session.ParseCredential(s.Token); err == nil {
		if cred.Subject != "" {
			fmt.Fprintf(e.out, "User:     %s\n", cred.Subject)
		}
		if cred.ExpiresAt != nil {
			fmt.Fprintf(e.out, "Session:  valid until %s\n", cred.ExpiresAt.Local().Format(time.RFC1123))
		}
	}

	if favorites, err := e.Recipes.Favorites(ctx); err == nil {
		fmt.Fprintf(e.out, "Favorites: %d\n", len(favorites))
	} else {
		e.Logger.Debug("Favorites unavailable on profile")
	}

	if !*watch {
		return nil
	}

	select {
	case <-e.nav.Redirected():
		return errSessionExpired
	case <-ctx.Done():
		return nil
	}
}

func runStatus(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("status", e)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report := e.Health.Check(ctx)
	if *asJSON {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	for _, check := range report.Checks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", check.Name, check.Status, check.Message)
	}
	_ = tw.Flush()

	_, ok, err := e.Auth.Session(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(e.out, "Session:  logged in")
	} else {
		fmt.Fprintln(e.out, "Session:  logged out")
	}
	return nil
}

var iconGlyphs = map[user.Icon]string{
	user.IconFire:   "🔥",
	user.IconLeaf:   "🌿",
	user.IconChef:   "👨‍🍳",
	user.IconPepper: "🌶",
	user.IconCake:   "🍰",
	user.IconFish:   "🐟",
	user.IconCoffee: "☕",
	user.IconApple:  "🍎",
}

func iconGlyph(icon user.Icon) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return "•"
}

func iconList() string {
	names := make([]string, len(user.Icons))
	for i, icon := range user.Icons {
		names[i] = string(icon)
	}
	return strings.Join(names, ", ")
}
