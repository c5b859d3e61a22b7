package container

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alchemorsel/recipeweb/internal/infrastructure/config"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/session"
	"github.com/alchemorsel/recipeweb/internal/ports/inbound"
	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"github.com/alchemorsel/recipeweb/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type recordingNavigator struct {
	mu        sync.Mutex
	path      string
	redirects []string
}

func (n *recordingNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *recordingNavigator) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
	n.redirects = append(n.redirects, path)
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "recipeweb", Version: "test", Environment: "test", LogLevel: "error", LogFormat: "json"},
		API: config.APIConfig{
			BaseURL: baseURL,
			Retry:   config.RetryConfig{MaxAttempts: 1},
		},
		Session: config.SessionConfig{
			Driver:          config.SessionDriverMemory,
			CheckInterval:   time.Hour,
			ProtectedMarker: "/profile",
			LoginPath:       "/login",
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics: true,
			MetricsFile:   filepath.Join(t.TempDir(), "recipeweb.prom"),
		},
	}
}

func TestAppModule_Validates(t *testing.T) {
	cfg := testConfig(t, "http://localhost:5000/api")
	err := fx.ValidateApp(
		fx.Supply(cfg),
		fx.Provide(func() session.Navigator { return &recordingNavigator{} }),
		AppModule,
	)
	assert.NoError(t, err)
}

func TestAppModule_LoginAndMetrics(t *testing.T) {
	backend := testutils.NewBackend(t)
	token := testutils.Token(time.Now().Add(time.Hour))
	backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]string{"token": token, "icon": "fire"})

	cfg := testConfig(t, backend.URL())
	var auth inbound.AuthService
	var store outbound.SessionStore

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() session.Navigator { return &recordingNavigator{path: "/login"} }),
		AppModule,
		fx.Populate(&auth, &store),
	)
	app.RequireStart()

	_, err := auth.Login(context.Background(), "user@x.com", "Aa1!aaaaaaaa")
	require.NoError(t, err)

	stored, ok, err := store.Get(context.Background(), outbound.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, token, stored)

	app.RequireStop()

	dump, err := os.ReadFile(cfg.Monitoring.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(dump), `recipeweb_backend_requests_total{method="POST",status_code="200"} 1`)
}

func TestAppModule_ExpiredSessionOnProfile(t *testing.T) {
	backend := testutils.NewBackend(t)
	cfg := testConfig(t, backend.URL())
	nav := &recordingNavigator{path: "/profile"}

	var store outbound.SessionStore
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() session.Navigator { return nav }),
		AppModule,
		fx.Populate(&store),
		fx.Invoke(func(s outbound.SessionStore) error {
			if err := s.Set(context.Background(), outbound.TokenKey, testutils.Token(time.Now().Add(-time.Minute))); err != nil {
				return err
			}
			return s.Set(context.Background(), outbound.UserIconKey, "fire")
		}),
	)
	app.RequireStart()
	defer app.RequireStop()

	_, ok, err := store.Get(context.Background(), outbound.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(context.Background(), outbound.UserIconKey)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "/login", nav.CurrentPath())
	assert.Equal(t, []string{"/login"}, nav.redirects)
}
