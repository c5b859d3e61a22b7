package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alchemorsel/recipeweb/internal/domain/ai"
	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"github.com/alchemorsel/recipeweb/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

type noAuth struct{}

func (noAuth) AuthHeader(ctx context.Context) (http.Header, error) {
	return nil, apperrors.NewUnauthorizedError("")
}

func newService(t *testing.T) (*AssistantService, *testutils.Backend, *tracetest.InMemoryExporter) {
	t.Helper()
	backend := testutils.NewBackend(t)
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return NewAssistantService(backend.Client(t), noAuth{}, tp.Tracer("test"), zaptest.NewLogger(t)), backend, exporter
}

func TestChat_ReturnsRecipesAndRecordsHistory(t *testing.T) {
	service, backend, exporter := newService(t)
	suggestion := testutils.NewFactory(11).Recipe()
	backend.JSON(http.MethodPost, "/ai/chat", http.StatusOK, map[string]any{
		"success": true,
		"recipes": []recipe.Recipe{suggestion},
	})

	recipes, err := service.Chat(context.Background(), "  something with lentils ")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, suggestion.Title, recipes[0].Title)

	var body map[string]string
	require.NoError(t, json.Unmarshal(backend.LastRequest().Body, &body))
	assert.Equal(t, "something with lentils", body["message"])

	history := service.History()
	require.Len(t, history, 2)
	assert.Equal(t, ai.RoleUser, history[0].Role)
	assert.Equal(t, ai.RoleAssistant, history[1].Role)
	assert.Len(t, history[1].Recipes, 1)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "assistant.chat", spans[0].Name)
}

func TestChat_UnsuccessfulAnswer(t *testing.T) {
	service, backend, _ := newService(t)
	backend.JSON(http.MethodPost, "/ai/chat", http.StatusOK, map[string]any{
		"success": false,
		"message": "model overloaded",
	})

	_, err := service.Chat(context.Background(), "pasta")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeRequestFailed))
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Len(t, service.History(), 1)
}

func TestChat_EmptyMessage(t *testing.T) {
	service, backend, _ := newService(t)

	_, err := service.Chat(context.Background(), "   ")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
	_, err = service.Diet(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))

	assert.Empty(t, backend.Requests())
	assert.Empty(t, service.History())
}

func TestChat_HistoryIsBounded(t *testing.T) {
	service, backend, _ := newService(t)
	backend.JSON(http.MethodPost, "/ai/chat", http.StatusOK, map[string]any{"success": true, "recipes": []any{}})

	for i := 0; i < ai.MaxTranscript; i++ {
		_, err := service.Chat(context.Background(), "again")
		require.NoError(t, err)
	}
	assert.Len(t, service.History(), ai.MaxTranscript)
}

func TestDiet(t *testing.T) {
	service, backend, _ := newService(t)
	backend.JSON(http.MethodPost, "/ai/diet", http.StatusOK, map[string]any{
		"success": true,
		"diet": map[string]any{
			"Friday": map[string]string{"dinner": "Fish tacos"},
			"Monday": map[string]string{"breakfast": "Porridge", "lunch": "Soup"},
		},
		"notes": "Vegetarian on weekdays",
	})

	result, err := service.Diet(context.Background(), "vegetarian, 2000 kcal")
	require.NoError(t, err)
	assert.Equal(t, "Vegetarian on weekdays", result.Notes)

	days := result.Plan.Days()
	require.Len(t, days, 2)
	assert.Equal(t, "Monday", days[0].Name)
	assert.Equal(t, "Porridge", days[0].Meals.Breakfast)
	assert.Equal(t, "Fish tacos", days[1].Meals.Dinner)
}

func TestDiet_Failures(t *testing.T) {
	t.Run("Unsuccessful", func(t *testing.T) {
		service, backend, _ := newService(t)
		backend.JSON(http.MethodPost, "/ai/diet", http.StatusOK, map[string]any{"success": false})

		_, err := service.Diet(context.Background(), "keto")
		assert.True(t, apperrors.Is(err, apperrors.CodeRequestFailed))
	})

	t.Run("BackendError", func(t *testing.T) {
		service, backend, _ := newService(t)
		backend.JSON(http.MethodPost, "/ai/diet", http.StatusBadGateway, map[string]string{"message": "upstream"})

		_, err := service.Diet(context.Background(), "keto")
		require.Error(t, err)
		assert.Equal(t, "upstream", err.Error())
	})
}
