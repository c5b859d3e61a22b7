// Package ai provides the recipe assistant chat and the weekly diet planner.
// Both are thin clients of the backend's AI endpoints.
package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alchemorsel/recipeweb/internal/domain/ai"
	"github.com/alchemorsel/recipeweb/internal/domain/diet"
	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/http/gateway"
	"github.com/alchemorsel/recipeweb/internal/ports/inbound"
	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AssistantService talks to /ai/chat and /ai/diet
type AssistantService struct {
	gateway    *gateway.Client
	auth       outbound.Authorizer
	tracer     trace.Tracer
	transcript *ai.Transcript
	logger     *zap.Logger
}

var _ inbound.AssistantService = (*AssistantService)(nil)

// NewAssistantService creates a new assistant service
func NewAssistantService(gw *gateway.Client, auth outbound.Authorizer, tracer trace.Tracer, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		gateway:    gw,
		auth:       auth,
		tracer:     tracer,
		transcript: ai.NewTranscript(ai.MaxTranscript),
		logger:     logger.Named("assistant-service"),
	}
}

type promptRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Recipes []recipe.Recipe `json:"recipes"`
}

type dietResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	diet.Result
}

// Chat sends a message to the assistant and returns the suggested recipes.
// Both the question and the answer are kept in History.
func (s *AssistantService) Chat(ctx context.Context, message string) ([]recipe.Recipe, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required")
	}

	ctx, span := s.tracer.Start(ctx, "assistant.chat", trace.WithAttributes(
		attribute.Int("message.length", len(message)),
	))
	defer span.End()

	s.transcript.Append(ai.ChatMessage{Role: ai.RoleUser, Content: message, SentAt: time.Now()})

	resp, err := gateway.Do[chatResponse](ctx, s.gateway, "/ai/chat", gateway.Options{
		Method: http.MethodPost,
		Header: s.optionalAuth(ctx),
		JSON:   promptRequest{Message: message},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat request failed")
		return nil, err
	}
	if !resp.Success {
		err := apperrors.NewRequestFailedError("ai chat", resp.Message)
		span.SetStatus(codes.Error, err.Message)
		s.logger.Warn("Assistant could not answer", zap.String("reason", resp.Message))
		return nil, err
	}

	span.SetAttributes(attribute.Int("recipes.count", len(resp.Recipes)))
	s.transcript.Append(ai.ChatMessage{
		Role:    ai.RoleAssistant,
		Content: resp.Message,
		Recipes: resp.Recipes,
		SentAt:  time.Now(),
	})

	return resp.Recipes, nil
}

// History returns the retained chat messages, oldest first
func (s *AssistantService) History() []ai.ChatMessage {
	return s.transcript.Messages()
}

// Diet asks the planner for a weekly plan matching the description
func (s *AssistantService) Diet(ctx context.Context, message string) (*diet.Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required")
	}

	ctx, span := s.tracer.Start(ctx, "assistant.diet")
	defer span.End()

	resp, err := gateway.Do[dietResponse](ctx, s.gateway, "/ai/diet", gateway.Options{
		Method: http.MethodPost,
		Header: s.optionalAuth(ctx),
		JSON:   promptRequest{Message: message},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "diet request failed")
		return nil, err
	}
	if !resp.Success {
		err := apperrors.NewRequestFailedError("ai diet", resp.Message)
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}

	result := resp.Result
	if result.Plan == nil {
		result.Plan = diet.Plan{}
	}
	span.SetAttributes(attribute.Int("diet.days", len(result.Plan)))
	return &result, nil
}

// optionalAuth attaches the token when the user is logged in
func (s *AssistantService) optionalAuth(ctx context.Context) http.Header {
	header, err := s.auth.AuthHeader(ctx)
	if err != nil {
		return nil
	}
	return header
}
