package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/generator"
	"github.com/lecternhq/lectern/internal/session"
	"github.com/lecternhq/lectern/internal/tools"
)

// Engine abstracts the reasoning engine behind the Messages protocol.
type Engine interface {
	Messages(ctx context.Context, req *generator.MessagesRequest) (*generator.MessagesResponse, error)
}

// QueryService answers questions over course materials. Each query runs
// at most one tool round: an initial engine call that may request
// tools, tool execution, and a final engine call for the answer.
type QueryService struct {
	engine   Engine
	registry *tools.Registry
	sessions *session.Store
	logger   *zap.Logger
}

// NewQueryService creates a new query service
func NewQueryService(
	engine Engine,
	registry *tools.Registry,
	sessions *session.Store,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		engine:   engine,
		registry: registry,
		sessions: sessions,
		logger:   logger,
	}
}

// Query answers one question, optionally inside an existing session.
// History is appended only after a complete answer is in hand; failed
// queries leave the session untouched.
func (s *QueryService) Query(ctx context.Context, query, sessionID string) (*domain.QueryResponse, error) {
	// Get or create session
	if sessionID == "" {
		sessionID = s.sessions.Create()
	}
	system := generator.SystemWithHistory(s.sessions.History(sessionID))

	userMessage := generator.Message{
		Role: domain.RoleUser,
		Content: []generator.ContentBlock{
			{Type: "text", Text: fmt.Sprintf("Answer this question about course materials: %s", query)},
		},
	}

	defs := s.registry.Definitions()
	toolSpecs := make([]generator.ToolSpec, len(defs))
	for i, d := range defs {
		toolSpecs[i] = generator.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}
	}

	resp, err := s.engine.Messages(ctx, &generator.MessagesRequest{
		System:     system,
		Messages:   []generator.Message{userMessage},
		Tools:      toolSpecs,
		ToolChoice: &generator.ToolChoice{Type: "auto"},
	})
	if err != nil {
		return nil, &domain.GenerationError{Phase: domain.PhaseInitial, Err: err}
	}

	answer := resp.FirstText()
	var sources []domain.Source

	if resp.StopReason == generator.StopReasonToolUse {
		answer, sources, err = s.runToolRound(ctx, system, userMessage, resp)
		if err != nil {
			return nil, err
		}
	}

	s.sessions.Append(sessionID, query, answer)

	// Serialize as [] rather than null when no tool produced sources.
	if sources == nil {
		sources = []domain.Source{}
	}

	return &domain.QueryResponse{
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	}, nil
}

// runToolRound executes every tool_use block of the first response and
// asks the engine for the final answer. Sources accumulate in a
// query-local slice, so concurrent queries never mix citations.
func (s *QueryService) runToolRound(
	ctx context.Context,
	system string,
	userMessage generator.Message,
	first *generator.MessagesResponse,
) (string, []domain.Source, error) {
	var results []generator.ContentBlock
	var sources []domain.Source

	for _, block := range first.Content {
		if block.Type != "tool_use" {
			continue
		}

		text, toolSources, err := s.registry.Execute(ctx, block.Name, block.Input)
		if err != nil {
			// An unknown tool name means the advertised definitions
			// and the registry disagree; that fails the whole query.
			if errors.Is(err, domain.ErrUnknownTool) {
				return "", nil, err
			}
			s.logger.Warn("tool execution failed",
				zap.String("tool", block.Name),
				zap.Error(err))
			text = fmt.Sprintf("Tool execution failed: %v", err)
		}

		sources = append(sources, toolSources...)
		results = append(results, generator.ContentBlock{
			Type:      "tool_result",
			ToolUseID: block.ID,
			Content:   text,
		})
	}

	// Follow-up carries the tool exchange but no tool definitions; the
	// second response is final regardless of its stop reason.
	resp, err := s.engine.Messages(ctx, &generator.MessagesRequest{
		System: system,
		Messages: []generator.Message{
			userMessage,
			{Role: domain.RoleAssistant, Content: first.Content},
			{Role: domain.RoleUser, Content: results},
		},
	})
	if err != nil {
		return "", nil, &domain.GenerationError{Phase: domain.PhaseFinal, Err: err}
	}

	return resp.FirstText(), sources, nil
}
