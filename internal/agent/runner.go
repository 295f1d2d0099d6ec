package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soyeahso/tasknest/internal/domain"
	"github.com/soyeahso/tasknest/internal/llm"
	"github.com/soyeahso/tasknest/internal/logging"
)

// RunnerConfig configures the assistant runner.
type RunnerConfig struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

// TurnResult is the outcome of processing one user turn. Reply is always set:
// when the model fails, it holds an apologetic fallback and Err records what
// went wrong.
type TurnResult struct {
	Reply     string                  `json:"response"`
	ToolCalls []domain.ToolInvocation `json:"toolCalls"`
	Model     string                  `json:"model,omitempty"`
	Usage     llm.Usage               `json:"usage"`
	Duration  time.Duration           `json:"duration"`
	Err       error                   `json:"-"`
}

// Runner orchestrates a single assistant turn: it sends the conversation to
// the model with the tool catalog attached, executes whatever tools the model
// calls, and asks for a final natural-language reply.
type Runner struct {
	cfg     RunnerConfig
	client  llm.Client
	catalog *Catalog
	log     *logging.Logger
}

// NewRunner creates an assistant runner.
func NewRunner(cfg RunnerConfig, client llm.Client, catalog *Catalog, log *logging.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		client:  client,
		catalog: catalog,
		log:     log.Sub("agent"),
	}
}

// RunTurn processes one user turn for the owner. history is the conversation
// so far, oldest first, ending with the user's latest message. RunTurn never
// returns an error: model failures surface as a fallback Reply with Err set.
func (r *Runner) RunTurn(ctx context.Context, ownerID string, history []llm.Message) *TurnResult {
	start := time.Now()

	req := llm.CompletionRequest{
		Model:       r.cfg.Model,
		System:      BuildSystemPrompt(),
		Messages:    history,
		Tools:       r.catalog.Definitions(),
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}

	resp, err := r.client.Complete(ctx, req)
	if err != nil {
		r.log.Error().Err(err).Str("owner", ownerID).Msg("completion failed")
		return r.fallback(err, start)
	}

	result := &TurnResult{Model: resp.Model, Usage: resp.Usage}

	if len(resp.ToolCalls) == 0 {
		result.Reply = resp.Content
		result.Duration = time.Since(start)
		return result
	}

	// Execute the calls in the order the model issued them, then ask for the
	// final reply with the results in context.
	messages := append(history, llm.Message{
		Role:      llm.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	})
	for _, call := range resp.ToolCalls {
		toolResult, params := r.catalog.Dispatch(ownerID, call.Name, call.Arguments)

		r.log.Info().
			Str("owner", ownerID).
			Str("tool", call.Name).
			Str("status", fmt.Sprint(toolResult["status"])).
			Msg("tool executed")

		result.ToolCalls = append(result.ToolCalls, domain.ToolInvocation{
			Tool:       call.Name,
			Parameters: params,
			Result:     toolResult,
		})

		encoded, err := json.Marshal(toolResult)
		if err != nil {
			encoded = []byte(`{"error":"unencodable tool result"}`)
		}
		messages = append(messages, llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: call.ID,
			Content:    string(encoded),
		})
	}

	final, err := r.client.Complete(ctx, llm.CompletionRequest{
		Model:       r.cfg.Model,
		System:      BuildSystemPrompt(),
		Messages:    messages,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		r.log.Error().Err(err).Str("owner", ownerID).Msg("final completion failed")
		return r.fallback(err, start)
	}

	result.Reply = final.Content
	result.Model = final.Model
	result.Usage.InputTokens += final.Usage.InputTokens
	result.Usage.OutputTokens += final.Usage.OutputTokens
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) fallback(err error, start time.Time) *TurnResult {
	return &TurnResult{
		Reply: fmt.Sprintf(
			"❌ I encountered an error: %s. Please try again or contact support.", err),
		ToolCalls: nil,
		Duration:  time.Since(start),
		Err:       err,
	}
}
