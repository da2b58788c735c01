// Package ai defines the domain entities that track a single LLM
// completion call end to end, independent of which provider served it.
package ai

import (
	"errors"
	"time"
)

// ProviderType identifies which LLM backend served a request.
type ProviderType string

const (
	ProviderTypeOllama ProviderType = "ollama"
	ProviderTypeOpenAI ProviderType = "openai"
	ProviderTypeMock   ProviderType = "mock"
)

// RequestStatus tracks a CompletionRequest through its lifecycle.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusFailed     RequestStatus = "failed"
)

// FinishReason records why a completion stopped producing tokens.
type FinishReason string

const (
	FinishReasonStop    FinishReason = "stop"
	FinishReasonLength  FinishReason = "length"
	FinishReasonTimeout FinishReason = "timeout"
	FinishReasonError   FinishReason = "error"
)

// TokenUsage tracks token consumption for a completion.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest represents one call through an LLMClient (C3), used by
// the analyzer and query planner to log and measure LLM usage regardless of
// which step issued the prompt.
type CompletionRequest struct {
	id          string
	purpose     string
	prompt      string
	provider    ProviderType
	model       string
	status      RequestStatus
	response    *CompletionResponse
	tokensUsed  int
	createdAt   time.Time
	completedAt *time.Time
	errorMessage string
}

// CompletionResponse represents the result of a completed request.
type CompletionResponse struct {
	content      string
	finishReason FinishReason
	usage        *TokenUsage
}

// NewCompletionRequest creates a new, pending completion request. purpose
// identifies the caller (e.g. "intent-analysis", "query-planning") for
// logging and metrics.
func NewCompletionRequest(id, purpose, prompt string, provider ProviderType, model string) (*CompletionRequest, error) {
	if prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}
	if len(prompt) > 20000 {
		return nil, errors.New("prompt too long")
	}

	return &CompletionRequest{
		id:        id,
		purpose:   purpose,
		prompt:    prompt,
		provider:  provider,
		model:     model,
		status:    RequestStatusPending,
		createdAt: time.Now(),
	}, nil
}

// ID returns the request identifier.
func (r *CompletionRequest) ID() string { return r.id }

// Purpose returns what step issued this request.
func (r *CompletionRequest) Purpose() string { return r.purpose }

// Prompt returns the prompt text.
func (r *CompletionRequest) Prompt() string { return r.prompt }

// Provider returns which backend served the request.
func (r *CompletionRequest) Provider() ProviderType { return r.provider }

// Model returns the model name used.
func (r *CompletionRequest) Model() string { return r.model }

// Status returns the current lifecycle status.
func (r *CompletionRequest) Status() RequestStatus { return r.status }

// Response returns the completion response, if any.
func (r *CompletionRequest) Response() *CompletionResponse { return r.response }

// TokensUsed returns the total tokens consumed.
func (r *CompletionRequest) TokensUsed() int { return r.tokensUsed }

// CreatedAt returns when the request was created.
func (r *CompletionRequest) CreatedAt() time.Time { return r.createdAt }

// CompletedAt returns when the request finished, if it has.
func (r *CompletionRequest) CompletedAt() *time.Time { return r.completedAt }

// ErrorMessage returns the failure message, if any.
func (r *CompletionRequest) ErrorMessage() string { return r.errorMessage }

// StartProcessing transitions a pending request to processing.
func (r *CompletionRequest) StartProcessing() error {
	if r.status != RequestStatusPending {
		return errors.New("can only start processing pending requests")
	}
	r.status = RequestStatusProcessing
	return nil
}

// Complete marks the request as completed with a response.
func (r *CompletionRequest) Complete(response *CompletionResponse) error {
	if r.status != RequestStatusProcessing {
		return errors.New("can only complete processing requests")
	}
	r.status = RequestStatusCompleted
	r.response = response
	if response.usage != nil {
		r.tokensUsed = response.usage.TotalTokens
	}
	now := time.Now()
	r.completedAt = &now
	return nil
}

// Fail marks the request as failed.
func (r *CompletionRequest) Fail(errorMessage string) error {
	if r.status == RequestStatusCompleted {
		return errors.New("cannot fail a completed request")
	}
	r.status = RequestStatusFailed
	r.errorMessage = errorMessage
	now := time.Now()
	r.completedAt = &now
	return nil
}

// NewCompletionResponse creates a completion response.
func NewCompletionResponse(content string, usage *TokenUsage, finishReason FinishReason) *CompletionResponse {
	return &CompletionResponse{content: content, usage: usage, finishReason: finishReason}
}

// Content returns the completion text.
func (r *CompletionResponse) Content() string { return r.content }

// Usage returns token usage, if known.
func (r *CompletionResponse) Usage() *TokenUsage { return r.usage }

// FinishReason returns why generation stopped.
func (r *CompletionResponse) FinishReason() FinishReason { return r.finishReason }
