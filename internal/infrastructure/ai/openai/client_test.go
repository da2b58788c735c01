package openai

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap/zaptest"
)

// These tests exercise the request/response shapes directly since Client's
// baseURL is hardcoded to the real OpenAI endpoint; httptest coverage for
// the HTTP mechanics lives in the ollama driver's tests, which share the
// same structure. Here we verify the pure encoding/decoding behavior.

func TestChatCompletionRequest_MarshalsExpectedShape(t *testing.T) {
	req := chatCompletionRequest{
		Model:       "gpt-4o-mini",
		Messages:    []chatMessage{{Role: "user", Content: "hello"}},
		Temperature: 0.7,
		MaxTokens:   1024,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["model"] != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %v", decoded["model"])
	}
	rf, ok := decoded["response_format"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected response_format object, got %T", decoded["response_format"])
	}
	if rf["type"] != "json_object" {
		t.Errorf("expected json_object, got %v", rf["type"])
	}
}

func TestChatCompletionResponse_ParsesChoicesAndError(t *testing.T) {
	raw := `{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`
	var resp chatCompletionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "hi there" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	errRaw := `{"error":{"message":"invalid api key"}}`
	var errResp chatCompletionResponse
	if err := json.Unmarshal([]byte(errRaw), &errResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if errResp.Error == nil || errResp.Error.Message != "invalid api key" {
		t.Fatalf("expected parsed error, got %+v", errResp.Error)
	}
}

func TestNewClient_DefaultsModel(t *testing.T) {
	c := NewClient("sk-test", "", 0, zaptest.NewLogger(t))
	if c.model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", c.model)
	}
}
