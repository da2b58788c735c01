// Package llmjson extracts and decodes JSON that an LLM wrapped in
// markdown fences or surrounding prose, shared by the conversation
// analyzer (C4) and query planner (C5) so both tolerate the same sloppy
// LLM output before falling back to heuristics.
package llmjson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extract returns the span of response from its first '{' to its last '}'
// (the outermost braces), tolerating markdown code fences and
// leading/trailing prose. The span is not checked for balance here.
func Extract(response string) (string, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = stripFences(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return cleaned[start : end+1], nil
}

// Decode extracts and unmarshals a JSON object from response into v.
func Decode(response string, v interface{}) error {
	jsonStr, err := Extract(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 && nl < 20 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
