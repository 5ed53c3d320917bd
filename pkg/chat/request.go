package chat

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

const (
	// Model is the upstream model every relayed conversation is sent to.
	Model = "gpt-3.5-turbo"

	// MaxTokens caps the completion length requested from the upstream.
	MaxTokens = 100
)

var (
	ErrInvalidBody      = errors.New("invalid request body")
	ErrMissingMessages  = errors.New("messages is required")
	ErrMessagesNotArray = errors.New("messages must be an array")
	ErrNoMessages       = errors.New("messages must not be empty")
	ErrInvalidTurn      = errors.New("turn must be an object")
)

// ParseRequest extracts the ordered conversation turns from a client request
// body of the form {"messages": [...]}. Errors describe what is wrong with
// the request shape and are safe to return to the client.
func ParseRequest(body []byte) ([]Turn, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidBody
	}

	messages := gjson.GetBytes(body, "messages")
	if !messages.Exists() || messages.Type == gjson.Null {
		return nil, ErrMissingMessages
	}
	if !messages.IsArray() {
		return nil, ErrMessagesNotArray
	}

	elems := messages.Array()
	if len(elems) == 0 {
		return nil, ErrNoMessages
	}

	turns := make([]Turn, 0, len(elems))
	for i, elem := range elems {
		if !elem.IsObject() {
			return nil, fmt.Errorf("messages[%d]: %w", i, ErrInvalidTurn)
		}

		var t Turn
		if err := json.Unmarshal([]byte(elem.Raw), &t); err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, ErrInvalidTurn)
		}
		turns = append(turns, t)
	}

	return turns, nil
}

// UpstreamRequest is the body posted to the upstream chat completion endpoint.
type UpstreamRequest struct {
	Model     string `json:"model"`
	Messages  []Turn `json:"messages"`
	MaxTokens int    `json:"max_tokens"`
}

// NewUpstreamRequest builds the upstream body for already sanitized turns.
func NewUpstreamRequest(turns []Turn) UpstreamRequest {
	return UpstreamRequest{
		Model:     Model,
		Messages:  turns,
		MaxTokens: MaxTokens,
	}
}
