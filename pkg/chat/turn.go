// Package chat holds the conversation types the relay accepts from clients
// and forwards to the upstream completion service.
package chat

import (
	"encoding/json"
	"fmt"
)

// Roles accepted by the upstream completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFunction  = "function"
	RoleTool      = "tool"
	RoleDeveloper = "developer"
)

var allowedRoles = map[string]struct{}{
	RoleSystem:    {},
	RoleUser:      {},
	RoleAssistant: {},
	RoleFunction:  {},
	RoleTool:      {},
	RoleDeveloper: {},
}

// IsAllowedRole reports whether role is one the upstream accepts verbatim.
func IsAllowedRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}

// Turn is one message in a conversation.
//
// Content is kept as raw JSON so plain strings and multimodal part arrays
// reach the upstream untouched. Any other fields the client sent on the turn
// (name, tool_call_id, tool_calls, ...) are kept in Extra and forwarded as-is.
type Turn struct {
	Role    string
	Content json.RawMessage
	Extra   map[string]json.RawMessage
}

// NewTextTurn creates a turn with a plain string content.
func NewTextTurn(role, text string) Turn {
	content, _ := json.Marshal(text)
	return Turn{Role: role, Content: content}
}

// UnmarshalJSON decodes a turn object. A role that is not a JSON string is
// kept as its raw JSON text so it is later treated as an invalid role rather
// than rejected.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding turn: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("decoding turn: %w", ErrInvalidTurn)
	}

	*t = Turn{}

	if raw, ok := fields["role"]; ok {
		var role string
		if err := json.Unmarshal(raw, &role); err == nil {
			t.Role = role
		} else if string(raw) != "null" {
			t.Role = string(raw)
		}
		delete(fields, "role")
	}

	if raw, ok := fields["content"]; ok {
		t.Content = raw
		delete(fields, "content")
	}

	if len(fields) > 0 {
		t.Extra = fields
	}

	return nil
}

// MarshalJSON encodes the turn with its extra fields. Content is omitted when
// the client never sent one.
func (t Turn) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(t.Extra)+2)
	for k, v := range t.Extra {
		out[k] = v
	}

	role, err := json.Marshal(t.Role)
	if err != nil {
		return nil, err
	}
	out["role"] = role

	if t.Content != nil {
		out["content"] = t.Content
	}

	return json.Marshal(out)
}

// Text returns the content as a string when it is a JSON string, or the raw
// JSON otherwise.
func (t Turn) Text() string {
	var s string
	if err := json.Unmarshal(t.Content, &s); err == nil {
		return s
	}
	return string(t.Content)
}
