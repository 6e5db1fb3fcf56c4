package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrGateway wraps every failure reaching or decoding the model provider.
var ErrGateway = errors.New("ai gateway error")

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    Role
	Content string
}

// Request describes a single chat completion.
type Request struct {
	Model    string
	Messages []Message
	// JSONMode asks the provider to emit a single JSON object.
	JSONMode bool
}

// Client abstracts chat completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// PlaceholderClient stands in when no provider key is configured.
type PlaceholderClient struct{}

// Complete always fails with a gateway error.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", fmt.Errorf("%w: provider not configured", ErrGateway)
}
