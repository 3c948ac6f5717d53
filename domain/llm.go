package domain

import (
	"context"
	"errors"
)

// FallbackReply is returned to the chat user whenever generation fails, so
// the messaging provider always receives a deliverable reply.
const FallbackReply = "Sorry, I couldn't process your request right now. Please try again later."

var (
	// ErrTransport covers connection failures, timeouts and non-2xx statuses
	// from the generation endpoint.
	ErrTransport = errors.New("generation transport error")

	// ErrMalformedResponse means the endpoint answered 2xx but the expected
	// reply text was missing from the response structure.
	ErrMalformedResponse = errors.New("malformed generation response")
)

// Llm abstracts the generative-language provider.
type Llm interface {
	// Generate sends a single-turn prompt and returns the model's reply with
	// surrounding whitespace trimmed. Errors wrap ErrTransport or
	// ErrMalformedResponse. Stateless; safe to call concurrently.
	Generate(ctx context.Context, prompt string) (string, error)
}
