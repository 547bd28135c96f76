package ports

import "context"

// OutputChannel drives the external consumer's text input.
// Both operations act on whatever window currently holds input focus and
// are fire-and-forget: nothing confirms the consumer received them.
type OutputChannel interface {
	// EmitTrigger pastes the fixed trigger token into the consumer.
	EmitTrigger(ctx context.Context) error

	// EmitCue types text verbatim into the consumer and confirms it.
	EmitCue(ctx context.Context, text string) error
}
