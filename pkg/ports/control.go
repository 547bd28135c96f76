package ports

import "context"

// ControlChannel delivers external trigger events, such as global hotkeys.
type ControlChannel interface {
	// Bind registers fn to run each time key is pressed.
	// Bind must be called before Run.
	Bind(key string, fn func()) error

	// Run dispatches events until ctx is cancelled.
	Run(ctx context.Context) error
}
