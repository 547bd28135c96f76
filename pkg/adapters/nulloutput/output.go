// Package nulloutput provides an output channel that logs instead of typing.
package nulloutput

import (
	"context"

	"github.com/user/vidbanner/pkg/ports"
)

// Output is a no-op implementation of ports.OutputChannel.
// Each emit is reported at info level so dry runs show what would be sent.
type Output struct {
	token string
	log   ports.Logger
}

// New creates a dry-run Output that reports token for every trigger.
func New(token string, log ports.Logger) *Output {
	return &Output{token: token, log: log.WithComponent("dry-run")}
}

// EmitTrigger logs the trigger token.
func (o *Output) EmitTrigger(ctx context.Context) error {
	o.log.Info("Would paste trigger: %s", o.token)
	return ctx.Err()
}

// EmitCue logs the cue text.
func (o *Output) EmitCue(ctx context.Context, text string) error {
	o.log.Info("Would type cue: %s", text)
	return ctx.Err()
}

var _ ports.OutputChannel = (*Output)(nil)
