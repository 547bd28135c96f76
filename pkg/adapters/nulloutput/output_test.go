package nulloutput

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/user/vidbanner/pkg/adapters/logger"
	"github.com/user/vidbanner/pkg/ports"
)

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	out := New("@banner vid", logger.NewWriter(ports.LevelInfo, &buf, nil))

	if err := out.EmitTrigger(context.Background()); err != nil {
		t.Fatalf("EmitTrigger() error = %v", err)
	}
	if err := out.EmitCue(context.Background(), "hello there"); err != nil {
		t.Fatalf("EmitCue() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{"[dry-run]", "@banner vid", "hello there"} {
		if !strings.Contains(got, want) {
			t.Errorf("log output %q missing %q", got, want)
		}
	}
}

func TestOutput_Cancelled(t *testing.T) {
	out := New("tok", logger.NewNoop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := out.EmitTrigger(ctx); err == nil {
		t.Error("expected context error")
	}
}
