package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), "Rendering")
	s.w = &buf
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
	if !strings.Contains(buf.String(), "Rendering") {
		t.Errorf("output %q missing message", buf.String())
	}
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner(context.Background(), "idle")
	s.w = &bytes.Buffer{}
	s.Stop()
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "waiting")
	s.w = &bytes.Buffer{}
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report parent cancellation")
	}
}
