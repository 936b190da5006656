package strategy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRegisterDefaultsToEnabled(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(NewPlaceholder("alpha"))

	if !r.IsEnabled("alpha") {
		t.Fatalf("newly registered strategy must be enabled")
	}
	if len(r.Enabled()) != 1 {
		t.Fatalf("expected one enabled strategy")
	}
}

func TestRegisterOverwriteWarns(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(zerolog.New(&buf))
	r.Register(NewPlaceholder("alpha"))
	r.Register(NewPlaceholder("alpha"))

	if !strings.Contains(buf.String(), "overwriting registered strategy") {
		t.Fatalf("expected overwrite warning, got %s", buf.String())
	}
	if len(r.All()) != 1 {
		t.Fatalf("overwrite must not duplicate entries")
	}
}

func TestEnableDisableToggle(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(NewPlaceholder("alpha"))
	r.Register(NewPlaceholder("beta"))

	r.Disable("alpha")
	if r.IsEnabled("alpha") {
		t.Fatalf("expected alpha disabled")
	}
	if len(r.All()) != 2 {
		t.Fatalf("disable must not remove the strategy")
	}
	enabled := r.Enabled()
	if len(enabled) != 1 || enabled[0].Name() != "beta" {
		t.Fatalf("unexpected enabled set: %d", len(enabled))
	}

	r.Enable("alpha")
	if !r.IsEnabled("alpha") {
		t.Fatalf("expected alpha re-enabled")
	}
}

func TestStatusMapping(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(NewPlaceholder("alpha"))
	r.Register(NewPlaceholder("beta"))
	r.Disable("beta")

	status := r.Status()
	if status["alpha"] != StatusRunning {
		t.Fatalf("expected alpha Running, got %s", status["alpha"])
	}
	if status["beta"] != StatusPaused {
		t.Fatalf("expected beta Paused, got %s", status["beta"])
	}
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	for _, name := range []string{"c", "a", "b"} {
		r.Register(NewPlaceholder(name))
	}
	all := r.All()
	if all[0].Name() != "c" || all[1].Name() != "a" || all[2].Name() != "b" {
		t.Fatalf("registration order not preserved")
	}
}
