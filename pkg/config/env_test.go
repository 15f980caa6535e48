package config

import (
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	t.Run("returns default when unset", func(t *testing.T) {
		if got := GetEnvString("UNSET_TEST_KEY", "fallback"); got != "fallback" {
			t.Errorf("got %q, want %q", got, "fallback")
		}
	})

	t.Run("returns env value when set", func(t *testing.T) {
		t.Setenv("SET_TEST_KEY", "value")
		if got := GetEnvString("SET_TEST_KEY", "fallback"); got != "value" {
			t.Errorf("got %q, want %q", got, "value")
		}
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Run("returns default when unset", func(t *testing.T) {
		if got := GetEnvInt("UNSET_INT_KEY", 42); got != 42 {
			t.Errorf("got %d, want 42", got)
		}
	})

	t.Run("parses valid value", func(t *testing.T) {
		t.Setenv("INT_KEY", "100")
		if got := GetEnvInt("INT_KEY", 42); got != 100 {
			t.Errorf("got %d, want 100", got)
		}
	})

	t.Run("returns default on parse error", func(t *testing.T) {
		t.Setenv("INT_KEY", "not-a-number")
		if got := GetEnvInt("INT_KEY", 42); got != 42 {
			t.Errorf("got %d, want 42", got)
		}
	})
}

func TestGetEnvDuration(t *testing.T) {
	t.Run("returns default when unset", func(t *testing.T) {
		if got := GetEnvDuration("UNSET_DUR_KEY", 5*time.Second); got != 5*time.Second {
			t.Errorf("got %v, want 5s", got)
		}
	})

	t.Run("parses valid value", func(t *testing.T) {
		t.Setenv("DUR_KEY", "1m30s")
		if got := GetEnvDuration("DUR_KEY", 5*time.Second); got != 90*time.Second {
			t.Errorf("got %v, want 1m30s", got)
		}
	})

	t.Run("returns default on parse error", func(t *testing.T) {
		t.Setenv("DUR_KEY", "soon")
		if got := GetEnvDuration("DUR_KEY", 5*time.Second); got != 5*time.Second {
			t.Errorf("got %v, want 5s", got)
		}
	})
}
